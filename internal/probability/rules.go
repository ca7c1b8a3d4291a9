// Package probability provides elementary probability formulas: classical and
// empirical probability, the addition, multiplication and complement rules,
// conditional probability and event relationship checks.
package probability

import (
	"errors"
	"math"
)

// DefaultIndependenceTolerance is the slack allowed when comparing P(A and B)
// with P(A)·P(B).
const DefaultIndependenceTolerance = 0.001

var (
	ErrZeroMarginal = errors.New("marginal probability of the evidence is zero")
	ErrOutOfRange   = errors.New("probability outside [0,1]")
)

// Basic returns favorable/total with favorable clamped to [0,total].
// It returns 0 when total is not positive.
func Basic(favorable, total int) float64 {
	if total <= 0 {
		return 0
	}
	if favorable < 0 {
		favorable = 0
	}
	if favorable > total {
		favorable = total
	}
	return float64(favorable) / float64(total)
}

// Classical returns the probability of event when every outcome in
// sampleSpace is equally likely.
func Classical[T comparable](event, sampleSpace []T) float64 {
	if len(sampleSpace) == 0 {
		return 0
	}
	return float64(len(event)) / float64(len(sampleSpace))
}

// Empirical converts observed counts into relative frequencies.
func Empirical[K comparable](counts map[K]int) map[K]float64 {
	out := make(map[K]float64, len(counts))
	total := 0
	for _, c := range counts {
		total += c
	}
	for k, c := range counts {
		if total == 0 {
			out[k] = 0
			continue
		}
		out[k] = float64(c) / float64(total)
	}
	return out
}

// Addition returns P(A or B) = P(A) + P(B) - P(A and B).
func Addition(pA, pB, pAandB float64) float64 {
	return pA + pB - pAandB
}

// MultiplyIndependent returns P(A and B) for independent events.
func MultiplyIndependent(pA, pB float64) float64 {
	return pA * pB
}

// MultiplyDependent returns P(A and B) = P(A)·P(B|A).
func MultiplyDependent(pA, pBGivenA float64) float64 {
	return pA * pBGivenA
}

func Complement(pA float64) float64 {
	return 1 - pA
}

// Conditional returns P(B|A) = P(A and B)/P(A), or 0 when P(A) is 0.
func Conditional(pAandB, pA float64) float64 {
	if pA == 0 {
		return 0
	}
	return pAandB / pA
}

// MutuallyExclusive reports whether a and b share no outcome.
func MutuallyExclusive[T comparable](a, b []T) bool {
	seen := make(map[T]struct{}, len(a))
	for _, x := range a {
		seen[x] = struct{}{}
	}
	for _, y := range b {
		if _, ok := seen[y]; ok {
			return false
		}
	}
	return true
}

// Independent reports whether P(A and B) is within tolerance of P(A)·P(B).
func Independent(pA, pB, pAandB, tolerance float64) bool {
	return math.Abs(pAandB-pA*pB) < tolerance
}

// BayesBinary returns P(A|B) for a two-hypothesis space {A, not A}.
func BayesBinary(pA, pBGivenA, pBGivenNotA float64) (float64, error) {
	for _, p := range []float64{pA, pBGivenA, pBGivenNotA} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return 0, ErrOutOfRange
		}
	}
	pB := pBGivenA*pA + pBGivenNotA*Complement(pA)
	if pB == 0 {
		return 0, ErrZeroMarginal
	}
	return pBGivenA * pA / pB, nil
}

// BinomialKernel returns p^k·(1-p)^(n-k), the binomial likelihood without its
// coefficient. The coefficient only cancels under normalization, so kernels
// are comparable only across hypotheses evaluated on the same n and k.
func BinomialKernel(successes, trials int, p float64) float64 {
	return math.Pow(p, float64(successes)) * math.Pow(1-p, float64(trials-successes))
}
