package bayes

import (
	"fmt"
	"math"
)

// Names of the validator checks, included in the returned error.
const (
	checkNegative      = "negative probability"
	checkSum           = "sum"
	checkHypothesisSet = "hypothesis set"
)

// validateDistribution checks that d has no negative or non-finite values,
// sums to 1 within Tolerance and, when hypotheses is non-nil, has exactly
// that key set.
func validateDistribution(d Distribution, hypotheses map[Hypothesis]struct{}) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: %s: distribution is empty", ErrInvalidDistribution, checkHypothesisSet)
	}

	for _, h := range d.Hypotheses() {
		p := d[h]
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%w: %s: %q has %v", ErrInvalidDistribution, checkNegative, h, p)
		}
	}

	if sum := d.Sum(); math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("%w: %s: values sum to %v", ErrInvalidDistribution, checkSum, sum)
	}

	if hypotheses == nil {
		return nil
	}
	if len(d) != len(hypotheses) {
		return fmt.Errorf("%w: %s: got %d hypotheses, want %d",
			ErrInvalidDistribution, checkHypothesisSet, len(d), len(hypotheses))
	}
	for h := range d {
		if _, ok := hypotheses[h]; !ok {
			return fmt.Errorf("%w: %s: unknown hypothesis %q", ErrInvalidDistribution, checkHypothesisSet, h)
		}
	}
	return nil
}

// validateLikelihood checks every value lies in [0,1] and every inner key is
// a known hypothesis.
func validateLikelihood(t LikelihoodTable, hypotheses map[Hypothesis]struct{}) error {
	for _, e := range t.Labels() {
		for h, p := range t[e] {
			if math.IsNaN(p) || p < 0 || p > 1 {
				return fmt.Errorf("%w: P(%q|%q) = %v is outside [0,1]", ErrInconsistentLikelihoodTable, e, h, p)
			}
			if _, ok := hypotheses[h]; !ok {
				return fmt.Errorf("%w: evidence %q names unknown hypothesis %q", ErrInconsistentLikelihoodTable, e, h)
			}
		}
	}
	return nil
}
