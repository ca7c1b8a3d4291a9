package bayes

import (
	"errors"
	"math"
	"sort"
)

// Tolerance is the allowed deviation of a settled distribution's sum from 1.
const Tolerance = 1e-9

var (
	ErrInvalidDistribution         = errors.New("invalid distribution")
	ErrInconsistentLikelihoodTable = errors.New("inconsistent likelihood table")
	ErrZeroEvidenceMass            = errors.New("zero evidence mass")
)

// Hypothesis identifies one mutually exclusive, exhaustive explanation.
type Hypothesis string

// Evidence is an observed outcome used as a key into a LikelihoodTable.
type Evidence string

// Distribution maps each hypothesis to its probability.
type Distribution map[Hypothesis]float64

// LikelihoodTable maps evidence to P(evidence | hypothesis).
// A missing hypothesis entry means likelihood 0.
type LikelihoodTable map[Evidence]map[Hypothesis]float64

// Clone returns an independent copy of d.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for h, p := range d {
		out[h] = p
	}
	return out
}

// Sum returns the total probability mass of d.
func (d Distribution) Sum() float64 {
	var total float64
	for _, p := range d {
		total += p
	}
	return total
}

// Hypotheses returns the keys of d in ascending order.
func (d Distribution) Hypotheses() []Hypothesis {
	keys := make([]Hypothesis, 0, len(d))
	for h := range d {
		keys = append(keys, h)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Equal reports whether d and other share a key set and every value differs
// by at most tol.
func (d Distribution) Equal(other Distribution, tol float64) bool {
	if len(d) != len(other) {
		return false
	}
	for h, p := range d {
		q, ok := other[h]
		if !ok || math.Abs(p-q) > tol {
			return false
		}
	}
	return true
}

// Likelihood returns P(e | h), or 0 when the table has no entry.
func (t LikelihoodTable) Likelihood(e Evidence, h Hypothesis) float64 {
	return t[e][h]
}

// Clone returns a deep copy of t.
func (t LikelihoodTable) Clone() LikelihoodTable {
	out := make(LikelihoodTable, len(t))
	for e, row := range t {
		inner := make(map[Hypothesis]float64, len(row))
		for h, p := range row {
			inner[h] = p
		}
		out[e] = inner
	}
	return out
}

// Labels returns the evidence labels of t in ascending order.
func (t LikelihoodTable) Labels() []Evidence {
	labels := make([]Evidence, 0, len(t))
	for e := range t {
		labels = append(labels, e)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
