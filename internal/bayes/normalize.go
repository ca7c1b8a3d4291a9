package bayes

import (
	"fmt"
	"math"
)

// Normalize rescales non-negative weights so they sum to 1. Every weight is
// divided by the same total, so ratios between nonzero weights are kept.
func Normalize(weights map[Hypothesis]float64) (Distribution, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no hypotheses to normalize", ErrInvalidDistribution)
	}

	var total float64
	for h, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: weight for %q is %v", ErrInvalidDistribution, h, w)
		}
		total += w
	}
	if total == 0 {
		return nil, ErrZeroEvidenceMass
	}

	out := make(Distribution, len(weights))
	for h, w := range weights {
		out[h] = w / total
	}
	return out, nil
}
