package bayes

import "fmt"

// Step applies Bayes' rule for a single piece of evidence and returns the
// normalized posterior. belief is not modified. Evidence absent from the
// table is impossible under every hypothesis and yields ErrZeroEvidenceMass.
func Step(belief Distribution, likelihood LikelihoodTable, e Evidence) (Distribution, error) {
	weights := make(map[Hypothesis]float64, len(belief))
	for h, p := range belief {
		weights[h] = likelihood.Likelihood(e, h) * p
	}

	posterior, err := Normalize(weights)
	if err != nil {
		return nil, fmt.Errorf("evidence %q: %w", e, err)
	}
	return posterior, nil
}
