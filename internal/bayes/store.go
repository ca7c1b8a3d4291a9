// Package bayes implements sequential Bayesian belief updating over a fixed,
// finite set of hypotheses.
//
// A BeliefStore is built from a prior and a likelihood table. Each call to
// Update folds one evidence label into the current belief: every hypothesis is
// weighted by P(evidence | hypothesis), the weights are summed, and the result
// is renormalized. The posterior becomes the prior for the next update.
//
// A BeliefStore is not safe for concurrent use. Distributions it returns are
// copies and may be shared freely.
package bayes

import "fmt"

// BeliefStore holds the current posterior together with the immutable prior
// and likelihood table it was built from.
type BeliefStore struct {
	prior        Distribution
	likelihood   LikelihoodTable
	hypotheses   map[Hypothesis]struct{}
	belief       Distribution
	observations []Evidence
}

// New validates prior and likelihood and returns a store whose current belief
// equals prior exactly. Both inputs are copied.
func New(prior Distribution, likelihood LikelihoodTable) (*BeliefStore, error) {
	if err := validateDistribution(prior, nil); err != nil {
		return nil, fmt.Errorf("prior: %w", err)
	}

	hypotheses := make(map[Hypothesis]struct{}, len(prior))
	for h := range prior {
		hypotheses[h] = struct{}{}
	}

	if err := validateLikelihood(likelihood, hypotheses); err != nil {
		return nil, err
	}

	return &BeliefStore{
		prior:      prior.Clone(),
		likelihood: likelihood.Clone(),
		hypotheses: hypotheses,
		belief:     prior.Clone(),
	}, nil
}

// Update folds e into the current belief and returns a snapshot of the new
// posterior. On error the belief is left exactly as it was.
func (s *BeliefStore) Update(e Evidence) (Distribution, error) {
	posterior, err := s.step(s.belief, e)
	if err != nil {
		return nil, err
	}
	s.belief = posterior
	s.observations = append(s.observations, e)
	return posterior.Clone(), nil
}

// UpdateAll folds labels in order. It is all-or-nothing: if any label fails,
// the belief and observation history are unchanged.
func (s *BeliefStore) UpdateAll(labels ...Evidence) (Distribution, error) {
	belief := s.belief
	for i, e := range labels {
		next, err := s.step(belief, e)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
		belief = next
	}
	s.belief = belief
	s.observations = append(s.observations, labels...)
	return belief.Clone(), nil
}

func (s *BeliefStore) step(belief Distribution, e Evidence) (Distribution, error) {
	posterior, err := Step(belief, s.likelihood, e)
	if err != nil {
		return nil, err
	}
	if err := validateDistribution(posterior, s.hypotheses); err != nil {
		return nil, fmt.Errorf("posterior for %q: %w", e, err)
	}
	return posterior, nil
}

// CurrentBelief returns a snapshot of the current posterior.
func (s *BeliefStore) CurrentBelief() Distribution {
	return s.belief.Clone()
}

// Prior returns a copy of the distribution the store was built with.
func (s *BeliefStore) Prior() Distribution {
	return s.prior.Clone()
}

// Likelihood returns a copy of the likelihood table.
func (s *BeliefStore) Likelihood() LikelihoodTable {
	return s.likelihood.Clone()
}

// Hypotheses returns the fixed hypothesis set in ascending order.
func (s *BeliefStore) Hypotheses() []Hypothesis {
	return s.prior.Hypotheses()
}

// Observations returns the evidence folded in since construction or the last Reset.
func (s *BeliefStore) Observations() []Evidence {
	out := make([]Evidence, len(s.observations))
	copy(out, s.observations)
	return out
}

// Reset restores the belief to the prior and clears the observation history.
func (s *BeliefStore) Reset() {
	s.belief = s.prior.Clone()
	s.observations = nil
}

// MostLikely returns the hypothesis with the highest current probability.
// Ties go to the hypothesis that sorts first.
func (s *BeliefStore) MostLikely() (Hypothesis, float64) {
	var (
		best  Hypothesis
		bestP = -1.0
	)
	for _, h := range s.belief.Hypotheses() {
		if p := s.belief[h]; p > bestP {
			best, bestP = h, p
		}
	}
	return best, bestP
}
