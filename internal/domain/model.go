package domain

import (
	"time"

	"github.com/Harshitk-cp/credence/internal/bayes"
	"github.com/google/uuid"
)

// Model is a named hypothesis space: a prior and the likelihood of each
// evidence label under every hypothesis. It is domain knowledge, stored once
// and never changed by belief updates.
type Model struct {
	ID          uuid.UUID                     `json:"id"`
	TenantID    uuid.UUID                     `json:"tenant_id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description,omitempty"`
	Prior       map[string]float64            `json:"prior"`
	Likelihood  map[string]map[string]float64 `json:"likelihood"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// PriorDistribution converts the stored prior into a bayes.Distribution.
func (m *Model) PriorDistribution() bayes.Distribution {
	d := make(bayes.Distribution, len(m.Prior))
	for h, p := range m.Prior {
		d[bayes.Hypothesis(h)] = p
	}
	return d
}

// LikelihoodTable converts the stored likelihoods into a bayes.LikelihoodTable.
func (m *Model) LikelihoodTable() bayes.LikelihoodTable {
	t := make(bayes.LikelihoodTable, len(m.Likelihood))
	for e, row := range m.Likelihood {
		inner := make(map[bayes.Hypothesis]float64, len(row))
		for h, p := range row {
			inner[bayes.Hypothesis(h)] = p
		}
		t[bayes.Evidence(e)] = inner
	}
	return t
}

// Engine builds a fresh BeliefStore seeded with the model's prior.
func (m *Model) Engine() (*bayes.BeliefStore, error) {
	return bayes.New(m.PriorDistribution(), m.LikelihoodTable())
}

// EvidenceLabels returns the labels the model defines, sorted.
func (m *Model) EvidenceLabels() []string {
	labels := m.LikelihoodTable().Labels()
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}
