package domain

import (
	"time"

	"github.com/Harshitk-cp/credence/internal/bayes"
	"github.com/google/uuid"
)

// Session is a read-only snapshot of one live belief-updating run against a
// model. Sessions exist only in process memory.
type Session struct {
	ID           uuid.UUID          `json:"id"`
	TenantID     uuid.UUID          `json:"tenant_id"`
	ModelID      uuid.UUID          `json:"model_id"`
	ModelName    string             `json:"model_name"`
	Belief       map[string]float64 `json:"belief"`
	MostLikely   string             `json:"most_likely"`
	LogOdds      float64            `json:"log_odds"`
	Verdict      Verdict            `json:"verdict"`
	Observations []string           `json:"observations"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// BeliefMap converts a bayes.Distribution into its JSON-friendly form.
func BeliefMap(d bayes.Distribution) map[string]float64 {
	out := make(map[string]float64, len(d))
	for h, p := range d {
		out[string(h)] = p
	}
	return out
}

// EvidenceStrings converts evidence labels into plain strings.
func EvidenceStrings(labels []bayes.Evidence) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}
