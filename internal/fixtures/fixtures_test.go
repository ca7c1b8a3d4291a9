package fixtures

import (
	"testing"

	"github.com/Harshitk-cp/credence/internal/bayes"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/probability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadModel(t *testing.T, name string) *domain.Model {
	t.Helper()
	models, err := Load()
	require.NoError(t, err)
	for i := range models {
		if models[i].Name == name {
			return &models[i]
		}
	}
	t.Fatalf("fixture %q not found", name)
	return nil
}

func TestLoad_AllModelsBuildEngines(t *testing.T) {
	models, err := Load()
	require.NoError(t, err)
	require.Len(t, models, 3)

	for _, m := range models {
		t.Run(m.Name, func(t *testing.T) {
			engine, err := m.Engine()
			require.NoError(t, err)
			assert.InDelta(t, 1.0, engine.CurrentBelief().Sum(), 1e-9)
		})
	}
}

func TestMedicalDiagnosis_TestSequences(t *testing.T) {
	m := loadModel(t, "medical-diagnosis")

	tests := []struct {
		name     string
		sequence []bayes.Evidence
		want     float64
	}{
		{"one positive", []bayes.Evidence{"Positive"}, 0.019 / 0.0484},
		{"two positives", []bayes.Evidence{"Positive", "Positive"}, 0.01805 / (0.01805 + 0.000882)},
		{"mixed", []bayes.Evidence{"Positive", "Negative"}, 0.00095 / (0.00095 + 0.028518)},
		{"one negative", []bayes.Evidence{"Negative"}, 0.001 / (0.001 + 0.9506)},
		{"two negatives", []bayes.Evidence{"Negative", "Negative"}, 0.00005 / (0.00005 + 0.922082)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := m.Engine()
			require.NoError(t, err)

			got, err := engine.UpdateAll(tt.sequence...)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got["Disease"], 1e-9)
			assert.InDelta(t, 1.0, got.Sum(), 1e-9)
		})
	}
}

func TestSpamFilter_WordByWord(t *testing.T) {
	engine, err := loadModel(t, "spam-filter").Engine()
	require.NoError(t, err)

	afterViagra, err := engine.Update(`word: "viagra"`)
	require.NoError(t, err)
	assert.InDelta(t, 0.24/0.247, afterViagra["Spam"], 1e-9)

	afterMeeting, err := engine.Update(`word: "meeting"`)
	require.NoError(t, err)
	assert.Less(t, afterMeeting["Spam"], afterViagra["Spam"])

	afterFree, err := engine.Update(`word: "free"`)
	require.NoError(t, err)
	assert.Greater(t, afterFree["Spam"], afterMeeting["Spam"])
	assert.Greater(t, afterFree["Spam"], 0.9)

	h, _ := engine.MostLikely()
	assert.Equal(t, bayes.Hypothesis("Spam"), h)
}

func TestCoinBias_BinomialEvidence(t *testing.T) {
	engine, err := loadModel(t, "coin-bias").Engine()
	require.NoError(t, err)

	ten, err := engine.Update("7 of 10 heads")
	require.NoError(t, err)
	fairW := 0.70 / 1024
	headsW := 0.15 * 0.0823543 * 0.027
	tailsW := 0.15 * 0.0002187 * 0.343
	assert.InDelta(t, fairW/(fairW+headsW+tailsW), ten["Fair (P=0.5)"], 1e-9)

	h, _ := engine.MostLikely()
	assert.Equal(t, bayes.Hypothesis("Fair (P=0.5)"), h)
}

func TestCoinBias_BatchesComposeToOneObservation(t *testing.T) {
	engine, err := loadModel(t, "coin-bias").Engine()
	require.NoError(t, err)

	parameters := map[bayes.Hypothesis]float64{
		"Fair (P=0.5)":         0.5,
		"Biased Heads (P=0.7)": 0.7,
		"Biased Tails (P=0.3)": 0.3,
	}

	// The fixture rows multiply out to the hundred-flip kernel.
	table := engine.Likelihood()
	for h, p := range parameters {
		product := table.Likelihood("7 of 10 heads", h) * table.Likelihood("63 of 90 heads", h)
		assert.InDelta(t, 1.0, product/probability.BinomialKernel(70, 100, p), 1e-9, string(h))
	}

	hundred := bayes.LikelihoodTable{"70 of 100 heads": {}}
	for h, p := range parameters {
		hundred["70 of 100 heads"][h] = probability.BinomialKernel(70, 100, p)
	}
	want, err := bayes.Step(engine.Prior(), hundred, "70 of 100 heads")
	require.NoError(t, err)

	got, err := engine.UpdateAll("7 of 10 heads", "63 of 90 heads")
	require.NoError(t, err)
	for h := range parameters {
		assert.InDelta(t, want[h], got[h], 1e-9, string(h))
	}
	assert.InDelta(t, 0.001244417, got["Fair (P=0.5)"], 1e-6)
	assert.Greater(t, got["Biased Heads (P=0.7)"], 0.99)
	assert.Equal(t, []bayes.Evidence{"7 of 10 heads", "63 of 90 heads"}, engine.Observations())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "models: [\n"},
		{"missing name", "models:\n  - prior: {A: 1}\n"},
		{"missing parameter", `
models:
  - name: coin
    prior: {A: 0.5, B: 0.5}
    parameters: {A: 0.5}
    binomial:
      - {label: flips, successes: 1, trials: 2}
`},
		{"impossible counts", `
models:
  - name: coin
    prior: {A: 1}
    parameters: {A: 0.5}
    binomial:
      - {label: flips, successes: 3, trials: 2}
`},
		{"duplicate label", `
models:
  - name: coin
    prior: {A: 1}
    likelihood: {flips: {A: 0.5}}
    parameters: {A: 0.5}
    binomial:
      - {label: flips, successes: 1, trials: 2}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
