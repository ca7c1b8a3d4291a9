// Package fixtures ships demonstration models and loads them from YAML.
package fixtures

import (
	_ "embed"
	"fmt"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/probability"
	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var defaultModels []byte

type ModelSetFixture struct {
	Models []ModelFixture `yaml:"models"`
}

// ModelFixture describes one model. Likelihood rows may be listed directly,
// or derived from Binomial observations using each hypothesis' success
// probability in Parameters.
type ModelFixture struct {
	Name        string                        `yaml:"name"`
	Description string                        `yaml:"description"`
	Prior       map[string]float64            `yaml:"prior"`
	Likelihood  map[string]map[string]float64 `yaml:"likelihood"`
	Parameters  map[string]float64            `yaml:"parameters"`
	Binomial    []BinomialEvidence            `yaml:"binomial"`
}

type BinomialEvidence struct {
	Label     string `yaml:"label"`
	Successes int    `yaml:"successes"`
	Trials    int    `yaml:"trials"`
}

// Load returns the built-in demonstration models.
func Load() ([]domain.Model, error) {
	return Parse(defaultModels)
}

// Parse decodes a YAML model set. The returned models have no ID or tenant.
func Parse(data []byte) ([]domain.Model, error) {
	var set ModelSetFixture
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	models := make([]domain.Model, 0, len(set.Models))
	for _, f := range set.Models {
		m, err := f.toModel()
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", f.Name, err)
		}
		models = append(models, m)
	}
	return models, nil
}

func (f ModelFixture) toModel() (domain.Model, error) {
	if f.Name == "" {
		return domain.Model{}, fmt.Errorf("name is required")
	}

	likelihood := make(map[string]map[string]float64, len(f.Likelihood)+len(f.Binomial))
	for e, row := range f.Likelihood {
		inner := make(map[string]float64, len(row))
		for h, p := range row {
			inner[h] = p
		}
		likelihood[e] = inner
	}

	for _, b := range f.Binomial {
		if b.Trials < 0 || b.Successes < 0 || b.Successes > b.Trials {
			return domain.Model{}, fmt.Errorf("binomial %q: %d successes in %d trials", b.Label, b.Successes, b.Trials)
		}
		if _, dup := likelihood[b.Label]; dup {
			return domain.Model{}, fmt.Errorf("binomial %q: label already defined", b.Label)
		}
		row := make(map[string]float64, len(f.Prior))
		for h := range f.Prior {
			p, ok := f.Parameters[h]
			if !ok {
				return domain.Model{}, fmt.Errorf("binomial %q: no parameter for hypothesis %q", b.Label, h)
			}
			row[h] = probability.BinomialKernel(b.Successes, b.Trials, p)
		}
		likelihood[b.Label] = row
	}

	return domain.Model{
		Name:        f.Name,
		Description: f.Description,
		Prior:       f.Prior,
		Likelihood:  likelihood,
	}, nil
}
