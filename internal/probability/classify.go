package probability

import "strings"

// Type is the kind of probability a statement describes.
type Type string

const (
	TypeEmpirical  Type = "empirical"
	TypeClassical  Type = "classical"
	TypeSubjective Type = "subjective"
	TypeUnknown    Type = "unknown"
)

var classifierKeywords = []struct {
	kind     Type
	keywords []string
}{
	{TypeEmpirical, []string{
		"observed", "data", "survey", "experiment", "collected", "records", "study",
		"trial", "toss", "roll", "measure", "recorded", "based on", "observations",
	}},
	{TypeClassical, []string{
		"equally likely", "fair", "balanced", "random", "theoretical",
		"all outcomes", "all cards", "all faces", "symmetrical",
	}},
	{TypeSubjective, []string{
		"feel", "think", "believe", "guess", "estimate", "intuition",
		"gut feeling", "probably", "likely", "maybe", "perhaps", "might",
	}},
}

// Classify guesses the probability type of a free-text description by
// keyword. Empirical keywords win over classical, classical over subjective.
func Classify(description string) Type {
	desc := strings.ToLower(description)
	for _, group := range classifierKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(desc, kw) {
				return group.kind
			}
		}
	}
	return TypeUnknown
}
