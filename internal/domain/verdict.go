package domain

// Verdict is a plain-language reading of a probability.
type Verdict string

const (
	VerdictImpossible Verdict = "impossible"
	VerdictUnlikely   Verdict = "unlikely"
	VerdictEven       Verdict = "even"
	VerdictLikely     Verdict = "likely"
	VerdictCertain    Verdict = "certain"
)

// ComputeVerdict buckets p. Only exact 0 and 1 are impossible and certain.
func ComputeVerdict(p float64) Verdict {
	switch {
	case p <= 0:
		return VerdictImpossible
	case p >= 1:
		return VerdictCertain
	case p < 0.5:
		return VerdictUnlikely
	case p > 0.5:
		return VerdictLikely
	default:
		return VerdictEven
	}
}

func VerdictReason(p float64) string {
	switch ComputeVerdict(p) {
	case VerdictImpossible:
		return "probability == 0"
	case VerdictCertain:
		return "probability == 1"
	case VerdictUnlikely:
		return "0 < probability < 0.5"
	case VerdictLikely:
		return "0.5 < probability < 1"
	default:
		return "probability == 0.5"
	}
}

func AllVerdicts() []Verdict {
	return []Verdict{VerdictImpossible, VerdictUnlikely, VerdictEven, VerdictLikely, VerdictCertain}
}

func ValidVerdict(v string) bool {
	switch Verdict(v) {
	case VerdictImpossible, VerdictUnlikely, VerdictEven, VerdictLikely, VerdictCertain:
		return true
	}
	return false
}
