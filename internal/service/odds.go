package service

import "math"

// Probabilities are clamped to [oddsFloor, 1-oddsFloor] before taking
// log-odds so that certain beliefs stay finite and JSON-encodable.
const oddsFloor = 1e-9

// Logit returns ln(p / (1-p)) with p clamped away from 0 and 1.
func Logit(p float64) float64 {
	p = math.Max(oddsFloor, math.Min(1-oddsFloor, p))
	return math.Log(p / (1 - p))
}
