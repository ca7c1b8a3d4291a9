package simulate

// Draw picks n cards from deck using rng. Without replacement each drawn card
// is removed from a working copy, and drawing stops once that copy is empty.
// deck itself is never modified.
func Draw(deck []Card, n int, replace bool, rng Intn) []Card {
	working := make([]Card, len(deck))
	copy(working, deck)

	draws := make([]Card, 0, n)
	for i := 0; i < n && len(working) > 0; i++ {
		idx := rng.IntN(len(working))
		draws = append(draws, working[idx])
		if !replace {
			working = append(working[:idx], working[idx+1:]...)
		}
	}
	return draws
}

// Experimental returns the fraction of draws satisfying pred.
func Experimental(draws []Card, pred func(Card) bool) float64 {
	if len(draws) == 0 {
		return 0
	}
	favorable := 0
	for _, c := range draws {
		if pred(c) {
			favorable++
		}
	}
	return float64(favorable) / float64(len(draws))
}

// Theoretical returns the probability of drawing a target card, given target
// matching cards out of total. For two draws without replacement it is the
// probability that both draws hit; otherwise the single-draw ratio.
func Theoretical(target, total, draws int, replace bool) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(target) / float64(total)
	if replace || draws != 2 || total < 2 {
		return p
	}
	return p * float64(target-1) / float64(total-1)
}
