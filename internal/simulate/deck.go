// Package simulate provides card and dice sampling used to check probability
// results empirically.
package simulate

// Suits in deck order: hearts, diamonds, clubs, spades.
var Suits = []string{"H", "D", "C", "S"}

// Ranks in deck order, ace low.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a playing card.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

func (c Card) IsHeart() bool { return c.Suit == "H" }

func (c Card) IsRed() bool { return c.Suit == "H" || c.Suit == "D" }

func (c Card) IsAce() bool { return c.Rank == "A" }

func (c Card) IsFace() bool {
	return c.Rank == "J" || c.Rank == "Q" || c.Rank == "K"
}

// NewDeck returns a standard 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Filter returns the cards of deck matching pred.
func Filter(deck []Card, pred func(Card) bool) []Card {
	var out []Card
	for _, c := range deck {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// DiceOutcomes returns the 36 ordered outcomes of rolling two dice.
func DiceOutcomes() [][2]int {
	out := make([][2]int, 0, 36)
	for a := 1; a <= 6; a++ {
		for b := 1; b <= 6; b++ {
			out = append(out, [2]int{a, b})
		}
	}
	return out
}
