package simulate

const (
	lcgModulus     = 1<<31 - 1
	lcgMultiplier  = 1103515245
	lcgIncrement   = 12345
	DefaultLCGSeed = 12345
)

// Intn is the randomness a draw needs. *math/rand/v2.Rand satisfies it.
type Intn interface {
	IntN(n int) int
}

// LCG is a small deterministic linear-congruential generator. It is useful for
// reproducible simulations; it is not suitable for anything else.
type LCG struct {
	state uint64
}

func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed % lcgModulus}
}

func (g *LCG) next() float64 {
	g.state = (lcgMultiplier*g.state + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}

// Range returns an integer in [a, b].
func (g *LCG) Range(a, b int) int {
	return a + int(g.next()*float64(b-a+1))
}

// IntN returns an integer in [0, n). It panics if n <= 0.
func (g *LCG) IntN(n int) int {
	if n <= 0 {
		panic("simulate: invalid argument to IntN")
	}
	return g.Range(0, n-1)
}
