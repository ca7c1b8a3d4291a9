package simulate

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var ErrNoTrials = errors.New("trials must be positive")

// Trial runs one experiment and reports whether it succeeded.
type Trial func(rng Intn) bool

// RunTrials estimates the success probability of trial over n runs. Runs are
// split across workers goroutines (GOMAXPROCS when workers <= 0); run i gets
// its own generator from newRNG(i), so results do not depend on scheduling.
func RunTrials(ctx context.Context, n, workers int, newRNG func(i int) Intn, trial Trial) (float64, error) {
	if n <= 0 {
		return 0, ErrNoTrials
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	successes := make([]int, workers)
	g, gCtx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := gCtx.Err(); err != nil {
					return err
				}
				if trial(newRNG(i)) {
					successes[w]++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, s := range successes {
		total += s
	}
	return float64(total) / float64(n), nil
}

// SameSuitTrial draws two cards without replacement and succeeds when they
// share a suit.
func SameSuitTrial(deck []Card) Trial {
	return func(rng Intn) bool {
		two := Draw(deck, 2, false, rng)
		return len(two) == 2 && two[0].Suit == two[1].Suit
	}
}
