package strategy

import (
	"math/rand"

	"github.com/aday913/alpaca-trading-bot/internal/domain"
)

// Compile-time interface check.
var _ Strategy = (*Random)(nil)

// Random returns buy, sell, or hold uniformly at random. It is a baseline
// and a test double, not a real strategy.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy seeded for reproducible sequences.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Name returns "random".
func (r *Random) Name() string {
	return "random"
}

// Predict ignores the history and picks a decision uniformly.
func (r *Random) Predict(_ []float64) domain.Decision {
	switch r.rng.Intn(3) {
	case 0:
		return domain.Buy
	case 1:
		return domain.Sell
	default:
		return domain.Hold
	}
}
