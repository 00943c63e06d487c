package generator

import (
	"math/rand/v2"

	"github.com/yourusername/keno-analytics/internal/models"
)

// RandomStrategy ignores history and returns a uniform random selection.
// The registry also substitutes it for unknown strategy names.
type RandomStrategy struct {
	*BaseStrategy
}

// NewRandomStrategy creates a random strategy.
func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *RandomStrategy) Name() string { return MethodRandom }

// Description describes the strategy.
func (s *RandomStrategy) Description() string {
	return "uniform random selection"
}

// Generate implements Strategy.
func (s *RandomStrategy) Generate(count int, _ []models.Round, _ Config) []int {
	return s.Fallback(count)
}
