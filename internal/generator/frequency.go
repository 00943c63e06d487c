package generator

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/yourusername/keno-analytics/internal/models"
)

// frequencySample returns the rounds a frequency strategy tallies.
func frequencySample(history []models.Round, cfg Config) []models.Round {
	return models.Sample(history, cfg.Int(KeySampleSize, DefaultSampleSize))
}

// FrequencyStrategy picks the most frequently drawn numbers in the sample.
type FrequencyStrategy struct {
	*BaseStrategy
}

// NewFrequencyStrategy creates a hot-number strategy.
func NewFrequencyStrategy(rng *rand.Rand) *FrequencyStrategy {
	return &FrequencyStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *FrequencyStrategy) Name() string { return MethodFrequency }

// Description describes the strategy.
func (s *FrequencyStrategy) Description() string {
	return "most frequently drawn numbers in the recent sample"
}

// Generate implements Strategy.
func (s *FrequencyStrategy) Generate(count int, history []models.Round, cfg Config) []int {
	count = ClampCount(count)
	sample := frequencySample(history, cfg)
	if len(sample) == 0 {
		return s.Fallback(count)
	}
	ranking := RankByFrequency(Tally(sample))
	return append([]int(nil), ranking[:count]...)
}

// ColdStrategy picks the least frequently drawn numbers, walking the
// frequency ranking backwards.
type ColdStrategy struct {
	*BaseStrategy
}

// NewColdStrategy creates a cold-number strategy.
func NewColdStrategy(rng *rand.Rand) *ColdStrategy {
	return &ColdStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *ColdStrategy) Name() string { return MethodCold }

// Description describes the strategy.
func (s *ColdStrategy) Description() string {
	return "least frequently drawn numbers in the recent sample"
}

// Generate implements Strategy.
func (s *ColdStrategy) Generate(count int, history []models.Round, cfg Config) []int {
	count = ClampCount(count)
	sample := frequencySample(history, cfg)
	if len(sample) == 0 {
		return s.Fallback(count)
	}
	cold := Reversed(RankByFrequency(Tally(sample)))
	return cold[:count]
}

// MixedStrategy combines hot and cold numbers, hot taking the larger half.
type MixedStrategy struct {
	*BaseStrategy
}

// NewMixedStrategy creates a mixed hot/cold strategy.
func NewMixedStrategy(rng *rand.Rand) *MixedStrategy {
	return &MixedStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *MixedStrategy) Name() string { return MethodMixed }

// Description describes the strategy.
func (s *MixedStrategy) Description() string {
	return "half hot and half cold numbers, shuffled together"
}

// Generate implements Strategy.
func (s *MixedStrategy) Generate(count int, history []models.Round, cfg Config) []int {
	count = ClampCount(count)
	sample := frequencySample(history, cfg)
	if len(sample) == 0 {
		return s.Fallback(count)
	}

	ranking := RankByFrequency(Tally(sample))
	hotCount := (count + 1) / 2

	picks := make([]int, 0, count)
	picks = append(picks, ranking[:hotCount]...)
	picks = takeDistinct(picks, Reversed(ranking), count)
	s.Shuffle(picks)
	return picks
}

// AverageStrategy picks numbers whose frequency is closest to the mean.
type AverageStrategy struct {
	*BaseStrategy
}

// NewAverageStrategy creates an average-frequency strategy.
func NewAverageStrategy(rng *rand.Rand) *AverageStrategy {
	return &AverageStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *AverageStrategy) Name() string { return MethodAverage }

// Description describes the strategy.
func (s *AverageStrategy) Description() string {
	return "numbers drawn closest to the mean frequency"
}

// Generate implements Strategy.
func (s *AverageStrategy) Generate(count int, history []models.Round, cfg Config) []int {
	count = ClampCount(count)
	sample := frequencySample(history, cfg)
	if len(sample) == 0 {
		return s.Fallback(count)
	}

	counts := Tally(sample)
	total := 0
	for n := 1; n <= models.BoardSize; n++ {
		total += counts[n]
	}
	mean := float64(total) / float64(models.BoardSize)

	ranking := Board()
	sort.SliceStable(ranking, func(i, j int) bool {
		return math.Abs(float64(counts[ranking[i]])-mean) < math.Abs(float64(counts[ranking[j]])-mean)
	})
	return ranking[:count]
}
