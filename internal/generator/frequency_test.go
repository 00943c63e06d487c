package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/models"
)

func TestAllStrategiesReturnExactCount(t *testing.T) {
	rng := testRNG()
	histories := map[string][]models.Round{
		"empty":  nil,
		"single": repeatDraw(rangeDraw(1), 1),
		"random": randomHistory(rng, 150),
	}
	registry := NewDefaultRegistry(nil, testRNG())

	for _, name := range registry.Names() {
		s, err := registry.Get(name)
		require.NoError(t, err)
		for label, history := range histories {
			t.Run(name+"/"+label, func(t *testing.T) {
				for count := 1; count <= models.BoardSize; count++ {
					assertValidPrediction(t, s.Generate(count, history, Config{}), count)
				}
			})
		}
	}
}

func TestStrategiesDoNotMutateHistory(t *testing.T) {
	history := randomHistory(testRNG(), 60)
	snapshot := make([][]int, len(history))
	for i := range history {
		snapshot[i] = append([]int(nil), history[i].DrawnNumbers...)
	}

	registry := NewDefaultRegistry(nil, testRNG())
	for _, name := range registry.Names() {
		registry.Generate(name, 10, history, Config{KeyPlacement: PlacementHot})
	}

	for i := range history {
		assert.Equal(t, snapshot[i], history[i].DrawnNumbers)
	}
}

func TestFrequencyAndColdShareReversedRanking(t *testing.T) {
	history := randomHistory(testRNG(), 80)
	freq := NewFrequencyStrategy(testRNG()).Generate(40, history, Config{})
	cold := NewColdStrategy(testRNG()).Generate(40, history, Config{})
	assert.Equal(t, Reversed(freq), cold)

	hot5 := NewFrequencyStrategy(nil).Generate(5, history, Config{})
	cold5 := NewColdStrategy(nil).Generate(5, history, Config{})
	counts := Tally(history)
	for _, h := range hot5 {
		for _, c := range cold5 {
			assert.GreaterOrEqual(t, counts[h], counts[c])
		}
	}
}

func TestFrequencyTieBreakUsesEnumerationOrder(t *testing.T) {
	history := repeatDraw(rangeDraw(1), 10)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, NewFrequencyStrategy(nil).Generate(5, history, Config{}))
	assert.Equal(t, []int{40, 39, 38, 37, 36}, NewColdStrategy(nil).Generate(5, history, Config{}))
}

func TestFrequencyRespectsSampleSize(t *testing.T) {
	history := append(repeatDraw(rangeDraw(1), 30), repeatDraw(rangeDraw(21), 3)...)

	recent := NewFrequencyStrategy(nil).Generate(3, history, Config{KeySampleSize: 3})
	assert.Equal(t, []int{21, 22, 23}, recent)

	all := NewFrequencyStrategy(nil).Generate(3, history, Config{KeySampleSize: 0})
	assert.Equal(t, []int{1, 2, 3}, all)
}

func TestMixedTakesHotAndColdHalves(t *testing.T) {
	history := repeatDraw(rangeDraw(1), 10)
	numbers := NewMixedStrategy(testRNG()).Generate(5, history, Config{})
	assert.Equal(t, []int{1, 2, 3, 39, 40}, models.SortedCopy(numbers))

	numbers = NewMixedStrategy(testRNG()).Generate(40, history, Config{})
	assertValidPrediction(t, numbers, 40)
}

func TestAverageClosestToMean(t *testing.T) {
	history := randomHistory(testRNG(), 40)
	counts := Tally(history)
	mean := float64(models.DrawSize*len(history)) / float64(models.BoardSize)

	numbers := NewAverageStrategy(nil).Generate(8, history, Config{})
	chosen := models.MaskOf(numbers)

	worstChosen := 0.0
	for _, n := range numbers {
		worstChosen = math.Max(worstChosen, math.Abs(float64(counts[n])-mean))
	}
	for n := 1; n <= models.BoardSize; n++ {
		if chosen&(1<<uint(n-1)) != 0 {
			continue
		}
		assert.GreaterOrEqual(t, math.Abs(float64(counts[n])-mean), worstChosen)
	}
}

func TestFallbackUsedForEmptyHistory(t *testing.T) {
	s := NewFrequencyStrategy(testRNG())
	numbers := s.Generate(10, nil, Config{})
	assertValidPrediction(t, numbers, 10)
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 1, ClampCount(-5))
	assert.Equal(t, 1, ClampCount(0))
	assert.Equal(t, 40, ClampCount(41))
	assert.Equal(t, 7, ClampCount(7))

	assert.Equal(t, 2, ClampCountFloat(2.7))
	assert.Equal(t, 1, ClampCountFloat(math.NaN()))
	assert.Equal(t, 40, ClampCountFloat(math.Inf(1)))
	assert.Equal(t, 1, ClampCountFloat(math.Inf(-1)))
	assert.Equal(t, 1, ClampCountFloat(0.4))
}
