package generator

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/keno-analytics/internal/models"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func rangeDraw(start int) []int {
	drawn := make([]int, models.DrawSize)
	for i := range drawn {
		drawn[i] = start + i
	}
	return drawn
}

func repeatDraw(drawn []int, times int) []models.Round {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rounds := make([]models.Round, times)
	for i := range rounds {
		rounds[i] = models.Round{
			DrawnNumbers: append([]int(nil), drawn...),
			Wager:        decimal.NewFromInt(1),
			Payout:       decimal.Zero,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return rounds
}

func randomHistory(rng *rand.Rand, size int) []models.Round {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rounds := make([]models.Round, size)
	for i := range rounds {
		board := Board()
		rng.Shuffle(len(board), func(a, b int) { board[a], board[b] = board[b], board[a] })
		rounds[i] = models.Round{
			DrawnNumbers: board[:models.DrawSize],
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return rounds
}

func assertValidPrediction(t *testing.T, numbers []int, count int) {
	t.Helper()
	assert.Len(t, numbers, count)
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		assert.True(t, models.IsValidNumber(n), "number %d off the board", n)
		assert.False(t, seen[n], "duplicate number %d", n)
		seen[n] = true
	}
}
