package backtest

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/keno-analytics/internal/models"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixedHistory draws 1..20 every round.
func fixedHistory(n int) []models.Round {
	rounds := make([]models.Round, n)
	for i := range rounds {
		drawn := make([]int, models.DrawSize)
		for j := range drawn {
			drawn[j] = j + 1
		}
		rounds[i] = models.Round{
			DrawnNumbers: drawn,
			Wager:        decimal.NewFromInt(1),
			Payout:       decimal.Zero,
			Timestamp:    epoch.Add(time.Duration(i) * time.Minute),
		}
	}
	return rounds
}

func randomHistory(n int, seed uint64) []models.Round {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rounds := make([]models.Round, n)
	for i := range rounds {
		board := rng.Perm(models.BoardSize)
		drawn := make([]int, models.DrawSize)
		for j := range drawn {
			drawn[j] = board[j] + 1
		}
		rounds[i] = models.Round{
			DrawnNumbers: drawn,
			Wager:        decimal.NewFromInt(1),
			Payout:       decimal.Zero,
			Timestamp:    epoch.Add(time.Duration(i) * time.Minute),
		}
	}
	return rounds
}

func testConfig(method string, count int) BacktestConfig {
	cfg := DefaultBacktestConfig()
	cfg.Method = method
	cfg.Count = count
	cfg.WarmupRounds = 10
	cfg.Seed = 42
	return cfg
}
