package backtest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/engine"
	"github.com/yourusername/keno-analytics/internal/generator"
)

func TestRunHotNumbersHitEveryRound(t *testing.T) {
	eng, err := NewEngine(testConfig(generator.MethodFrequency, 5), nil)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), fixedHistory(30))
	require.NoError(t, err)

	m := result.Metrics
	assert.Equal(t, 20, m.TotalBets)
	assert.Equal(t, 20, m.WinningBets)
	assert.Equal(t, 20, m.FullHits)
	assert.Equal(t, 1.0, m.WinRate)
	assert.Equal(t, 1.0, m.HitRate)
	assert.True(t, m.TotalProfit.Equal(decimal.NewFromInt(389*20)), "got %s", m.TotalProfit)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.GreaterOrEqual(t, m.PatternChanges, 1)
	assert.Equal(t, result.RunID, m.RunID)
	assert.Len(t, result.State.EquityCurve, 21)
}

func TestRunColdNumbersNeverHit(t *testing.T) {
	eng, err := NewEngine(testConfig(generator.MethodCold, 5), nil)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), fixedHistory(30))
	require.NoError(t, err)

	m := result.Metrics
	assert.Equal(t, 20, m.LosingBets)
	assert.Equal(t, 0, m.TotalHits)
	assert.Equal(t, 20, m.HitDistribution[0])
	assert.True(t, m.TotalProfit.Equal(decimal.NewFromInt(-20)))
	assert.InDelta(t, -1.0, m.ROI, 1e-9)
	assert.InDelta(t, 0.2, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 1.0, m.ValueAtRisk95, 1e-9)
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.InDelta(t, 80.0, m.FinalBankroll, 1e-9)
}

func TestRunWarmupLongerThanHistory(t *testing.T) {
	cfg := testConfig(generator.MethodFrequency, 5)
	cfg.WarmupRounds = 100
	eng, err := NewEngine(cfg, nil)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), fixedHistory(30))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Metrics.TotalBets)
	assert.True(t, result.Metrics.TotalProfit.IsZero())
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	history := randomHistory(80, 3)
	run := func() string {
		eng, err := NewEngine(testConfig(generator.MethodRandom, 6), nil)
		require.NoError(t, err)
		result, err := eng.Run(context.Background(), history)
		require.NoError(t, err)
		return result.Metrics.TotalProfit.String()
	}
	assert.Equal(t, run(), run())
}

func TestRunCancelled(t *testing.T) {
	eng, err := NewEngine(testConfig(generator.MethodFrequency, 5), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Run(ctx, fixedHistory(30))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSettleBet(t *testing.T) {
	eng, err := NewEngine(testConfig(generator.MethodFrequency, 4), nil)
	require.NoError(t, err)

	round := fixedHistory(1)[0]
	bet := eng.SettleBet(7, round, engine.Prediction{Numbers: []int{1, 2, 3, 30}, Refreshed: true})

	assert.Equal(t, 7, bet.Round)
	assert.Equal(t, 3, bet.Hits)
	assert.Equal(t, 10.0, bet.Multiplier)
	assert.True(t, bet.Payout.Equal(decimal.NewFromInt(10)))
	assert.True(t, bet.Profit.Equal(decimal.NewFromInt(9)))
	assert.True(t, bet.Won())
	assert.True(t, bet.Refreshed)
}

func TestBacktestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *BacktestConfig)
	}{
		{"zero count", func(c *BacktestConfig) { c.Count = 0 }},
		{"too many picks", func(c *BacktestConfig) { c.Count = 11 }},
		{"negative warm-up", func(c *BacktestConfig) { c.WarmupRounds = -1 }},
		{"zero wager", func(c *BacktestConfig) { c.Wager = decimal.Zero }},
		{"negative bankroll", func(c *BacktestConfig) { c.InitialBankroll = -5 }},
		{"unknown difficulty", func(c *BacktestConfig) { c.Difficulty = "extreme" }},
	}

	require.NoError(t, DefaultBacktestConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBacktestConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := NewEngine(cfg, nil)
			assert.Error(t, err)
		})
	}
}
