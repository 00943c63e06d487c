package backtest

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/generator"
)

func TestRunMonteCarloDeterministic(t *testing.T) {
	history := randomHistory(40, 5)
	base := testConfig(generator.MethodMomentum, 5)
	mc := MonteCarloConfig{Iterations: 25, Seed: 99}

	first, err := RunMonteCarlo(context.Background(), history, base, mc)
	require.NoError(t, err)
	second, err := RunMonteCarlo(context.Background(), history, base, mc)
	require.NoError(t, err)

	assert.Equal(t, 25, first.Iterations)
	require.Len(t, first.Distribution, 25)
	assert.Equal(t, first.Distribution, second.Distribution)
	assert.GreaterOrEqual(t, first.ProbabilityOfProfit, 0.0)
	assert.LessOrEqual(t, first.ProbabilityOfProfit, 1.0)
	assert.Contains(t, first.ConfidenceIntervals, "95%")
	assert.GreaterOrEqual(t, first.StdProfit, 0.0)
}

func TestMonteCarloPercentileRank(t *testing.T) {
	mc := MonteCarloResult{Distribution: []float64{-10, -5, 0, 5}}
	assert.Equal(t, 0.0, mc.PercentileRank(-20))
	assert.Equal(t, 0.5, mc.PercentileRank(0))
	assert.Equal(t, 1.0, mc.PercentileRank(100))
	assert.Equal(t, 0.0, MonteCarloResult{}.PercentileRank(1))
}

func TestRunMonteCarloValueAtRiskIsLoss(t *testing.T) {
	history := randomHistory(40, 5)
	mc, err := RunMonteCarlo(context.Background(), history, testConfig(generator.MethodMomentum, 5), MonteCarloConfig{Iterations: 30, Seed: 11})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, mc.ValueAtRisk95, 0.0)
	assert.Equal(t, calculateVaR(mc.Distribution, 0.95), mc.ValueAtRisk95)

	worst := mc.Distribution[0]
	for _, v := range mc.Distribution {
		if v < worst {
			worst = v
		}
	}
	assert.LessOrEqual(t, mc.ValueAtRisk95, math.Max(0, -worst), "bounded by the worst run's loss")

	assert.Equal(t, 5.0, calculateVaR([]float64{-5, 10, 20, 30, 40}, 0.95), "reported as a positive loss")
}

func TestConfidenceIntervals(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	ci := CalculateConfidenceIntervals(sorted, []float64{0.5})
	assert.InDelta(t, 5.0, ci["50%"], 1e-9)
	assert.Empty(t, CalculateConfidenceIntervals(nil, []float64{0.9}))
}

func TestRunMonteCarloCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunMonteCarlo(ctx, randomHistory(20, 1), testConfig(generator.MethodMomentum, 5), MonteCarloConfig{Iterations: 3, Seed: 1})
	assert.Error(t, err)
}
