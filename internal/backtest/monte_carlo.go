package backtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/models"
)

// MonteCarloConfig configures the random-selection baseline
type MonteCarloConfig struct {
	Iterations int
	Seed       uint64
}

// MonteCarloResult is the profit distribution of random selections over the
// same history, wager and payout table as a strategy replay.
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanProfit          float64            `json:"mean_profit"`
	StdProfit           float64            `json:"std_profit"`
	ValueAtRisk95       float64            `json:"var_95"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
	Distribution        []float64          `json:"distribution"`
}

// RunMonteCarlo replays history Iterations times with the random strategy,
// each with its own seed, and summarizes the total profits.
func RunMonteCarlo(ctx context.Context, history []models.Round, base BacktestConfig, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 100
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	seeds := rand.New(rand.NewPCG(seed, seed>>1))

	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return MonteCarloResult{}, fmt.Errorf("monte carlo cancelled at iteration %d: %w", i, err)
		}

		run := base
		run.Method = generator.MethodRandom
		run.Engine.Rules.Enabled = false
		run.Seed = seeds.Uint64()

		eng, err := NewEngine(run, nil)
		if err != nil {
			return MonteCarloResult{}, err
		}
		state, err := eng.replay(ctx, history)
		if err != nil {
			return MonteCarloResult{}, err
		}
		distribution[i] = CalculateMetrics(state, run).TotalProfit.InexactFloat64()
	}

	mean, std := meanStd(distribution)
	sorted := append([]float64(nil), distribution...)
	sort.Float64s(sorted)

	return MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanProfit:          mean,
		StdProfit:           std,
		ValueAtRisk95:       calculateVaR(distribution, 0.95),
		ProbabilityOfProfit: probabilityAbove(distribution, 0),
		ConfidenceIntervals: CalculateConfidenceIntervals(sorted, []float64{0.9, 0.95, 0.99}),
		Distribution:        distribution,
	}, nil
}

// PercentileRank returns the share of random runs whose profit is below profit.
func (m MonteCarloResult) PercentileRank(profit float64) float64 {
	if len(m.Distribution) == 0 {
		return 0
	}
	below := 0
	for _, v := range m.Distribution {
		if v < profit {
			below++
		}
	}
	return float64(below) / float64(len(m.Distribution))
}

// CalculateConfidenceIntervals returns the width of the central interval for
// each level. sorted must be in ascending order.
func CalculateConfidenceIntervals(sorted []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64, len(levels))
	if len(sorted) == 0 {
		return results
	}
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := stat.Quantile(p, stat.Empirical, sorted, nil)
		high := stat.Quantile(1.0-p, stat.Empirical, sorted, nil)
		results[fmt.Sprintf("%.0f%%", level*100)] = high - low
	}
	return results
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
