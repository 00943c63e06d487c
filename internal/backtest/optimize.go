package backtest

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/models"
)

// Grid lists the parameter values swept by Optimize
type Grid struct {
	DetectionWindows []int
	BaselineWindows  []int
	Thresholds       []float64
	Intervals        []int
}

// DefaultGrid returns the standard momentum sweep.
func DefaultGrid() Grid {
	return Grid{
		DetectionWindows: []int{3, 5, 7, 10},
		BaselineWindows:  []int{25, 50, 75, 100},
		Thresholds:       []float64{1.2, 1.5, 2.0, 2.5},
		Intervals:        []int{5, 10, 20},
	}
}

// Size returns the number of combinations, invalid ones included.
func (g Grid) Size() int {
	return len(g.DetectionWindows) * len(g.BaselineWindows) * len(g.Thresholds) * len(g.Intervals)
}

// Parameters is one grid point
type Parameters struct {
	DetectionWindow   int     `json:"detection_window"`
	BaselineWindow    int     `json:"baseline_window"`
	MomentumThreshold float64 `json:"momentum_threshold"`
	Interval          int     `json:"interval"`
}

// OptimizationResult is the replay outcome of one grid point
type OptimizationResult struct {
	Parameters Parameters `json:"parameters"`
	Metrics    Metrics    `json:"metrics"`
}

// Apply returns a copy of base configured with p. Interval refresh replaces
// any rule set.
func (p Parameters) Apply(base BacktestConfig) BacktestConfig {
	cfg := base
	cfg.Options = base.Options.Clone()
	cfg.Options[generator.KeyDetectionWindow] = p.DetectionWindow
	cfg.Options[generator.KeyBaselineWindow] = p.BaselineWindow
	cfg.Options[generator.KeyMomentumThreshold] = p.MomentumThreshold

	cfg.Engine.AutoRefresh = true
	cfg.Engine.Interval = p.Interval
	cfg.Engine.Rules.Enabled = false
	return cfg
}

// Points enumerates the grid, skipping detection windows that are not
// shorter than the baseline.
func (g Grid) Points() []Parameters {
	points := make([]Parameters, 0, g.Size())
	for _, d := range g.DetectionWindows {
		for _, b := range g.BaselineWindows {
			if d >= b {
				continue
			}
			for _, t := range g.Thresholds {
				for _, i := range g.Intervals {
					points = append(points, Parameters{
						DetectionWindow:   d,
						BaselineWindow:    b,
						MomentumThreshold: t,
						Interval:          i,
					})
				}
			}
		}
	}
	return points
}

// Optimize replays history for every grid point and ranks the results by
// total profit, then win rate.
func Optimize(ctx context.Context, history []models.Round, base BacktestConfig, grid Grid, log *logrus.Logger) ([]OptimizationResult, error) {
	points := grid.Points()
	results := make([]OptimizationResult, 0, len(points))

	for _, p := range points {
		eng, err := NewEngine(p.Apply(base), nil)
		if err != nil {
			return nil, err
		}
		result, err := eng.Run(ctx, history)
		if err != nil {
			return nil, err
		}
		results = append(results, OptimizationResult{Parameters: p, Metrics: result.Metrics})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Metrics, results[j].Metrics
		if cmp := a.TotalProfit.Cmp(b.TotalProfit); cmp != 0 {
			return cmp > 0
		}
		return a.WinRate > b.WinRate
	})

	if log != nil && len(results) > 0 {
		best := results[0]
		log.WithFields(logrus.Fields{
			"component":      "backtest",
			"combinations":   len(results),
			"best_profit":    best.Metrics.TotalProfit.StringFixed(2),
			"best_detection": best.Parameters.DetectionWindow,
			"best_baseline":  best.Parameters.BaselineWindow,
			"best_threshold": best.Parameters.MomentumThreshold,
			"best_interval":  best.Parameters.Interval,
		}).Info("Optimization complete")
	}
	return results, nil
}
