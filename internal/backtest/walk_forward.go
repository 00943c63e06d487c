package backtest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/models"
)

// WalkForwardConfig configures walk-forward optimization in rounds
type WalkForwardConfig struct {
	TrainRounds      int
	TestRounds       int
	StepRounds       int
	MinBetsPerWindow int
	Grid             Grid
}

// WalkForwardWindow represents one walk-forward window. Indices are half-open
// positions into the history.
type WalkForwardWindow struct {
	WindowID     int        `json:"window_id"`
	TrainStart   int        `json:"train_start"`
	TrainEnd     int        `json:"train_end"`
	TestStart    int        `json:"test_start"`
	TestEnd      int        `json:"test_end"`
	Parameters   Parameters `json:"parameters"`
	TrainMetrics Metrics    `json:"train_metrics"`
	TestMetrics  Metrics    `json:"test_metrics"`
}

// WalkForwardResult represents walk-forward optimization result
type WalkForwardResult struct {
	Windows           []WalkForwardWindow `json:"windows"`
	AggregatedMetrics Metrics             `json:"aggregated_metrics"`
	ConsistencyScore  float64             `json:"consistency_score"`
	OverfitScore      float64             `json:"overfit_score"`
}

// RunWalkForward slides a train/test split across history. Each window picks
// the best grid point on its training rounds and replays it on the following
// test rounds, with the training rounds as warm-up.
func RunWalkForward(ctx context.Context, history []models.Round, base BacktestConfig, cfg WalkForwardConfig, log *logrus.Logger) (WalkForwardResult, error) {
	if cfg.TrainRounds <= base.WarmupRounds {
		return WalkForwardResult{}, fmt.Errorf("train rounds (%d) must exceed warm-up rounds (%d)", cfg.TrainRounds, base.WarmupRounds)
	}
	if cfg.TestRounds <= 0 {
		return WalkForwardResult{}, fmt.Errorf("test rounds must be positive")
	}
	if cfg.StepRounds <= 0 {
		cfg.StepRounds = cfg.TestRounds
	}

	windows := []WalkForwardWindow{}
	windowID := 0
	for start := 0; start+cfg.TrainRounds < len(history); start += cfg.StepRounds {
		trainEnd := start + cfg.TrainRounds
		testEnd := trainEnd + cfg.TestRounds
		if testEnd > len(history) {
			testEnd = len(history)
		}
		windowID++

		ranked, err := Optimize(ctx, history[start:trainEnd], base, cfg.Grid, nil)
		if err != nil {
			return WalkForwardResult{}, err
		}
		if len(ranked) == 0 {
			return WalkForwardResult{}, fmt.Errorf("grid has no valid parameter combinations")
		}
		best := ranked[0]

		testCfg := best.Parameters.Apply(base)
		testCfg.WarmupRounds = trainEnd - start
		eng, err := NewEngine(testCfg, nil)
		if err != nil {
			return WalkForwardResult{}, err
		}
		test, err := eng.Run(ctx, history[start:testEnd])
		if err != nil {
			return WalkForwardResult{}, err
		}

		if !meetsBetThreshold(cfg.MinBetsPerWindow, best.Metrics, test.Metrics) {
			continue
		}
		windows = append(windows, WalkForwardWindow{
			WindowID:     windowID,
			TrainStart:   start,
			TrainEnd:     trainEnd,
			TestStart:    trainEnd,
			TestEnd:      testEnd,
			Parameters:   best.Parameters,
			TrainMetrics: best.Metrics,
			TestMetrics:  test.Metrics,
		})
	}

	result := WalkForwardResult{
		Windows:           windows,
		AggregatedMetrics: aggregateWalkForward(windows),
		ConsistencyScore:  CalculateConsistency(windows),
		OverfitScore:      calculateOverfitScore(windows),
	}
	if log != nil {
		log.WithFields(logrus.Fields{
			"component":   "backtest",
			"windows":     len(windows),
			"consistency": result.ConsistencyScore,
			"overfit":     result.OverfitScore,
		}).Info("Walk-forward complete")
	}
	return result, nil
}

func meetsBetThreshold(minBets int, train, test Metrics) bool {
	if minBets <= 0 {
		return true
	}
	return train.TotalBets >= minBets && test.TotalBets >= minBets
}

// CalculateConsistency calculates the share of windows with a profitable test period
func CalculateConsistency(windows []WalkForwardWindow) float64 {
	if len(windows) == 0 {
		return 0
	}
	profitable := 0
	for _, w := range windows {
		if w.TestMetrics.TotalProfit.IsPositive() {
			profitable++
		}
	}
	return float64(profitable) / float64(len(windows))
}

// calculateOverfitScore compares in-sample and out-of-sample ROI. Zero means
// the test periods did as well as training.
func calculateOverfitScore(windows []WalkForwardWindow) float64 {
	if len(windows) == 0 {
		return 0
	}
	trainROI := 0.0
	testROI := 0.0
	for _, w := range windows {
		trainROI += w.TrainMetrics.ROI
		testROI += w.TestMetrics.ROI
	}
	if trainROI == 0 {
		return 0
	}
	return (trainROI - testROI) / trainROI
}

func aggregateWalkForward(windows []WalkForwardWindow) Metrics {
	metrics := Metrics{HitDistribution: make(map[int]int)}
	if len(windows) == 0 {
		return metrics
	}
	for _, w := range windows {
		m := w.TestMetrics
		metrics.TotalBets += m.TotalBets
		metrics.WinningBets += m.WinningBets
		metrics.LosingBets += m.LosingBets
		metrics.TotalHits += m.TotalHits
		metrics.FullHits += m.FullHits
		for hits, n := range m.HitDistribution {
			metrics.HitDistribution[hits] += n
		}
		metrics.TotalWagered = metrics.TotalWagered.Add(m.TotalWagered)
		metrics.TotalPayout = metrics.TotalPayout.Add(m.TotalPayout)
		metrics.TotalProfit = metrics.TotalProfit.Add(m.TotalProfit)
		metrics.SharpeRatio += m.SharpeRatio
		metrics.MaxDrawdown += m.MaxDrawdown
		metrics.TotalReturn += m.TotalReturn
	}
	n := float64(len(windows))
	metrics.SharpeRatio /= n
	metrics.MaxDrawdown /= n
	metrics.TotalReturn /= n
	if metrics.TotalBets > 0 {
		metrics.WinRate = float64(metrics.WinningBets) / float64(metrics.TotalBets)
		metrics.AverageHits = float64(metrics.TotalHits) / float64(metrics.TotalBets)
	}
	if metrics.TotalWagered.IsPositive() {
		metrics.ROI = metrics.TotalProfit.Div(metrics.TotalWagered).InexactFloat64()
	}
	return metrics
}

// ToJSON exports the walk-forward result
func (w WalkForwardResult) ToJSON() string {
	data, _ := json.Marshal(w)
	return string(data)
}
