package backtest

import (
	"encoding/json"
	"math"
)

// Recommendations
const (
	RecommendAccept      = "ACCEPT"
	RecommendReject      = "REJECT"
	RecommendNeedsReview = "NEEDS_REVIEW"
)

// AggregatedResult combines a replay with its random baseline and walk-forward run
type AggregatedResult struct {
	Method             string             `json:"method"`
	ReplayMetrics      Metrics            `json:"replay_metrics"`
	MonteCarlo         *MonteCarloResult  `json:"monte_carlo,omitempty"`
	WalkForward        *WalkForwardResult `json:"walk_forward,omitempty"`
	BaselinePercentile float64            `json:"baseline_percentile"`
	CompositeScore     float64            `json:"composite_score"`
	Weights            AggregationWeights `json:"weights"`
	Recommendation     string             `json:"recommendation"`
}

// AggregationWeights define weighting per method
type AggregationWeights struct {
	Replay      float64 `json:"replay"`
	Baseline    float64 `json:"baseline"`
	WalkForward float64 `json:"walk_forward"`
}

// DefaultAggregationWeights weights the replay highest.
func DefaultAggregationWeights() AggregationWeights {
	return AggregationWeights{Replay: 0.5, Baseline: 0.25, WalkForward: 0.25}
}

// AggregateResults scores a replay. Missing monte carlo or walk-forward
// results drop out and the remaining weights are renormalized.
func AggregateResults(replay Metrics, monteCarlo *MonteCarloResult, walkForward *WalkForwardResult, weights AggregationWeights) AggregatedResult {
	result := AggregatedResult{
		Method:        replay.Method,
		ReplayMetrics: replay,
		MonteCarlo:    monteCarlo,
		WalkForward:   walkForward,
		Weights:       weights,
	}

	score := CalculateCompositeScore(replay) * weights.Replay
	total := weights.Replay

	if monteCarlo != nil {
		result.BaselinePercentile = monteCarlo.PercentileRank(replay.TotalProfit.InexactFloat64())
		score += result.BaselinePercentile * weights.Baseline
		total += weights.Baseline
	}

	consistency := -1.0
	wfProfitable := true
	if walkForward != nil {
		consistency = walkForward.ConsistencyScore
		wfProfitable = !walkForward.AggregatedMetrics.TotalProfit.IsNegative()
		score += consistency * weights.WalkForward
		total += weights.WalkForward
	}

	if total > 0 {
		result.CompositeScore = score / total
	}
	result.Recommendation = GenerateRecommendation(result.CompositeScore, consistency,
		replay.TotalProfit.IsPositive(), wfProfitable)
	return result
}

// CalculateCompositeScore scores replay metrics in [0, 1]
func CalculateCompositeScore(metrics Metrics) float64 {
	sharpeScore := normalize(metrics.SharpeRatio, -1, 1)
	roiScore := normalize(metrics.ROI, -0.5, 0.5)
	profitFactorScore := normalize(metrics.ProfitFactor, 0, 2)
	drawdownPenalty := 1.0 - normalize(metrics.MaxDrawdown, 0, 0.5)
	winRateScore := normalize(metrics.WinRate, 0, 1)

	weighted := 0.0
	weighted += sharpeScore * 0.30
	weighted += roiScore * 0.20
	weighted += profitFactorScore * 0.20
	weighted += drawdownPenalty * 0.15
	weighted += winRateScore * 0.15
	return weighted
}

// GenerateRecommendation determines if a strategy is worth playing. A negative
// consistency means no walk-forward run was made.
func GenerateRecommendation(score, consistency float64, profitable, walkForwardProfitable bool) string {
	hasWalkForward := consistency >= 0
	if score < 0.4 || !walkForwardProfitable || (hasWalkForward && consistency < 0.4) {
		return RecommendReject
	}
	if score > 0.7 && profitable && (!hasWalkForward || consistency > 0.6) {
		return RecommendAccept
	}
	return RecommendNeedsReview
}

// ToJSON exports the aggregated result
func (a AggregatedResult) ToJSON() string {
	data, _ := json.Marshal(a)
	return string(data)
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return math.Max(0, math.Min(1, v))
}
