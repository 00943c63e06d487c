package backtest

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Metrics represents backtest performance metrics
type Metrics struct {
	RunID           uuid.UUID       `json:"run_id"`
	Method          string          `json:"method"`
	Difficulty      string          `json:"difficulty"`
	TotalBets       int             `json:"total_bets"`
	WinningBets     int             `json:"winning_bets"`
	LosingBets      int             `json:"losing_bets"`
	WinRate         float64         `json:"win_rate"`
	TotalHits       int             `json:"total_hits"`
	HitRate         float64         `json:"hit_rate"`
	AverageHits     float64         `json:"average_hits"`
	FullHits        int             `json:"full_hits"`
	HitDistribution map[int]int     `json:"hit_distribution"`
	TotalWagered    decimal.Decimal `json:"total_wagered"`
	TotalPayout     decimal.Decimal `json:"total_payout"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	ROI             float64         `json:"roi"`
	MeanProfit      float64         `json:"mean_profit"`
	StdDevProfit    float64         `json:"stddev_profit"`
	SharpeRatio     float64         `json:"sharpe_ratio"`
	SortinoRatio    float64         `json:"sortino_ratio"`
	ProfitFactor    float64         `json:"profit_factor"`
	ValueAtRisk95   float64         `json:"var_95"`
	LargestWin      float64         `json:"largest_win"`
	LargestLoss     float64         `json:"largest_loss"`
	MaxDrawdown     float64         `json:"max_drawdown"`
	FinalBankroll   float64         `json:"final_bankroll"`
	TotalReturn     float64         `json:"total_return"`
	PatternChanges  int             `json:"pattern_changes"`
	Refreshes       int             `json:"refreshes"`
}

// CalculateMetrics calculates metrics from backtest state
func CalculateMetrics(state *BacktestState, cfg BacktestConfig) Metrics {
	metrics := Metrics{
		Method:          cfg.Method,
		Difficulty:      cfg.Difficulty,
		HitDistribution: make(map[int]int),
		TotalWagered:    decimal.Zero,
		TotalPayout:     decimal.Zero,
		TotalProfit:     decimal.Zero,
	}
	if state == nil {
		return metrics
	}

	metrics.FinalBankroll = state.CurrentBankroll
	metrics.MaxDrawdown = state.EquityCurve.MaxDrawdown()
	metrics.PatternChanges = state.PatternChanges
	if cfg.InitialBankroll > 0 {
		metrics.TotalReturn = (state.CurrentBankroll - cfg.InitialBankroll) / cfg.InitialBankroll
	}

	bets := state.Bets
	metrics.TotalBets = len(bets)
	if len(bets) == 0 {
		return metrics
	}

	picks := 0
	profits := make([]float64, len(bets))
	for i := range bets {
		bet := &bets[i]
		if bet.Won() {
			metrics.WinningBets++
		} else {
			metrics.LosingBets++
		}
		if bet.Refreshed {
			metrics.Refreshes++
		}
		metrics.TotalHits += bet.Hits
		metrics.HitDistribution[bet.Hits]++
		if bet.Hits == len(bet.Numbers) {
			metrics.FullHits++
		}
		picks += len(bet.Numbers)

		metrics.TotalWagered = metrics.TotalWagered.Add(bet.Wager)
		metrics.TotalPayout = metrics.TotalPayout.Add(bet.Payout)
		metrics.TotalProfit = metrics.TotalProfit.Add(bet.Profit)
		profits[i] = bet.Profit.InexactFloat64()
	}

	metrics.WinRate = float64(metrics.WinningBets) / float64(metrics.TotalBets)
	metrics.AverageHits = float64(metrics.TotalHits) / float64(metrics.TotalBets)
	if picks > 0 {
		metrics.HitRate = float64(metrics.TotalHits) / float64(picks)
	}
	if metrics.TotalWagered.IsPositive() {
		metrics.ROI = metrics.TotalProfit.Div(metrics.TotalWagered).InexactFloat64()
	}

	metrics.MeanProfit, metrics.StdDevProfit = meanStd(profits)
	metrics.SharpeRatio = calculateSharpeRatio(profits)
	metrics.SortinoRatio = calculateSortinoRatio(profits)
	metrics.ProfitFactor = calculateProfitFactor(profits)
	metrics.ValueAtRisk95 = calculateVaR(profits, 0.95)
	metrics.LargestWin, metrics.LargestLoss = extremes(profits)
	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// meanStd returns the mean and sample standard deviation.
func meanStd(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// calculateSharpeRatio is the mean per-bet profit over its standard deviation.
func calculateSharpeRatio(profits []float64) float64 {
	mean, std := meanStd(profits)
	if std == 0 {
		return 0
	}
	return mean / std
}

func calculateSortinoRatio(profits []float64) float64 {
	if len(profits) == 0 {
		return 0
	}
	downside := downsideDeviation(profits)
	if downside == 0 {
		return 0
	}
	return stat.Mean(profits, nil) / downside
}

func calculateProfitFactor(profits []float64) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, p := range profits {
		if p > 0 {
			grossProfit += p
		} else {
			grossLoss -= p
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return 999
		}
		return 0
	}
	return grossProfit / grossLoss
}

// calculateVaR returns the loss not exceeded with the given confidence,
// as a non-negative amount.
func calculateVaR(profits []float64, confidence float64) float64 {
	if len(profits) == 0 {
		return 0
	}
	sorted := append([]float64(nil), profits...)
	sort.Float64s(sorted)
	q := stat.Quantile(1-confidence, stat.Empirical, sorted, nil)
	if q > 0 {
		return 0
	}
	return -q
}

func extremes(profits []float64) (largestWin, largestLoss float64) {
	for _, p := range profits {
		if p > largestWin {
			largestWin = p
		}
		if p < largestLoss {
			largestLoss = p
		}
	}
	return largestWin, largestLoss
}
