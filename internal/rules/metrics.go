package rules

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/keno-analytics/internal/models"
)

// RoundMetrics are rolling statistics over the rounds played since the last
// refresh.
type RoundMetrics struct {
	Rounds        int             `json:"rounds"`
	BetsWon       int             `json:"bets_won"`
	BetsLost      int             `json:"bets_lost"`
	WinRate       float64         `json:"win_rate"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	AverageProfit decimal.Decimal `json:"average_profit"`
	ProfitStreak  int             `json:"profit_streak"`
	LossStreak    int             `json:"loss_streak"`
	TotalHits     int             `json:"total_hits"`
	TotalMisses   int             `json:"total_misses"`
	HitRate       float64         `json:"hit_rate"`
	AverageHits   float64         `json:"average_hits"`
}

// ComputeMetrics computes metrics over the last window rounds at or after
// index lastRefreshRound. A non-positive window covers every round since the
// refresh. Streaks always run back from the newest round and ignore window.
func ComputeMetrics(history []models.Round, lastRefreshRound, window int) RoundMetrics {
	since := models.Since(history, lastRefreshRound)
	rounds := models.Sample(since, window)

	m := RoundMetrics{
		Rounds:        len(rounds),
		TotalProfit:   decimal.Zero,
		AverageProfit: decimal.Zero,
	}
	selected := 0
	for i := range rounds {
		r := &rounds[i]
		if r.Won() {
			m.BetsWon++
		} else {
			m.BetsLost++
		}
		m.TotalProfit = m.TotalProfit.Add(r.Profit())
		hits := r.Hits()
		m.TotalHits += hits
		m.TotalMisses += len(r.SelectedNumbers) - hits
		selected += len(r.SelectedNumbers)
	}

	if m.Rounds > 0 {
		m.WinRate = float64(m.BetsWon) / float64(m.Rounds) * 100
		m.AverageProfit = m.TotalProfit.Div(decimal.NewFromInt(int64(m.Rounds)))
		m.AverageHits = float64(m.TotalHits) / float64(m.Rounds)
	}
	if selected > 0 {
		m.HitRate = float64(m.TotalHits) / float64(selected) * 100
	}

	m.ProfitStreak, m.LossStreak = streaks(since)
	return m
}

// streaks counts the run of profitable rounds and the run of lost rounds
// ending at the newest round. A break-even round ends both runs.
func streaks(rounds []models.Round) (profit, loss int) {
	for i := len(rounds) - 1; i >= 0; i-- {
		if !rounds[i].Profit().IsPositive() {
			break
		}
		profit++
	}
	for i := len(rounds) - 1; i >= 0; i-- {
		if rounds[i].Won() {
			break
		}
		loss++
	}
	return profit, loss
}

// Value returns the metric as a float. Unknown metrics report false.
func (m RoundMetrics) Value(metric Metric) (float64, bool) {
	switch metric {
	case MetricBetsWon:
		return float64(m.BetsWon), true
	case MetricBetsLost:
		return float64(m.BetsLost), true
	case MetricWinRate:
		return m.WinRate, true
	case MetricTotalProfit:
		return m.TotalProfit.InexactFloat64(), true
	case MetricAverageProfit:
		return m.AverageProfit.InexactFloat64(), true
	case MetricProfitStreak:
		return float64(m.ProfitStreak), true
	case MetricLossStreak:
		return float64(m.LossStreak), true
	case MetricTotalHits:
		return float64(m.TotalHits), true
	case MetricTotalMisses:
		return float64(m.TotalMisses), true
	case MetricHitRate:
		return m.HitRate, true
	case MetricAverageHits:
		return m.AverageHits, true
	}
	return 0, false
}
