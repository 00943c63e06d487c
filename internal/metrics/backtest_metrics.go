// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by strategy and status",
	}, []string{"strategy_name", "status"})
)

// Backtest gauge vectors
var (
	BacktestProfit = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_total_profit",
		Help:      "Total simulated profit of the latest backtest run per strategy",
	}, []string{"strategy_name"})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(strategyName, status string) {
	BacktestRunsTotal.WithLabelValues(strategyName, status).Inc()
}

// UpdateBacktestProfit updates the simulated profit gauge for a strategy.
func UpdateBacktestProfit(strategyName string, profit float64) {
	BacktestProfit.WithLabelValues(strategyName).Set(profit)
}
