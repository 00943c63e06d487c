// Package metrics defines strategy-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Strategy-specific counter vectors
var (
	GenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_generations_total",
		Help:      "Total number of predictions generated by strategy",
	}, []string{"strategy_name"})

	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_fallbacks_total",
		Help:      "Total number of generations that degraded to the random fallback",
	}, []string{"strategy_name"})
)

// Strategy-specific histogram vectors
var (
	GenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "strategy_generation_duration_seconds",
		Help:      "Duration of strategy generation calls",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"strategy_name"})
)

// RecordGeneration records a strategy generation call.
func RecordGeneration(strategyName string, durationSeconds float64) {
	GenerationsTotal.WithLabelValues(strategyName).Inc()
	GenerationDuration.WithLabelValues(strategyName).Observe(durationSeconds)
}

// RecordFallback records a generation that used the random fallback.
func RecordFallback(strategyName string) {
	FallbacksTotal.WithLabelValues(strategyName).Inc()
}
