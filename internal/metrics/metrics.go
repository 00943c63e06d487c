// Package metrics provides the centralized Prometheus metrics registry for the engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "keno_engine"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RoundsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_recorded_total",
		Help:      "Total number of rounds appended to the history",
	})
	PredictionCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_cache_lookups_total",
		Help:      "Prediction cache lookups by method and resulting entry state",
	}, []string{"method", "state"})
	PatternCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pattern_cache_lookups_total",
		Help:      "Pattern cache lookups by outcome",
	}, []string{"outcome"})
	RuleDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rule_decisions_total",
		Help:      "Refresh rule engine decisions by logic and action",
	}, []string{"logic", "action"})
)

// Gauge metrics
var (
	HistoryLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_length",
		Help:      "Number of rounds currently held in the history",
	})
	PredictionCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prediction_cache_entries",
		Help:      "Number of entries held by the prediction cache",
	})
)

// Histogram metrics
var (
	PatternMiningDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pattern_mining_duration_seconds",
		Help:      "Duration of uncached pattern mining passes by pattern size",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"pattern_size"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RoundsRecordedTotal)
		registry.MustRegister(PredictionCacheLookupsTotal)
		registry.MustRegister(PatternCacheLookupsTotal)
		registry.MustRegister(RuleDecisionsTotal)

		registry.MustRegister(HistoryLength)
		registry.MustRegister(PredictionCacheEntries)

		registry.MustRegister(PatternMiningDuration)

		// Strategy metrics
		registry.MustRegister(GenerationsTotal)
		registry.MustRegister(FallbacksTotal)
		registry.MustRegister(GenerationDuration)

		// Backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestProfit)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRound records a round being appended and the resulting history length.
func RecordRound(historyLength int) {
	RoundsRecordedTotal.Inc()
	HistoryLength.Set(float64(historyLength))
}

// RecordPredictionCacheLookup records a prediction cache lookup.
// state should be one of: "fresh", "extended", "expired", "miss"
func RecordPredictionCacheLookup(method, state string) {
	PredictionCacheLookupsTotal.WithLabelValues(method, state).Inc()
}

// UpdatePredictionCacheEntries updates the prediction cache size gauge.
func UpdatePredictionCacheEntries(count int) {
	PredictionCacheEntries.Set(float64(count))
}

// RecordPatternCacheLookup records a pattern cache hit or miss.
func RecordPatternCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	PatternCacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordPatternMining records the duration of an uncached mining pass.
func RecordPatternMining(patternSize string, durationSeconds float64) {
	PatternMiningDuration.WithLabelValues(patternSize).Observe(durationSeconds)
}

// RecordRuleDecision records a rule engine decision.
func RecordRuleDecision(logic, action string) {
	RuleDecisionsTotal.WithLabelValues(logic, action).Inc()
}
