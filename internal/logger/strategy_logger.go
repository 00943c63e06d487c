// Package logger provides strategy-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// StrategyLogger provides dedicated logging for number generation.
type StrategyLogger struct {
	*logrus.Entry
}

// NewStrategyLogger creates a new strategy logger.
func NewStrategyLogger(baseLogger *logrus.Logger) *StrategyLogger {
	return &StrategyLogger{
		Entry: baseLogger.WithField("component", "strategy"),
	}
}

// LogGeneration logs a completed generation call.
func (sl *StrategyLogger) LogGeneration(strategyName string, requested, produced, historySize int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"strategy_name":          strategyName,
		"requested_count":        requested,
		"produced_count":         produced,
		"history_size":           historySize,
		"generation_duration_ms": durationMs,
	}).Debug("Strategy generation completed")
}

// LogFallback logs a strategy degrading to a uniform random selection.
func (sl *StrategyLogger) LogFallback(strategyName, reason string, count int) {
	sl.WithFields(logrus.Fields{
		"strategy_name": strategyName,
		"reason":        reason,
		"count":         count,
	}).Info("Strategy fell back to random selection")
}

// LogUnknownStrategy logs a lookup for a strategy that is not registered.
func (sl *StrategyLogger) LogUnknownStrategy(requested, substitute string) {
	sl.WithFields(logrus.Fields{
		"requested_strategy":  requested,
		"substitute_strategy": substitute,
	}).Warn("Unknown strategy requested")
}

// LogCountClamped logs a requested count that had to be clamped to the board.
func (sl *StrategyLogger) LogCountClamped(strategyName string, requested float64, clamped int) {
	sl.WithFields(logrus.Fields{
		"strategy_name":   strategyName,
		"requested_count": requested,
		"clamped_count":   clamped,
	}).Debug("Requested count clamped")
}
