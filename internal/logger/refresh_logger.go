// Package logger provides refresh-policy logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RefreshLogger records cache refresh and rule engine decisions.
type RefreshLogger struct {
	*logrus.Entry
}

// NewRefreshLogger creates a new refresh logger.
func NewRefreshLogger(baseLogger *logrus.Logger) *RefreshLogger {
	return &RefreshLogger{
		Entry: baseLogger.WithField("component", "refresh"),
	}
}

// LogCacheDecision logs the outcome of a prediction cache lookup.
func (rl *RefreshLogger) LogCacheDecision(method string, count, currentRound, lastRefreshRound int, state string) {
	rl.WithFields(logrus.Fields{
		"method":             method,
		"count":              count,
		"current_round":      currentRound,
		"last_refresh_round": lastRefreshRound,
		"entry_state":        state,
	}).Debug("Prediction cache consulted")
}

// LogRuleDecision logs the action chosen by the rule engine.
func (rl *RefreshLogger) LogRuleDecision(logic string, conditions int, action, reason string) {
	rl.WithFields(logrus.Fields{
		"logic":      logic,
		"conditions": conditions,
		"action":     action,
		"reason":     reason,
	}).Debug("Refresh rules evaluated")
}

// LogRegeneration logs a prediction being recomputed.
func (rl *RefreshLogger) LogRegeneration(method string, round int, reason string, numbers []int) {
	rl.WithFields(logrus.Fields{
		"method":  method,
		"round":   round,
		"reason":  reason,
		"numbers": numbers,
	}).Info("Prediction regenerated")
}
