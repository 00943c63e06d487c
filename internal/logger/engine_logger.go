package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides orchestration and backtest logging.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogRoundRecorded logs a round appended to the history.
func (el *EngineLogger) LogRoundRecorded(historyLength, hits int, profit string) {
	el.WithFields(logrus.Fields{
		"history_length": historyLength,
		"hits":           hits,
		"profit":         profit,
	}).Debug("Round recorded")
}

// LogPrediction logs a prediction served to the caller.
func (el *EngineLogger) LogPrediction(method string, round int, refreshed bool, reason string) {
	el.WithFields(logrus.Fields{
		"method":    method,
		"round":     round,
		"refreshed": refreshed,
		"reason":    reason,
	}).Debug("Prediction served")
}

// LogBacktestStart logs the start of a replay.
func (el *EngineLogger) LogBacktestStart(runID, method string, rounds, warmup int) {
	el.WithFields(logrus.Fields{
		"run_id":        runID,
		"method":        method,
		"rounds":        rounds,
		"warmup_rounds": warmup,
	}).Info("Starting backtest")
}

// LogBacktestComplete logs backtest completion with headline results.
func (el *EngineLogger) LogBacktestComplete(runID, method string, bets int, profit string, winRate, durationMs float64) {
	el.WithFields(logrus.Fields{
		"run_id":      runID,
		"method":      method,
		"bets":        bets,
		"profit":      profit,
		"win_rate":    winRate,
		"duration_ms": durationMs,
	}).Info("Backtest complete")
}
