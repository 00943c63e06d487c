// Package logger provides pattern-mining logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PatternLogger provides dedicated logging for pattern mining.
type PatternLogger struct {
	*logrus.Entry
}

// NewPatternLogger creates a new pattern logger.
func NewPatternLogger(baseLogger *logrus.Logger) *PatternLogger {
	return &PatternLogger{
		Entry: baseLogger.WithField("component", "patterns"),
	}
}

// LogMining logs a completed (uncached) mining pass.
func (pl *PatternLogger) LogMining(patternSize, sampleSize, uniquePatterns, returned int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"pattern_size":       patternSize,
		"sample_size":        sampleSize,
		"unique_patterns":    uniquePatterns,
		"returned_patterns":  returned,
		"mining_duration_ms": durationMs,
	}).Info("Pattern mining completed")
}

// LogCacheHit logs a pattern request served from the cache.
func (pl *PatternLogger) LogCacheHit(patternSize, sampleSize int) {
	pl.WithFields(logrus.Fields{
		"pattern_size": patternSize,
		"sample_size":  sampleSize,
	}).Debug("Pattern cache hit")
}

// LogInvalidSize logs a rejected pattern size.
func (pl *PatternLogger) LogInvalidSize(patternSize int) {
	pl.WithField("pattern_size", patternSize).Warn("Pattern size out of range, returning no patterns")
}
