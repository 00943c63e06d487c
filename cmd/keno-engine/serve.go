package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/database"
	"github.com/yourusername/keno-analytics/internal/engine"
	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/health"
	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
	"github.com/yourusername/keno-analytics/internal/patterns"
)

var serveRefresh time.Duration

func init() {
	serveMetricsCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "Reload the history and predict on this interval (0 = once)")
}

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Expose Prometheus metrics and health probes while keeping a prediction warm",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !cfg.Metrics.Enabled {
			return fmt.Errorf("metrics are disabled in the configuration")
		}

		metrics.InitRegistry()
		server := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Addr:        fmt.Sprintf(":%d", cfg.Metrics.Port),
			Logger:      appLogger,
		})
		server.Handle(cfg.Metrics.Path, metrics.Handler())

		var rounds atomic.Int64
		server.AddCheck("history", func(ctx context.Context) error {
			if rounds.Load() == 0 {
				return fmt.Errorf("no rounds loaded")
			}
			return nil
		})

		if cfg.Database.Enabled {
			db, err := database.NewDB(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()
			server.AddCheck("database", db.HealthCheck)
		}

		warmer := newPredictionWarmer(
			engine.New(engine.SettingsFromConfig(cfg), appLogger, nil),
			loadHistory,
			appLogger,
		)
		warmer.method = cfg.Generator.Method
		warmer.count = cfg.Generator.Count
		warmer.options = cfg.Generator.Options()
		warmer.patterns = cfg.Patterns.Options()

		refresh := func() {
			if _, err := warmer.tick(ctx); err != nil {
				appLogger.WithError(err).Warn("Failed to refresh prediction")
			}
			rounds.Store(int64(warmer.eng.Len()))
		}
		refresh()
		server.SetReady(true)

		if serveRefresh > 0 {
			go func() {
				ticker := time.NewTicker(serveRefresh)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						refresh()
					}
				}
			}()
		}

		return server.ListenAndServe(ctx)
	},
}

// predictionWarmer keeps one engine alive across refreshes so the prediction
// cache and rule state carry over between ticks.
type predictionWarmer struct {
	eng      *engine.Engine
	load     func(context.Context) ([]models.Round, error)
	log      *logrus.Logger
	method   string
	count    int
	options  generator.Config
	patterns patterns.Options
	newest   time.Time
}

func newPredictionWarmer(eng *engine.Engine, load func(context.Context) ([]models.Round, error), log *logrus.Logger) *predictionWarmer {
	return &predictionWarmer{
		eng:      eng,
		load:     load,
		log:      logger.OrNop(log),
		method:   generator.MethodFrequency,
		count:    models.MaxPicks,
		patterns: patterns.Options{PatternSize: patterns.MinPatternSize, TopN: 10},
	}
}

// tick loads the history on the first call and afterwards records only rounds
// newer than the last one seen. It then predicts and mines once so the engine
// metrics have data to report.
func (w *predictionWarmer) tick(ctx context.Context) (engine.Prediction, error) {
	rounds, err := w.load(ctx)
	if err != nil {
		return engine.Prediction{}, err
	}

	added := 0
	if w.eng.Len() == 0 {
		if err := w.eng.LoadHistory(rounds); err != nil {
			return engine.Prediction{}, fmt.Errorf("failed to load history into engine: %w", err)
		}
		added = len(rounds)
	} else {
		for i := range rounds {
			if !rounds[i].Timestamp.After(w.newest) {
				continue
			}
			if err := w.eng.RecordRound(rounds[i]); err != nil {
				return engine.Prediction{}, fmt.Errorf("failed to record round: %w", err)
			}
			added++
		}
	}
	for i := range rounds {
		if rounds[i].Timestamp.After(w.newest) {
			w.newest = rounds[i].Timestamp
		}
	}

	p := w.eng.Predict(w.method, w.count, w.options)
	w.eng.Patterns(w.patterns)
	w.log.WithFields(logrus.Fields{
		"rounds":    w.eng.Len(),
		"new":       added,
		"method":    p.Method,
		"numbers":   p.Numbers,
		"refreshed": p.Refreshed,
		"reason":    p.Reason,
	}).Info("Prediction refreshed")
	return p, nil
}
