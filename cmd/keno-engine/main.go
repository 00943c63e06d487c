// Package main provides the keno analytics command line tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/config"
	"github.com/yourusername/keno-analytics/internal/database"
	"github.com/yourusername/keno-analytics/internal/engine"
	"github.com/yourusername/keno-analytics/internal/history"
	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/models"
	"github.com/yourusername/keno-analytics/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	historyFile  string
	usePostgres  bool
	historyLimit int
	jsonOutput   bool

	appLogger *logrus.Logger
	cfg       *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history", "", "Exported round history (JSON); overrides app.history_file")
	rootCmd.PersistentFlags().BoolVar(&usePostgres, "postgres", false, "Load round history from PostgreSQL")
	rootCmd.PersistentFlags().IntVar(&historyLimit, "limit", 0, "Only use the most recent N rounds (0 = all)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(predictCmd, patternsCmd, rulesCmd, backtestCmd, strategiesCmd, serveMetricsCmd, historyCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "keno-engine",
	Short: "Keno prediction and analytics engine",
	Long: `Generates keno selections from round history, mines recurring number
patterns, evaluates refresh rules and backtests strategies against a payout table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLogger = logger.NewLogger(cfg.App.LogLevel)
		appLogger.SetOutput(os.Stderr)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "keno-engine %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.ReloadFromEnv(loaded); err != nil {
		return err
	}
	if usePostgres {
		loaded.Database.Enabled = true
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// loadHistory reads rounds from PostgreSQL when requested or enabled in the
// config, otherwise from the history file.
func loadHistory(ctx context.Context) ([]models.Round, error) {
	if cfg.Database.Enabled {
		return loadHistoryFromPostgres(ctx)
	}

	path := historyFile
	if path == "" {
		path = cfg.App.HistoryFile
	}
	if path == "" {
		return nil, fmt.Errorf("no history source: pass --history or --postgres")
	}

	result, err := history.LoadFile(path, appLogger)
	if err != nil {
		return nil, err
	}
	return models.Sample(result.Rounds, historyLimit), nil
}

func loadHistoryFromPostgres(ctx context.Context) ([]models.Round, error) {
	db, err := database.Initialize(ctx, cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, err
	}
	rounds, err := repos.Rounds.List(ctx, historyLimit)
	if err != nil {
		return nil, err
	}
	appLogger.WithFields(logrus.Fields{
		"component": "history",
		"rounds":    len(rounds),
		"table":     db.TableName(),
	}).Info("Loaded round history from PostgreSQL")
	return rounds, nil
}

// newEngine builds an engine from the loaded config and history.
func newEngine(ctx context.Context) (*engine.Engine, error) {
	rounds, err := loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	eng := engine.New(engine.SettingsFromConfig(cfg), appLogger, nil)
	if err := eng.LoadHistory(rounds); err != nil {
		return nil, fmt.Errorf("failed to load history into engine: %w", err)
	}
	return eng, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
