package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/backtest"
)

var (
	btMethod      string
	btCount       int
	btDifficulty  string
	btWarmup      int
	btOptimize    bool
	btTop         int
	btMonteCarlo  int
	btWalkForward bool
	btTrainRounds int
	btTestRounds  int
	btOutput      string
)

func init() {
	f := backtestCmd.Flags()
	f.StringVarP(&btMethod, "method", "m", "", "Strategy to replay (default generator.method)")
	f.IntVarP(&btCount, "count", "n", 0, "Numbers per bet (default generator.count)")
	f.StringVar(&btDifficulty, "difficulty", "", "Payout difficulty: low, medium or high")
	f.IntVar(&btWarmup, "warmup", -1, "Rounds recorded before the first bet (default backtest.warmup_rounds)")
	f.BoolVar(&btOptimize, "optimize", false, "Grid search momentum windows, threshold and refresh interval")
	f.IntVar(&btTop, "top", 10, "Optimization results to print")
	f.IntVar(&btMonteCarlo, "monte-carlo", 0, "Compare against N random-selection replays")
	f.BoolVar(&btWalkForward, "walk-forward", false, "Run walk-forward optimization")
	f.IntVar(&btTrainRounds, "train", 200, "Walk-forward training rounds per window")
	f.IntVar(&btTestRounds, "test", 50, "Walk-forward test rounds per window")
	f.StringVar(&btOutput, "output", "", "Write the report to a .json or .csv file (default backtest.output_path)")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the history and score a strategy against the payout table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rounds, err := loadHistory(ctx)
		if err != nil {
			return err
		}

		btConfig, err := buildBacktestConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if btOptimize {
			results, err := backtest.Optimize(ctx, rounds, btConfig, backtest.DefaultGrid(), appLogger)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			if jsonOutput {
				return printJSON(w, results)
			}
			fmt.Fprint(w, backtest.GenerateOptimizationReport(results, btTop))
			return writeOutput(results, nil)
		}

		eng, err := backtest.NewEngine(btConfig, appLogger)
		if err != nil {
			return err
		}
		result, err := eng.Run(ctx, rounds)
		if err != nil {
			return fmt.Errorf("backtest failed: %w", err)
		}

		var monteCarlo *backtest.MonteCarloResult
		if btMonteCarlo > 0 {
			mc, err := backtest.RunMonteCarlo(ctx, rounds, btConfig, backtest.MonteCarloConfig{
				Iterations: btMonteCarlo,
				Seed:       btConfig.Seed,
			})
			if err != nil {
				return fmt.Errorf("monte carlo failed: %w", err)
			}
			monteCarlo = &mc
		}

		var walkForward *backtest.WalkForwardResult
		if btWalkForward {
			wf, err := backtest.RunWalkForward(ctx, rounds, btConfig, backtest.WalkForwardConfig{
				TrainRounds:      btTrainRounds,
				TestRounds:       btTestRounds,
				MinBetsPerWindow: 1,
				Grid:             backtest.DefaultGrid(),
			}, appLogger)
			if err != nil {
				return fmt.Errorf("walk-forward failed: %w", err)
			}
			walkForward = &wf
		}

		aggregated := backtest.AggregateResults(result.Metrics, monteCarlo, walkForward, backtest.DefaultAggregationWeights())
		appLogger.WithFields(logrus.Fields{
			"run_id":         result.RunID,
			"recommendation": aggregated.Recommendation,
			"score":          aggregated.CompositeScore,
		}).Info("Backtest finished")

		if jsonOutput {
			if err := printJSON(w, aggregated); err != nil {
				return err
			}
		} else {
			fmt.Fprint(w, backtest.GenerateConsoleReport(aggregated))
		}
		return writeOutput(aggregated, result.State)
	},
}

func buildBacktestConfig() (backtest.BacktestConfig, error) {
	if btMethod != "" {
		cfg.Generator.Method = btMethod
	}
	if btCount > 0 {
		cfg.Generator.Count = btCount
	}
	if btDifficulty != "" {
		cfg.Backtest.Difficulty = btDifficulty
	}
	if btWarmup >= 0 {
		cfg.Backtest.WarmupRounds = btWarmup
	}
	btConfig, err := backtest.FromConfig(cfg)
	if err != nil {
		return backtest.BacktestConfig{}, fmt.Errorf("invalid backtest config: %w", err)
	}
	return btConfig, nil
}

// writeOutput saves the report when an output path is configured. CSV
// output needs a replay state for the equity curve.
func writeOutput(report interface{}, state *backtest.BacktestState) error {
	path := btOutput
	if path == "" {
		path = cfg.Backtest.OutputPath
	}
	if path == "" {
		return nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		aggregated, ok := report.(backtest.AggregatedResult)
		if !ok || state == nil {
			return fmt.Errorf("csv output is only available for single replays")
		}
		err = backtest.GenerateCSVExport(aggregated, state.EquityCurve, path)
	default:
		err = backtest.WriteJSON(report, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	appLogger.WithField("path", path).Info("Report written")
	return nil
}
