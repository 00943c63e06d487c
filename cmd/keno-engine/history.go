package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/database"
	"github.com/yourusername/keno-analytics/internal/history"
	"github.com/yourusername/keno-analytics/internal/repository"
)

var importReplace bool

func init() {
	historyImportCmd.Flags().BoolVar(&importReplace, "replace", false, "Clear the table before importing")
	historyCmd.AddCommand(historyImportCmd, historyExportCmd, historyStatsCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Move round history between export files and PostgreSQL",
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an exported history file into PostgreSQL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		result, err := history.LoadFile(args[0], appLogger)
		if err != nil {
			return err
		}

		return withRepositories(ctx, func(db *database.DB, repos *repository.Repositories) error {
			return db.WithTransaction(ctx, func(ctx context.Context) error {
				if importReplace {
					if err := repos.Rounds.Clear(ctx); err != nil {
						return err
					}
				}
				if err := repos.Rounds.InsertBatch(ctx, result.Rounds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rounds (%d skipped)\n", len(result.Rounds), len(result.Skipped))
				return nil
			})
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the loaded history to an export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rounds, err := loadHistory(cmd.Context())
		if err != nil {
			return err
		}
		if err := history.WriteFile(args[0], rounds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rounds to %s\n", len(rounds), args[0])
		return nil
	},
}

type historyStats struct {
	Rounds int64  `json:"rounds"`
	Latest string `json:"latest,omitempty"`
	Table  string `json:"table"`
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the stored round count and newest round",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withRepositories(ctx, func(db *database.DB, repos *repository.Repositories) error {
			count, err := repos.Rounds.Count(ctx)
			if err != nil {
				return err
			}
			stats := historyStats{Rounds: count, Table: db.TableName()}
			if count > 0 {
				latest, err := repos.Rounds.Latest(ctx)
				if err != nil {
					return err
				}
				stats.Latest = latest.Timestamp.Format("2006-01-02 15:04:05 MST")
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table %s: %d rounds, latest %s\n", stats.Table, stats.Rounds, stats.Latest)
			return nil
		})
	},
}

// withRepositories opens the database for the duration of fn.
func withRepositories(ctx context.Context, fn func(*database.DB, *repository.Repositories) error) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("database is disabled: pass --postgres or set database.enabled")
	}
	db, err := database.Initialize(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}
	return fn(db, repos)
}
