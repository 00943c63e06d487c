package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/rules"
)

var rulesWindow int

func init() {
	rulesCmd.Flags().IntVar(&rulesWindow, "window", 0, "Rounds covered by the printed metrics (0 = all)")
}

type rulesOutput struct {
	RuleSet  rules.RuleSet      `json:"rule_set"`
	Decision rules.Decision     `json:"decision"`
	Metrics  rules.RoundMetrics `json:"metrics"`
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Evaluate the configured refresh rules against the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		ruleSet := eng.Settings().Rules
		if err := ruleSet.Validate(); err != nil {
			appLogger.WithError(err).Warn("Rule set has invalid conditions; they evaluate as not met")
		}

		out := rulesOutput{
			RuleSet:  ruleSet,
			Decision: eng.Decide(cfg.Generator.Method, cfg.Generator.Count, cfg.Generator.Options()),
			Metrics:  eng.Metrics(rulesWindow),
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), out)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Logic: %s, default: %s, enabled: %t\n", ruleSet.Logic, ruleSet.DefaultAction, ruleSet.Enabled)
		for i, c := range ruleSet.Conditions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, c)
		}
		fmt.Fprintf(w, "Decision: %s (%s)\n", out.Decision.Action, out.Decision.Reason)

		m := out.Metrics
		fmt.Fprintf(w, "Rounds: %d, won %d, lost %d, win rate %.2f%%\n", m.Rounds, m.BetsWon, m.BetsLost, m.WinRate*100)
		fmt.Fprintf(w, "Profit: %s (avg %s), streaks: +%d / -%d\n",
			m.TotalProfit.StringFixed(2), m.AverageProfit.StringFixed(4), m.ProfitStreak, m.LossStreak)
		fmt.Fprintf(w, "Hits: %d, misses: %d, hit rate %.2f%%\n", m.TotalHits, m.TotalMisses, m.HitRate*100)
		return nil
	},
}
