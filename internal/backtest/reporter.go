package backtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GenerateConsoleReport formats an aggregated result for terminal output
func GenerateConsoleReport(result AggregatedResult) string {
	m := result.ReplayMetrics
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Method: %s (%s difficulty)\n", m.Method, m.Difficulty))
	builder.WriteString(fmt.Sprintf("Bets: %d (%d won, %d lost)\n", m.TotalBets, m.WinningBets, m.LosingBets))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", m.WinRate*100))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%% (avg %.2f hits, %d full)\n", m.HitRate*100, m.AverageHits, m.FullHits))
	builder.WriteString(fmt.Sprintf("Total Wagered: %s\n", m.TotalWagered.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Total Profit: %s\n", m.TotalProfit.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", m.ROI*100))
	builder.WriteString(fmt.Sprintf("Sharpe Ratio: %.3f\n", m.SharpeRatio))
	builder.WriteString(fmt.Sprintf("Sortino Ratio: %.3f\n", m.SortinoRatio))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", m.ProfitFactor))
	builder.WriteString(fmt.Sprintf("VaR 95%%: %.2f\n", m.ValueAtRisk95))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", m.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("Pattern Changes: %d (%d refreshes)\n", m.PatternChanges, m.Refreshes))

	if len(m.HitDistribution) > 0 {
		builder.WriteString("Hit Distribution:\n")
		hits := make([]int, 0, len(m.HitDistribution))
		for h := range m.HitDistribution {
			hits = append(hits, h)
		}
		sort.Ints(hits)
		for _, h := range hits {
			builder.WriteString(fmt.Sprintf("  %2d hits: %d\n", h, m.HitDistribution[h]))
		}
	}

	if mc := result.MonteCarlo; mc != nil {
		builder.WriteString(fmt.Sprintf("Random Baseline: mean %.2f, std %.2f over %d runs\n", mc.MeanProfit, mc.StdProfit, mc.Iterations))
		builder.WriteString(fmt.Sprintf("Baseline Percentile: %.1f%%\n", result.BaselinePercentile*100))
	}
	if wf := result.WalkForward; wf != nil {
		builder.WriteString(fmt.Sprintf("Walk-Forward: %d windows, consistency %.2f, overfit %.2f\n",
			len(wf.Windows), wf.ConsistencyScore, wf.OverfitScore))
	}
	builder.WriteString(fmt.Sprintf("Composite Score: %.2f\n", result.CompositeScore))
	builder.WriteString(fmt.Sprintf("Recommendation: %s\n", result.Recommendation))
	return builder.String()
}

// GenerateOptimizationReport renders the top ranked grid points as a table
func GenerateOptimizationReport(results []OptimizationResult, top int) string {
	if top <= 0 || top > len(results) {
		top = len(results)
	}
	var builder strings.Builder
	builder.WriteString("Optimization Results\n")
	builder.WriteString("====================\n")
	builder.WriteString(fmt.Sprintf("%-4s %-9s %-8s %-9s %-8s %10s %8s %8s\n",
		"#", "detection", "baseline", "threshold", "interval", "profit", "win%", "sharpe"))
	for i := 0; i < top; i++ {
		p, m := results[i].Parameters, results[i].Metrics
		builder.WriteString(fmt.Sprintf("%-4d %-9d %-8d %-9.2f %-8d %10s %8.2f %8.3f\n",
			i+1, p.DetectionWindow, p.BaselineWindow, p.MomentumThreshold, p.Interval,
			m.TotalProfit.StringFixed(2), m.WinRate*100, m.SharpeRatio))
	}
	return builder.String()
}

// GenerateCSVExport writes key metrics followed by the equity curve
func GenerateCSVExport(result AggregatedResult, curve EquityCurve, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := writeMetricsCSV(f, result); err != nil {
		return err
	}
	if _, err := io.WriteString(f, "\n"); err != nil {
		return err
	}
	return curve.WriteCSV(f)
}

func writeMetricsCSV(w io.Writer, result AggregatedResult) error {
	m := result.ReplayMetrics
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metric", "value"},
		{"method", m.Method},
		{"total_bets", fmt.Sprintf("%d", m.TotalBets)},
		{"win_rate", fmt.Sprintf("%.4f", m.WinRate)},
		{"hit_rate", fmt.Sprintf("%.4f", m.HitRate)},
		{"total_profit", m.TotalProfit.StringFixed(4)},
		{"roi", fmt.Sprintf("%.4f", m.ROI)},
		{"sharpe_ratio", fmt.Sprintf("%.4f", m.SharpeRatio)},
		{"max_drawdown", fmt.Sprintf("%.4f", m.MaxDrawdown)},
		{"profit_factor", fmt.Sprintf("%.4f", m.ProfitFactor)},
		{"var_95", fmt.Sprintf("%.4f", m.ValueAtRisk95)},
		{"composite_score", fmt.Sprintf("%.4f", result.CompositeScore)},
		{"recommendation", result.Recommendation},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// WriteJSON writes v as indented JSON to outputPath
func WriteJSON(v interface{}, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}
