package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/models"
	"github.com/yourusername/keno-analytics/internal/patterns"
)

var (
	patternSize     int
	patternTopN     int
	patternSample   int
	patternWeighted bool
	patternAnalyze  string
)

func init() {
	patternsCmd.Flags().IntVar(&patternSize, "size", 0, "Pattern size 3-10 (default patterns.size)")
	patternsCmd.Flags().IntVar(&patternTopN, "top", -1, "Patterns to report, 0 for all (default patterns.top_n)")
	patternsCmd.Flags().IntVar(&patternSample, "sample", -1, "Most recent rounds to mine, 0 for all (default patterns.sample_size)")
	patternsCmd.Flags().BoolVar(&patternWeighted, "weighted", false, "Rank by recency weighted score")
	patternsCmd.Flags().StringVar(&patternAnalyze, "analyze", "", "Comma separated numbers to analyze for completions instead of mining")
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Mine the most frequently drawn number combinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if patternAnalyze != "" {
			numbers, err := parseNumbers(patternAnalyze)
			if err != nil {
				return err
			}
			c := eng.Completion(numbers)
			if jsonOutput {
				return printJSON(w, c)
			}
			fmt.Fprintf(w, "Numbers: %s\n", joinInts(c.Numbers))
			fmt.Fprintf(w, "Completions: %d, near misses: %d, partial hits: %d\n", c.Completions, c.NearMisses, c.PartialHits)
			fmt.Fprintf(w, "Buildup before first: %d rounds (avg %.2f hits)\n", c.BuildupsBeforeFirst, c.AverageBuildupHits)
			fmt.Fprintf(w, "Average gap: %.2f, min gap: %d, tease ratio: %.2f\n", c.AverageGap, c.MinGap, c.TeaseRatio)
			return nil
		}

		opts := cfg.Patterns.Options()
		opts.RecencyWeighting = opts.RecencyWeighting || patternWeighted
		if patternSize != 0 {
			opts.PatternSize = patternSize
		}
		if patternTopN >= 0 {
			opts.TopN = patternTopN
		}
		if patternSample >= 0 {
			opts.SampleSize = patternSample
		}
		if !patterns.ValidSize(opts.PatternSize) {
			return fmt.Errorf("pattern size must be between %d and %d", patterns.MinPatternSize, patterns.MaxPatternSize)
		}

		found := eng.Patterns(opts)
		if jsonOutput {
			return printJSON(w, found)
		}
		fmt.Fprintf(w, "Top %d-number patterns over %d rounds\n", opts.PatternSize, eng.Len())
		for i, p := range found {
			fmt.Fprintf(w, "%3d. %-32s count %-4d avg gap %-7.2f score %.3f\n",
				i+1, joinInts(p.Numbers), p.OccurrenceCount, p.AverageGap, p.Score)
		}
		return nil
	},
}

// parseNumbers parses "1, 2,3" into distinct board numbers.
func parseNumbers(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	numbers := make([]int, 0, len(fields))
	var seen uint64
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || !models.IsValidNumber(n) {
			return nil, fmt.Errorf("invalid board number %q", f)
		}
		bit := uint64(1) << uint(n-1)
		if seen&bit != 0 {
			return nil, fmt.Errorf("duplicate number %d", n)
		}
		seen |= bit
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("no numbers given")
	}
	return numbers, nil
}
