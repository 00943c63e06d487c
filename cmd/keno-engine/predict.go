package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/patterns"
)

var (
	predictMethod   string
	predictCount    int
	predictOptions  []string
	predictMomentum bool
)

func init() {
	predictCmd.Flags().StringVarP(&predictMethod, "method", "m", "", "Strategy name (default generator.method)")
	predictCmd.Flags().IntVarP(&predictCount, "count", "n", 0, "Numbers to pick (default generator.count)")
	predictCmd.Flags().StringArrayVarP(&predictOptions, "option", "o", nil, "Strategy option override as key=value (repeatable)")
	predictCmd.Flags().BoolVar(&predictMomentum, "momentum", false, "Also print momentum values of every number")
}

type predictOutput struct {
	Method     string                    `json:"method"`
	Numbers    []int                     `json:"numbers"`
	Rounds     int                       `json:"rounds"`
	Completion patterns.Completion       `json:"completion"`
	Momentum   []generator.MomentumValue `json:"momentum,omitempty"`
	Options    generator.Config          `json:"options"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate a selection from the round history",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		method := predictMethod
		if method == "" {
			method = cfg.Generator.Method
		}
		count := predictCount
		if count == 0 {
			count = cfg.Generator.Count
		}
		opts, err := applyOptionOverrides(cfg.Generator.Options(), predictOptions)
		if err != nil {
			return err
		}

		prediction := eng.Predict(method, count, opts)
		out := predictOutput{
			Method:     prediction.Method,
			Numbers:    prediction.Numbers,
			Rounds:     eng.Len(),
			Completion: eng.Completion(prediction.Numbers),
			Options:    opts,
		}
		if predictMomentum {
			out.Momentum = eng.Momentum(opts)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), out)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Method: %s (%d rounds of history)\n", out.Method, out.Rounds)
		fmt.Fprintf(w, "Numbers: %s\n", joinInts(out.Numbers))
		fmt.Fprintf(w, "Full hits: %d, near misses: %d, tease ratio: %.2f\n",
			out.Completion.Completions, out.Completion.NearMisses, out.Completion.TeaseRatio)
		for _, v := range out.Momentum {
			marker := ""
			if v.Surging {
				marker = " *"
			}
			fmt.Fprintf(w, "  %2d momentum %.2f%s\n", v.Number, v.Momentum, marker)
		}
		return nil
	},
}

// applyOptionOverrides merges key=value pairs into a copy of base. Numbers and
// booleans are stored typed, anything else as a string.
func applyOptionOverrides(base generator.Config, overrides []string) (generator.Config, error) {
	opts := base.Clone()
	for _, o := range overrides {
		key, value, ok := strings.Cut(o, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", o)
		}
		opts[strings.TrimSpace(key)] = generator.ParseValue(value)
	}
	return opts, nil
}

func joinInts(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " ")
}
