package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/keno-analytics/internal/generator"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available selection strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		described := generator.NewDefaultRegistry(appLogger, nil).Describe()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), described)
		}
		for _, m := range described {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", m.Name, m.Description)
		}
		return nil
	},
}
