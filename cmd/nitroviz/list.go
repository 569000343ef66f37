package main

import (
	"github.com/spf13/cobra"

	"github.com/davetashner/nitroviz/internal/report"
	"github.com/davetashner/nitroviz/internal/viz"
)

// listCmd prints the registered generators.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available visualizations",
	Long:  "List every visualization in generation order with its output file and a short description.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl := report.NewTable(
			report.Column{Header: "Name"},
			report.Column{Header: "Output"},
			report.Column{Header: "Description"},
		)
		for _, name := range viz.List() {
			g := viz.Get(name)
			tbl.AddRow(g.Name(), g.OutputFile(), g.Description())
		}
		return tbl.Render(cmd.OutOrStdout())
	},
}
