package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	nitrovizlog "github.com/davetashner/nitroviz/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for nitroviz.
var rootCmd = &cobra.Command{
	Use:   "nitroviz",
	Short: "Build interactive reports from an orchard NIR dataset",
	Long: `Nitroviz turns a leaf-sample NIR dataset (unified parquet, NPK experiment
CSV, spectral CSV, and site locations) into standalone interactive HTML
pages: collection story, spectral signatures, nitrogen response, starch
variance, leaf nitrogen bands, and the N/ST ratio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		nitrovizlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
