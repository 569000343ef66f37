package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/nitroviz/internal/config"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/report"
)

// Summary-specific flag values.
var (
	summaryDataDir  string
	summarySections string
	summaryFormat   string
	summaryOutput   string
)

// summaryCmd prints the terminal summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print summary tables for the dataset",
	Long: `Print terminal tables summarizing the dataset: collection counts per crop,
per-treatment N and ST statistics, starch by year, leaf nitrogen bands, and
the recent N/ST ratio. Sections whose input file is missing are skipped.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryDataDir, "data-dir", "d", "", "directory holding the input files (default \"data\")")
	summaryCmd.Flags().StringVar(&summarySections, "sections", "", "comma-separated list of sections to include")
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "text", "output format (text, json)")
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "", "output file path (default: stdout)")
}

// resetSummaryFlags resets summary command flags for testing.
func resetSummaryFlags() {
	summaryDataDir = ""
	summarySections = ""
	summaryFormat = "text"
	summaryOutput = ""
	summaryCmd.Flags().VisitAll(resetFlag)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if summaryFormat != "text" && summaryFormat != "json" {
		return exitError(ExitFailure, "nitroviz: unsupported format %q (use text or json)", summaryFormat)
	}

	fileCfg, err := loadLayeredConfig("")
	if err != nil {
		return exitError(ExitFailure, "nitroviz: %v", err)
	}
	dataDir := summaryDataDir
	if dataDir == "" {
		dataDir = fileCfg.DataDir
	}
	if dataDir == "" {
		dataDir = config.DefaultDataDir
	}

	var filter []string
	if summarySections != "" {
		for _, s := range strings.Split(summarySections, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if report.Get(s) == nil {
				slog.Warn("unknown section", "name", s, "available", strings.Join(report.List(), ", "))
				continue
			}
			filter = append(filter, s)
		}
		if len(filter) == 0 {
			return exitError(ExitFailure, "nitroviz: no known sections in %q (available: %s)",
				summarySections, strings.Join(report.List(), ", "))
		}
	}
	sections := report.ResolveSections(filter)

	src, err := report.LoadSources(&dataset.Loader{FS: cmdFS}, dataset.PathsIn(dataDir))
	if err != nil {
		return exitError(ExitFailure, "nitroviz: %v", err)
	}

	w := cmd.OutOrStdout()
	if summaryOutput != "" {
		f, createErr := os.Create(summaryOutput) //nolint:gosec // user-specified output path
		if createErr != nil {
			return exitError(ExitFailure, "nitroviz: cannot create output file %q (%v)", summaryOutput, createErr)
		}
		defer f.Close() //nolint:errcheck // best-effort close on output file
		w = f
	}

	if summaryFormat == "json" {
		err = report.RenderJSON(src, dataDir, sections, w)
	} else {
		err = report.RenderText(src, dataDir, sections, w)
	}
	if err != nil {
		return exitError(ExitFailure, "nitroviz: rendering failed (%v)", err)
	}
	return nil
}
