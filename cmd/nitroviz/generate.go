// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/nitroviz/internal/config"
	"github.com/davetashner/nitroviz/internal/pipeline"
	"github.com/davetashner/nitroviz/internal/viz"
)

// Generate-specific flag values.
var (
	genDataDir    string
	genOutputDir  string
	genParallel   int
	genXLSX       bool
	genPNG        bool
	genConfigFile string
)

// generateCmd writes the HTML pages.
var generateCmd = &cobra.Command{
	Use:   "generate [name...]",
	Short: "Generate visualization pages",
	Long: `Generate one or more standalone HTML pages from the dataset.

With no names, every visualization is generated in order. Settings come from
the global config, then .nitroviz.yaml (or .nitroviz.toml) in the current
directory, then flags.

Examples:
  nitroviz generate
  nitroviz generate nst-ratio lnc-analysis
  nitroviz generate --data-dir ./samples --output-dir ./site --parallel 3
  nitroviz generate --xlsx --png`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genDataDir, "data-dir", "d", "", "directory holding the input files (default \"data\")")
	generateCmd.Flags().StringVarP(&genOutputDir, "output-dir", "o", "", "directory receiving the pages (default \"output\")")
	generateCmd.Flags().IntVarP(&genParallel, "parallel", "p", 0, "number of generators run at once (0 or 1 = sequential)")
	generateCmd.Flags().BoolVar(&genXLSX, "xlsx", false, "also write every table to "+pipeline.WorkbookFile)
	generateCmd.Flags().BoolVar(&genPNG, "png", false, "also write a PNG of every line-only figure")
	generateCmd.Flags().StringVar(&genConfigFile, "config", "", "config file to use instead of the project file")
}

// resetGenerateFlags resets generate command flags for testing.
func resetGenerateFlags() {
	genDataDir = ""
	genOutputDir = ""
	genParallel = 0
	genXLSX = false
	genPNG = false
	genConfigFile = ""
	generateCmd.Flags().VisitAll(resetFlag)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genParallel < 0 {
		return exitError(ExitFailure, "nitroviz: --parallel must be non-negative (got %d)", genParallel)
	}

	fileCfg, err := loadLayeredConfig(genConfigFile)
	if err != nil {
		return exitError(ExitFailure, "nitroviz: %v", err)
	}

	cfg := config.Merge(fileCfg, pipeline.Config{
		DataDir:    genDataDir,
		OutputDir:  genOutputDir,
		Generators: args,
		Parallel:   genParallel,
		XLSX:       genXLSX,
		PNG:        genPNG,
		Version:    Version,
		FS:         cmdFS,
	})

	p, err := pipeline.New(cfg)
	if err != nil {
		return exitError(ExitFailure, "nitroviz: %v (available: %s)", err, strings.Join(viz.List(), ", "))
	}

	res, err := p.Run(cmd.Context())
	if err != nil {
		return exitError(ExitFailure, "nitroviz: %v", err)
	}

	w := cmd.OutOrStdout()
	for _, r := range res.Results {
		_, _ = fmt.Fprintf(w, "wrote %s (%d figures, %d tables)\n", r.Path, r.Figures, r.Tables)
		for _, png := range r.PNGs {
			_, _ = fmt.Fprintf(w, "wrote %s\n", png)
		}
	}
	if res.Workbook != "" {
		_, _ = fmt.Fprintf(w, "wrote %s\n", res.Workbook)
	}
	slog.Info("generation complete", "run", res.RunID, "pages", len(res.Results),
		"duration", res.Duration.Round(time.Millisecond))
	return nil
}

// loadLayeredConfig overlays the project config (or the explicit file) on
// the global config and validates the result.
func loadLayeredConfig(explicit string) (*config.Config, error) {
	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	var projectCfg *config.Config
	if explicit != "" {
		projectCfg, err = config.LoadFile(explicit)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %q does not exist", explicit)
		}
	} else {
		projectCfg, err = config.Load(".")
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	merged := config.Overlay(globalCfg, projectCfg)
	if err := config.Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
