package config

import (
	"maps"

	"github.com/davetashner/nitroviz/internal/pipeline"
	"github.com/davetashner/nitroviz/internal/style"
)

// Overlay layers over on top of base, typically the project file over the
// global one. Set fields in over win; theme maps are merged key by key.
func Overlay(base, over *Config) *Config {
	out := *base
	if over.SchemaVersion != "" {
		out.SchemaVersion = over.SchemaVersion
	}
	if over.DataDir != "" {
		out.DataDir = over.DataDir
	}
	if over.OutputDir != "" {
		out.OutputDir = over.OutputDir
	}
	if over.Parallel != 0 {
		out.Parallel = over.Parallel
	}
	out.XLSX = out.XLSX || over.XLSX
	out.PNG = out.PNG || over.PNG
	if len(over.Visualizations) > 0 {
		out.Visualizations = over.Visualizations
	}
	out.Theme.CropColors = mergeMaps(base.Theme.CropColors, over.Theme.CropColors)
	out.Theme.TreatmentColors = mergeMaps(base.Theme.TreatmentColors, over.Theme.TreatmentColors)
	return &out
}

func mergeMaps(base, over map[string]string) map[string]string {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(over))
	}
	maps.Copy(out, over)
	return out
}

// Merge combines file-based config with CLI-provided pipeline settings.
// CLI values take precedence; zero-value CLI fields fall through to file
// config, then to the defaults.
func Merge(fileCfg *Config, cliCfg pipeline.Config) pipeline.Config {
	result := cliCfg

	if result.DataDir == "" {
		result.DataDir = fileCfg.DataDir
	}
	if result.DataDir == "" {
		result.DataDir = DefaultDataDir
	}

	if result.OutputDir == "" {
		result.OutputDir = fileCfg.OutputDir
	}
	if result.OutputDir == "" {
		result.OutputDir = DefaultOutputDir
	}

	if result.Parallel == 0 && fileCfg.Parallel > 0 {
		result.Parallel = fileCfg.Parallel
	}

	// Bools: CLI wins if true, otherwise file config.
	if !result.XLSX && fileCfg.XLSX {
		result.XLSX = true
	}
	if !result.PNG && fileCfg.PNG {
		result.PNG = true
	}

	if len(result.Generators) == 0 && len(fileCfg.Visualizations) > 0 {
		result.Generators = fileCfg.Visualizations
	}

	if result.Theme == nil {
		result.Theme = style.Default().WithOverrides(fileCfg.Theme.CropColors, fileCfg.Theme.TreatmentColors)
	}
	return result
}
