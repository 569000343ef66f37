package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/davetashner/nitroviz/internal/style"
	"github.com/davetashner/nitroviz/internal/viz"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if v := cfg.SchemaVersion; v != "" {
		if !semver.IsValid(v) {
			errs = append(errs, fmt.Sprintf("schema_version: %q is not a semantic version (e.g. %s)", v, SchemaVersion))
		} else if semver.Major(v) != SchemaVersion {
			errs = append(errs, fmt.Sprintf("schema_version: unsupported version %s (this build reads %s)", v, SchemaVersion))
		}
	}

	if cfg.Parallel < 0 {
		errs = append(errs, fmt.Sprintf("parallel: must be non-negative, got %d", cfg.Parallel))
	}

	for _, name := range cfg.Visualizations {
		if viz.Get(name) == nil {
			errs = append(errs, fmt.Sprintf("visualizations: unknown visualization %q", name))
		}
	}

	for _, crop := range sortedNames(cfg.Theme.CropColors) {
		if !slices.Contains(style.CropOrder, crop) {
			errs = append(errs, fmt.Sprintf("theme.crop_colors.%s: unknown crop (valid: %s)", crop, strings.Join(style.CropOrder, ", ")))
		}
		if _, _, _, err := style.ParseHex(cfg.Theme.CropColors[crop]); err != nil {
			errs = append(errs, fmt.Sprintf("theme.crop_colors.%s: %v", crop, err))
		}
	}

	for _, label := range sortedNames(cfg.Theme.TreatmentColors) {
		if _, ok := style.TreatmentByLabel(label); !ok {
			errs = append(errs, fmt.Sprintf("theme.treatment_colors.%s: unknown treatment", label))
		}
		if _, _, _, err := style.ParseHex(cfg.Theme.TreatmentColors[label]); err != nil {
			errs = append(errs, fmt.Sprintf("theme.treatment_colors.%s: %v", label, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// sortedNames keeps validation output stable across map iteration order.
func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
