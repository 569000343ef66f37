package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/nitroviz/internal/config"
)

// Config command flags.
var configGlobal bool

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify nitroviz configuration",
	Long: `View and modify nitroviz configuration.

Nitroviz reads configuration from .nitroviz.yaml (or .nitroviz.toml) in the
project directory. A global config at ~/.config/nitroviz/config.yaml provides
defaults. Project settings override global settings.

Note: config set writes YAML only and will not preserve comments.`,
}

// configGetCmd retrieves a configuration value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by dot-notation key path.

Examples:
  nitroviz config get data_dir
  nitroviz config get theme.crop_colors.Citrus
  nitroviz config get theme
  nitroviz config get --global parallel`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are auto-detected as bool, int, float, or string.
By default, writes to .nitroviz.yaml in the current directory.
Use --global to write to ~/.config/nitroviz/config.yaml.

Examples:
  nitroviz config set output_dir site
  nitroviz config set parallel 3
  nitroviz config set xlsx true
  nitroviz config set theme.crop_colors.Citrus "#FF8800"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List all configuration values with their source annotation.

Shows every set configuration value, annotated with whether it comes
from the project config or the global config
(~/.config/nitroviz/config.yaml). Project values override global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func init() {
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/nitroviz/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/nitroviz/config.yaml)")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal = false
	if f := configGetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
	}
	if f := configSetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]

	var cfg *config.Config
	if configGlobal {
		globalCfg, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		cfg = globalCfg
	} else {
		projectCfg, err := config.Load(".")
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		globalCfg, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		cfg = config.Overlay(globalCfg, projectCfg)
	}

	val, err := config.GetValue(cfg, keyPath)
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	targetPath := filepath.Join(".", config.FileName)
	if configGlobal {
		targetPath = config.GlobalConfigPath()
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip through Config so an invalid value never reaches disk.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	projectCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}

	globalMap, err := configToFlatMap(globalCfg)
	if err != nil {
		return err
	}
	projectMap, err := configToFlatMap(projectCfg)
	if err != nil {
		return err
	}

	type entry struct {
		value  any
		source string
	}
	seen := make(map[string]entry, len(globalMap)+len(projectMap))
	for k, v := range globalMap {
		seen[k] = entry{value: v, source: "global"}
	}
	for k, v := range projectMap {
		seen[k] = entry{value: v, source: "project"}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'nitroviz config set <key> <value>' to set values.")
		return nil
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	globalColor := color.New(color.FgCyan)
	projectColor := color.New(color.FgGreen)
	for _, k := range keys {
		e := seen[k]
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, formatSource(e.source, globalColor, projectColor))
	}
	return nil
}

// printValue outputs a value: scalars as plain text, maps/slices as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// configToFlatMap converts a Config to a flat dot-notation map, omitting zero values.
func configToFlatMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return map[string]any{}, nil
	}
	return config.FlattenMap(m, ""), nil
}

// formatSource returns a colorized source annotation.
func formatSource(source string, globalColor, projectColor *color.Color) string {
	switch source {
	case "global":
		return globalColor.Sprint("(global)")
	case "project":
		return projectColor.Sprint("(project)")
	default:
		return fmt.Sprintf("(%s)", source)
	}
}
