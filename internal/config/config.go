// Package config handles .nitroviz.yaml and .nitroviz.toml project files.
package config

// Config represents the contents of a project config file. Every field is
// optional; command-line flags take precedence.
type Config struct {
	SchemaVersion  string      `yaml:"schema_version,omitempty" toml:"schema_version,omitempty"`
	DataDir        string      `yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`
	OutputDir      string      `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	Parallel       int         `yaml:"parallel,omitempty" toml:"parallel,omitempty"`
	XLSX           bool        `yaml:"xlsx,omitempty" toml:"xlsx,omitempty"`
	PNG            bool        `yaml:"png,omitempty" toml:"png,omitempty"`
	Theme          ThemeConfig `yaml:"theme,omitempty" toml:"theme,omitempty"`
	Visualizations []string    `yaml:"visualizations,omitempty" toml:"visualizations,omitempty"`
}

// ThemeConfig overrides palette entries by crop name or treatment label.
type ThemeConfig struct {
	CropColors      map[string]string `yaml:"crop_colors,omitempty" toml:"crop_colors,omitempty"`
	TreatmentColors map[string]string `yaml:"treatment_colors,omitempty" toml:"treatment_colors,omitempty"`
}

// Config file names looked up in the project directory. YAML is preferred.
const (
	FileName     = ".nitroviz.yaml"
	TOMLFileName = ".nitroviz.toml"
)

// SchemaVersion is the config schema this build understands.
const SchemaVersion = "v1"

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultDataDir   = "data"
	DefaultOutputDir = "output"
)
