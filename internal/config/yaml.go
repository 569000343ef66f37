package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the project config from dir, trying .nitroviz.yaml and then
// .nitroviz.toml. If neither exists, it returns a zero-value Config and nil
// error. Having both is an error.
func Load(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, FileName)
	tomlPath := filepath.Join(dir, TOMLFileName)

	cfg, yamlErr := LoadFile(yamlPath)
	if yamlErr != nil && !errors.Is(yamlErr, fs.ErrNotExist) {
		return nil, yamlErr
	}
	tomlCfg, tomlErr := LoadFile(tomlPath)
	if tomlErr != nil && !errors.Is(tomlErr, fs.ErrNotExist) {
		return nil, tomlErr
	}

	switch {
	case yamlErr == nil && tomlErr == nil:
		return nil, fmt.Errorf("both %s and %s found in %s; keep one", FileName, TOMLFileName, dir)
	case yamlErr == nil:
		return cfg, nil
	case tomlErr == nil:
		return tomlCfg, nil
	}
	return &Config{}, nil
}

// LoadFile reads a single config file, choosing the decoder by extension.
// A missing file is returned as an fs.ErrNotExist error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided project path
	if err != nil {
		return nil, err
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// LoadRaw reads a YAML config file as a generic map so it can be edited key
// by key. A missing file yields an empty map.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// WriteFile writes data to path as YAML, creating parent directories.
// Comments in an existing file are not preserved.
func WriteFile(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}
