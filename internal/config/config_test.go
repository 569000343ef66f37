package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `schema_version: v1
data_dir: ./in
output_dir: ./out
parallel: 3
xlsx: true
theme:
  crop_colors:
    Citrus: "#FFAA00"
  treatment_colors:
    N0: "#112233"
visualizations:
  - nst-ratio
  - st-variance
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1", cfg.SchemaVersion)
	assert.Equal(t, "./in", cfg.DataDir)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Parallel)
	assert.True(t, cfg.XLSX)
	assert.False(t, cfg.PNG)
	assert.Equal(t, "#FFAA00", cfg.Theme.CropColors["Citrus"])
	assert.Equal(t, "#112233", cfg.Theme.TreatmentColors["N0"])
	assert.Equal(t, []string{"nst-ratio", "st-variance"}, cfg.Visualizations)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFileName, `schema_version = "v1.2.0"
output_dir = "site"
png = true
visualizations = ["lnc-classification"]

[theme.crop_colors]
Vine = "#AA00AA"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", cfg.SchemaVersion)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.True(t, cfg.PNG)
	assert.Equal(t, []string{"lnc-classification"}, cfg.Visualizations)
	assert.Equal(t, "#AA00AA", cfg.Theme.CropColors["Vine"])
}

func TestLoad_BothFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "parallel: 1\n")
	writeFile(t, dir, TOMLFileName, "parallel = 1\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"yaml", FileName, "parallel: [unterminated\n"},
		{"toml", TOMLFileName, "parallel = \n"},
		{"yaml type mismatch", FileName, "parallel: lots\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.file)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWrite_RoundTrip(t *testing.T) {
	in := &Config{
		SchemaVersion:  "v1",
		OutputDir:      "out",
		Parallel:       2,
		Theme:          ThemeConfig{CropColors: map[string]string{"Citrus": "#FFAA00"}},
		Visualizations: []string{"nst-ratio"},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))
	assert.NotContains(t, buf.String(), "data_dir", "empty fields are omitted")

	dir := t.TempDir()
	writeFile(t, dir, FileName, buf.String())
	out, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadRaw_MissingFileIsEmpty(t *testing.T) {
	m, err := LoadRaw(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestLoadRaw_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "data_dir: [unclosed\n")
	_, err := LoadRaw(filepath.Join(dir, FileName))
	assert.ErrorContains(t, err, FileName)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	data := map[string]any{"schema_version": "v1", "parallel": 3}
	require.NoError(t, WriteFile(path, data))

	got, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "v1", got["schema_version"])
	assert.Equal(t, 3, got["parallel"])

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Parallel)
}
