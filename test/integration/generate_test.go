// Package integration contains end-to-end tests for nitroviz.
//
// These tests build the nitroviz binary and run it against a fixture data
// directory, checking the written pages, the exit codes, and the summary
// output.
package integration

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = []string{
	"data_collection_story.html",
	"spectral_explorer.html",
	"npk_experiment.html",
	"st_variance_analysis.html",
	"lnc_classification.html",
	"nst_ratio_analysis.html",
}

const npkCSV = `ID,parsed_date,treatment,N_Value,ST_Value,SC_Value
cit_kfa_n10_1,2022-10-05,N10,2.5,50,30
cit_kfa_n60_1,2022-10-05,N60,3.0,60,32
cit_kfa_n10_2,2023-03-09,N10,2.6,90,28
cit_kfa_n60_2,2023-03-09,N60,3.1,110,29
cit_kfa_n10_3,2023-10-09,N10,2.7,120,31
cit_kfa_n60_3,2023-10-09,N60,3.0,140,30
`

const spectralCSV = `ID,4000,5000,6000
avo_ked_20220101,0.3,0.5,0.4
cit_gil_20220101,0.2,0.3,0.4
alm_gil_20220101,0.25,0.35,0.45
`

const locationsJSON = `{"locations": {
  "Kabri": {"lat": 33.02, "lon": 35.15},
  "Kfar Menahem": {"lat": 31.73, "lon": 34.84},
  "Kedma": {"lat": 31.70, "lon": 34.77},
  "Gilat": {"lat": 31.33, "lon": 34.66}
}}`

type unifiedRow struct {
	ID string  `parquet:"ID"`
	N  float64 `parquet:"N_Value"`
}

// repoRoot returns the nitroviz repository root directory.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// test/integration/generate_test.go -> repo root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// buildBinary compiles nitroviz into a temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := filepath.Join(t.TempDir(), "nitroviz-test")
	cmd := exec.Command("go", "build", "-ldflags", "-X main.Version=v0.0.0-it", "-o", binary, "./cmd/nitroviz") //nolint:gosec // test helper
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build failed:\n%s", out)
	return binary
}

// writeDataDir writes all four sources into a fresh directory.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write("npk_5_treatments_samples.csv", npkCSV)
	write("spectral_data.csv", spectralCSV)
	write("israel_locations.json", locationsJSON)
	require.NoError(t, parquet.WriteFile(filepath.Join(dir, "unified_dataset.parquet"), []unifiedRow{
		{ID: "cit_kab_20220315", N: 2.7},
		{ID: "cit_ked_20230601", N: 2.6},
		{ID: "alm_gil_20230601", N: 2.1},
		{ID: "avo_kfa_20230701", N: 1.9},
	}))
	return dir
}

// run executes the binary in an isolated environment and returns stdout,
// stderr, and the exit code.
func run(t *testing.T, binary string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binary, args...) //nolint:gosec // test helper
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir())
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return stdout.String(), stderr.String(), code
}

func TestGenerate_AllPages(t *testing.T) {
	binary := buildBinary(t)
	data := writeDataDir(t)
	out := t.TempDir()

	stdout, stderr, code := run(t, binary, "generate", "--quiet", "--parallel", "3", "--data-dir", data, "--output-dir", out)
	require.Equal(t, 0, code, "stderr:\n%s", stderr)

	for _, p := range pages {
		path := filepath.Join(out, p)
		assert.FileExists(t, path)
		assert.Contains(t, stdout, path)

		html, err := os.ReadFile(path) //nolint:gosec // test path
		require.NoError(t, err)
		assert.Contains(t, string(html), "v0.0.0-it", "%s carries the build version", p)
		assert.Contains(t, string(html), "Plotly.newPlot", "%s renders its figures", p)
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	binary := buildBinary(t)
	data := writeDataDir(t)
	out := t.TempDir()

	for range 2 {
		_, stderr, code := run(t, binary, "generate", "-q", "nst-ratio", "lnc-classification", "--data-dir", data, "--output-dir", out)
		require.Equal(t, 0, code, "stderr:\n%s", stderr)
	}
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerate_MissingInputExitsOne(t *testing.T) {
	binary := buildBinary(t)
	data := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(data, "spectral_data.csv")))
	out := t.TempDir()

	_, stderr, code := run(t, binary, "generate", "spectral-explorer", "--data-dir", data, "--output-dir", out)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "nitroviz: "), "stderr: %s", stderr)
	assert.Contains(t, stderr, "spectral_data.csv")
	assert.NoFileExists(t, filepath.Join(out, "spectral_explorer.html"))
}

func TestGenerate_UnknownName(t *testing.T) {
	binary := buildBinary(t)

	_, stderr, code := run(t, binary, "generate", "bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown visualization: "bogus"`)
}

func TestSummary_JSON(t *testing.T) {
	binary := buildBinary(t)
	data := writeDataDir(t)

	stdout, stderr, code := run(t, binary, "summary", "--no-color", "--format", "json", "--data-dir", data)
	require.Equal(t, 0, code, "stderr:\n%s", stderr)

	var rep struct {
		Tables struct {
			Unified int `json:"unified"`
			NPK     int `json:"npk"`
		} `json:"tables"`
		Sections []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 4, rep.Tables.Unified)
	assert.Equal(t, 6, rep.Tables.NPK)
	require.Len(t, rep.Sections, 5)
	for _, s := range rep.Sections {
		assert.Equal(t, "ok", s.Status, s.Name)
	}
}

func TestVersion(t *testing.T) {
	binary := buildBinary(t)

	stdout, _, code := run(t, binary, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, "nitroviz v0.0.0-it", strings.TrimSpace(stdout))
}
