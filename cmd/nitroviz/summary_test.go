package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/nitroviz/internal/report"
)

func TestSummary_Text(t *testing.T) {
	resetSummaryFlags()
	dir := initProject(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"summary", "--data-dir", filepath.Join(dir, "data")})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "nitroviz summary")
	assert.Contains(t, out, "Unified: not available")
	assert.Contains(t, out, "NPK:     6 rows")
	assert.Contains(t, out, "collection: skipped")
	assert.Contains(t, out, "N10")
	assert.Contains(t, out, "Overall mean ST")
}

func TestSummary_SectionsFilter(t *testing.T) {
	resetSummaryFlags()
	dir := initProject(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"summary", "--data-dir", filepath.Join(dir, "data"), "--sections", "years, bogus"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "Overall mean ST")
	assert.NotContains(t, out, "collection: skipped")
	assert.NotContains(t, out, "Series peak")
}

func TestSummary_NoKnownSections(t *testing.T) {
	resetSummaryFlags()
	dir := initProject(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"summary", "--data-dir", filepath.Join(dir, "data"), "--sections", "bogus"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no known sections")
}

func TestSummary_JSONToFile(t *testing.T) {
	resetSummaryFlags()
	dir := initProject(t)
	outPath := filepath.Join(dir, "summary.json")

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"summary", "--data-dir", filepath.Join(dir, "data"), "--format", "json", "-o", outPath})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(outPath) //nolint:gosec // test path
	require.NoError(t, err)
	var rep report.ReportJSON
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, -1, rep.Tables.Unified)
	assert.Equal(t, 6, rep.Tables.NPK)
	require.NotEmpty(t, rep.Sections)

	status := map[string]string{}
	for _, s := range rep.Sections {
		status[s.Name] = s.Status
	}
	assert.Equal(t, "skipped", status["collection"])
	assert.Equal(t, "ok", status["treatments"])
}

func TestSummary_DataDirFromConfig(t *testing.T) {
	resetSummaryFlags()
	dir := initProject(t)
	writeTestFile(t, dir, ".nitroviz.yaml", "data_dir: data\n")
	chdir(t, dir)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"summary", "--sections", "treatments"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Data:    data")
	assert.Contains(t, stdout.String(), "N60")
}

func TestSummary_BadFormat(t *testing.T) {
	resetSummaryFlags()
	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"summary", "--format", "xml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}
