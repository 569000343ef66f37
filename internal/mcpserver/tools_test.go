package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/nitroviz/internal/dataset"
)

const npkCSV = `ID,parsed_date,treatment,N_Value,ST_Value
cit_kfa_n10_1,2022-10-05,N10,2.5,50
cit_kfa_n60_1,2022-10-05,N60,3.0,60
cit_kfa_n10_2,2023-03-09,N10,2.6,90
cit_kfa_n60_2,2023-03-09,N60,3.1,110
cit_kfa_n10_3,2023-10-09,N10,2.7,120
cit_kfa_n60_3,2023-10-09,N60,3.0,140
`

// initProject creates a project directory with the NPK CSV under data/.
func initProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	var err error
	dir, err = filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	writeTestFile(t, dir, filepath.Join("data", dataset.NPKFile), npkCSV)
	return dir
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	return res.Content[0].(*mcp.TextContent).Text
}

func TestHandleList(t *testing.T) {
	res, _, err := (&tools{}).handleList(context.Background(), nil, ListInput{})
	require.NoError(t, err)

	var out []VisualizationJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out, 6)
	assert.Equal(t, "data-collection", out[0].Name)
	assert.Equal(t, "nst-ratio", out[5].Name)
	for _, v := range out {
		assert.NotEmpty(t, v.OutputFile)
		assert.NotEmpty(t, v.Description)
	}
}

func TestHandleGenerate_WritesPage(t *testing.T) {
	dir := initProject(t)

	res, _, err := (&tools{version: "v9.9.9"}).handleGenerate(context.Background(), nil, GenerateInput{
		Path:           dir,
		Visualizations: "nst-ratio",
	})
	require.NoError(t, err)

	var out GenerateJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.NotEmpty(t, out.RunID)
	require.Len(t, out.Pages, 1)
	assert.Equal(t, "nst-ratio", out.Pages[0].Name)
	assert.Equal(t, filepath.Join(dir, "output", "nst_ratio_analysis.html"), out.Pages[0].Path)
	assert.Equal(t, 2, out.Pages[0].Figures)

	html, err := os.ReadFile(out.Pages[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "N/ST Ratio Analysis")
	assert.Contains(t, string(html), "v9.9.9")
}

func TestHandleGenerate_UsesProjectConfig(t *testing.T) {
	dir := initProject(t)
	writeTestFile(t, dir, ".nitroviz.yaml", "schema_version: v1\noutput_dir: pages\nvisualizations: [nst-ratio]\n")
	sub := filepath.Join(dir, "notes")
	require.NoError(t, os.Mkdir(sub, 0o750))

	res, _, err := (&tools{}).handleGenerate(context.Background(), nil, GenerateInput{Path: sub})
	require.NoError(t, err)

	var out GenerateJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out.Pages, 1)
	assert.Equal(t, filepath.Join(dir, "pages", "nst_ratio_analysis.html"), out.Pages[0].Path)
}

func TestHandleGenerate_InvalidConfig(t *testing.T) {
	dir := initProject(t)
	writeTestFile(t, dir, ".nitroviz.yaml", "schema_version: v1\nparallel: -2\n")

	_, _, err := (&tools{}).handleGenerate(context.Background(), nil, GenerateInput{Path: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parallel")
}

func TestHandleGenerate_UnknownVisualization(t *testing.T) {
	dir := initProject(t)

	_, _, err := (&tools{}).handleGenerate(context.Background(), nil, GenerateInput{Path: dir, Visualizations: "pie-chart"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pie-chart")
	assert.Contains(t, err.Error(), "available: data-collection")
}

func TestHandleGenerate_NegativeParallel(t *testing.T) {
	_, _, err := (&tools{}).handleGenerate(context.Background(), nil, GenerateInput{Path: t.TempDir(), Parallel: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestHandleGenerate_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, _, err := (&tools{}).handleGenerate(context.Background(), nil, GenerateInput{Path: dir, Visualizations: "st-variance"})
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrMissingFile)
	assert.NoFileExists(t, filepath.Join(dir, "output", "st_variance_analysis.html"))
}

func TestHandleGenerate_BadPath(t *testing.T) {
	_, _, err := (&tools{}).handleGenerate(context.Background(), nil, GenerateInput{Path: "/nonexistent/project"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve path")
}

func TestHandleNSTSummary(t *testing.T) {
	dir := initProject(t)

	res, _, err := (&tools{}).handleNSTSummary(context.Background(), nil, NSTInput{Path: dir})
	require.NoError(t, err)

	var out NSTSummaryJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out.Months, 3)
	assert.Equal(t, "2022-10", out.Months[0].Month)
	assert.InDelta(t, 2.75, out.Months[0].N, 1e-9)
	assert.InDelta(t, 55, out.Months[0].ST, 1e-9)
	assert.InDelta(t, 0.05, out.Months[0].Ratio, 1e-9)
	assert.InDelta(t, 100, out.Months[0].RatioNorm, 1e-9)
	assert.InDelta(t, 0, out.Months[2].RatioNorm, 1e-9)
	assert.Equal(t, "2022-10", out.PeakRatio)
}

func TestHandleNSTSummary_DateBounds(t *testing.T) {
	dir := initProject(t)

	res, _, err := (&tools{}).handleNSTSummary(context.Background(), nil, NSTInput{Path: dir, From: "2023-01-01", To: "2023-12-31"})
	require.NoError(t, err)

	var out NSTSummaryJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out.Months, 2)
	assert.Equal(t, "2023-03", out.Months[0].Month)
	assert.Equal(t, "2023-03", out.PeakRatio)
}

func TestHandleNSTSummary_InvalidInput(t *testing.T) {
	dir := initProject(t)
	tests := []struct {
		name  string
		input NSTInput
		want  string
	}{
		{"bad from", NSTInput{Path: dir, From: "03/2023"}, "from: expected YYYY-MM-DD"},
		{"bad to", NSTInput{Path: dir, To: "soon"}, "to: expected YYYY-MM-DD"},
		{"reversed", NSTInput{Path: dir, From: "2024-01-01", To: "2023-01-01"}, "is before"},
		{"missing file", NSTInput{Path: t.TempDir()}, "missing file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := (&tools{}).handleNSTSummary(context.Background(), nil, tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"nst-ratio", []string{"nst-ratio"}},
		{" npk-experiment , st-variance ", []string{"npk-experiment", "st-variance"}},
		{",,a,,", []string{"a"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitAndTrim(tt.input), tt.input)
	}
}

func FuzzSplitAndTrim(f *testing.F) {
	f.Add("")
	f.Add("data-collection,,nst-ratio")
	f.Add(" \t, ")

	f.Fuzz(func(t *testing.T, input string) {
		for _, s := range splitAndTrim(input) {
			if s == "" {
				t.Error("splitAndTrim returned empty string")
			}
		}
	})
}
