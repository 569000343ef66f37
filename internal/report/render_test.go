package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText_AllSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(testSources(), "/data", nil, &buf))

	out := buf.String()
	assert.Contains(t, out, "nitroviz summary")
	assert.Contains(t, out, "/data")
	assert.Contains(t, out, "4 rows")
	assert.Contains(t, out, "Data Collection")
	assert.Contains(t, out, "N/ST Ratio")
}

func TestRenderText_SkipsMissingTables(t *testing.T) {
	src := testSources()
	src.NPK = nil

	var buf bytes.Buffer
	require.NoError(t, RenderText(src, "/data", []string{"collection", "years"}, &buf))

	out := buf.String()
	assert.Contains(t, out, "NPK:     not available")
	assert.Contains(t, out, "years: skipped")
	assert.Contains(t, out, "Data Collection")
}

func TestRenderJSON(t *testing.T) {
	src := testSources()
	src.Unified = nil

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(src, "/data", []string{"collection", "nst-ratio"}, &buf))

	var parsed ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "/data", parsed.DataDir)
	assert.Equal(t, -1, parsed.Tables.Unified)
	assert.Equal(t, 4, parsed.Tables.NPK)
	require.Len(t, parsed.Sections, 2)
	assert.Equal(t, "skipped", parsed.Sections[0].Status)
	assert.Empty(t, parsed.Sections[0].Content)
	assert.Equal(t, "ok", parsed.Sections[1].Status)
	assert.Contains(t, parsed.Sections[1].Content, "peak")
}

func TestRenderJSON_SectionError(t *testing.T) {
	resetForTesting()
	defer restoreSections()
	Register(&failingSection{})

	err := RenderJSON(testSources(), "/data", nil, io.Discard)
	assert.ErrorContains(t, err, "section failing")
}

func TestResolveSections_EmptyFilter(t *testing.T) {
	resetForTesting()
	defer restoreSections()

	Register(&stubSection{name: "a"})
	Register(&stubSection{name: "b"})

	assert.Equal(t, []string{"a", "b"}, ResolveSections(nil))
}

func TestResolveSections_FilterKnown(t *testing.T) {
	resetForTesting()
	defer restoreSections()

	Register(&stubSection{name: "a"})
	Register(&stubSection{name: "b"})

	assert.Equal(t, []string{"b"}, ResolveSections([]string{"b"}))
}

func TestResolveSections_FilterUnknown(t *testing.T) {
	resetForTesting()
	defer restoreSections()

	Register(&stubSection{name: "a"})

	assert.Empty(t, ResolveSections([]string{"nope"}))
}

type failingSection struct{}

func (failingSection) Name() string             { return "failing" }
func (failingSection) Description() string      { return "always fails" }
func (failingSection) Analyze(*Sources) error   { return errors.New("boom") }
func (failingSection) Render(_ io.Writer) error { return nil }
