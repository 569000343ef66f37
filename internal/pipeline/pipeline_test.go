package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/testable"
	"github.com/davetashner/nitroviz/internal/viz"
)

// stubGenerator implements viz.Generator for testing.
type stubGenerator struct {
	name  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubGenerator) Name() string        { return s.name }
func (s *stubGenerator) Description() string { return "stub " + s.name }
func (s *stubGenerator) OutputFile() string  { return s.name + ".html" }

func (s *stubGenerator) Generate(ctx context.Context, _ *viz.Env) (*render.Document, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	line := chart.Scatter("N", []string{"2023-01-15", "2023-02-15"}, []float64{2.1, 2.3}, "lines")
	line.Line = &chart.Line{Color: "#1E90FF", Width: 2}
	bars := chart.New("bars").Add(chart.Bar("n", []string{"a"}, []int{1}, "#000000"))

	tbl := chart.NewTable("Counts", "Crop", "Samples")
	tbl.AddRow("Citrus", "12")

	doc := &render.Document{Title: s.name, Heading: s.name}
	doc.Add(
		render.Figure(chart.New("line").Add(line)),
		render.Figure(bars),
		render.Table(tbl),
	)
	return doc, nil
}

// Compile-time interface check.
var _ viz.Generator = (*stubGenerator)(nil)

// noRepo keeps tests from walking up into whatever repository holds the
// temp directory.
var noRepo = &testable.MockGitOpener{}

func TestPipeline_Sequential(t *testing.T) {
	out := t.TempDir()
	a, b := &stubGenerator{name: "alpha"}, &stubGenerator{name: "beta"}

	p := NewWithGenerators(Config{OutputDir: out, Version: "test", GitOpener: noRepo}, []viz.Generator{a, b})
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "alpha", res.Results[0].Generator)
	assert.Equal(t, "beta", res.Results[1].Generator)
	assert.Equal(t, 2, res.Results[0].Figures)
	assert.Equal(t, 1, res.Results[0].Tables)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Workbook)

	for _, r := range res.Results {
		require.NoError(t, r.Err)
		data, err := os.ReadFile(r.Path)
		require.NoError(t, err)
		assert.Contains(t, string(data), res.RunID)
		assert.Empty(t, r.PNGs)
	}
}

func TestPipeline_StopsOnFirstError(t *testing.T) {
	out := t.TempDir()
	boom := errors.New("boom")
	a := &stubGenerator{name: "alpha", err: boom}
	b := &stubGenerator{name: "beta"}

	p := NewWithGenerators(Config{OutputDir: out, GitOpener: noRepo}, []viz.Generator{a, b})
	res, err := p.Run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "alpha")
	require.Len(t, res.Results, 1)
	assert.Equal(t, int32(0), b.calls.Load(), "later generators must not run")

	entries, readErr := os.ReadDir(out)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed run leaves no output")
}

func TestPipeline_ParallelResultOrdering(t *testing.T) {
	out := t.TempDir()
	slow := &stubGenerator{name: "slow", delay: 50 * time.Millisecond}
	fast := &stubGenerator{name: "fast"}

	p := NewWithGenerators(Config{OutputDir: out, Parallel: 2, GitOpener: noRepo}, []viz.Generator{slow, fast})
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "slow", res.Results[0].Generator)
	assert.Equal(t, "fast", res.Results[1].Generator)
	assert.FileExists(t, filepath.Join(out, "slow.html"))
	assert.FileExists(t, filepath.Join(out, "fast.html"))
}

func TestPipeline_ParallelFailureCancels(t *testing.T) {
	out := t.TempDir()
	boom := errors.New("boom")
	bad := &stubGenerator{name: "bad", err: boom}
	slow := &stubGenerator{name: "slow", delay: 5 * time.Second}

	p := NewWithGenerators(Config{OutputDir: out, Parallel: 2, GitOpener: noRepo}, []viz.Generator{bad, slow})
	start := time.Now()
	_, err := p.Run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NoFileExists(t, filepath.Join(out, "slow.html"))
}

func TestPipeline_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := &stubGenerator{name: "alpha", delay: time.Second}
	p := NewWithGenerators(Config{OutputDir: t.TempDir(), GitOpener: noRepo}, []viz.Generator{g})
	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_SideOutputs(t *testing.T) {
	out := t.TempDir()
	p := NewWithGenerators(Config{OutputDir: out, XLSX: true, PNG: true, GitOpener: noRepo},
		[]viz.Generator{&stubGenerator{name: "alpha"}, &stubGenerator{name: "beta"}})
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, WorkbookFile), res.Workbook)
	assert.FileExists(t, res.Workbook)

	// Only the line figure has a static rendering.
	require.Len(t, res.Results[0].PNGs, 1)
	assert.Equal(t, filepath.Join(out, "alpha_fig1.png"), res.Results[0].PNGs[0])
	assert.FileExists(t, res.Results[0].PNGs[0])
	assert.NoFileExists(t, filepath.Join(out, "alpha_fig2.png"))
}

func TestPipeline_StampsRevision(t *testing.T) {
	out := t.TempDir()
	hash := plumbing.NewHash("fedcba9876543210fedcba9876543210fedcba98")
	opener := &testable.MockGitOpener{
		Repo: &testable.MockGitRepository{HeadRef: plumbing.NewHashReference(plumbing.HEAD, hash)},
	}

	p := NewWithGenerators(Config{DataDir: "data", OutputDir: out, GitOpener: opener},
		[]viz.Generator{&stubGenerator{name: "alpha"}})
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fedcba987654", res.Revision)

	data, err := os.ReadFile(res.Results[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `content="fedcba987654"`)
}

func TestPipeline_RevisionErrorIsNotFatal(t *testing.T) {
	opener := &testable.MockGitOpener{OpenErr: errors.New("permission denied")}
	p := NewWithGenerators(Config{OutputDir: t.TempDir(), GitOpener: opener},
		[]viz.Generator{&stubGenerator{name: "alpha"}})
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Revision)
}

func TestPipeline_WriteFailureLeavesNoFile(t *testing.T) {
	out := t.TempDir()
	fsys := &testable.MockFileSystem{
		RenameFn: func(_, _ string) error { return errors.New("disk full") },
	}
	p := NewWithGenerators(Config{OutputDir: out, FS: fsys, GitOpener: noRepo},
		[]viz.Generator{&stubGenerator{name: "alpha"}})
	_, err := p.Run(context.Background())

	require.ErrorIs(t, err, render.ErrWrite)
	entries, readErr := os.ReadDir(out)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestPipeline_MissingInputWritesNothing(t *testing.T) {
	out := t.TempDir()
	p, err := New(Config{DataDir: t.TempDir(), OutputDir: out, Generators: []string{"nst-ratio"}, GitOpener: noRepo})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.ErrorIs(t, err, dataset.ErrMissingFile)
	assert.True(t, strings.Contains(err.Error(), dataset.NPKFile))
	assert.NoFileExists(t, filepath.Join(out, "nst_ratio_analysis.html"))
}

func TestNew_UnknownGenerator(t *testing.T) {
	_, err := New(Config{Generators: []string{"nonexistent"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestResolveGenerators(t *testing.T) {
	all, err := resolveGenerators(nil)
	require.NoError(t, err)
	require.Len(t, all, len(viz.List()))
	for i, name := range viz.List() {
		assert.Equal(t, name, all[i].Name())
	}

	some, err := resolveGenerators([]string{"nst-ratio", "st-variance", "nst-ratio"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "nst-ratio", some[0].Name())
	assert.Equal(t, "st-variance", some[1].Name())
}
