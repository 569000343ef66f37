// Package pipeline provides the generation engine for nitroviz. It resolves
// generators, runs them sequentially or with bounded parallelism, writes
// each page and its side outputs, and aggregates the results.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/export"
	"github.com/davetashner/nitroviz/internal/provenance"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
	"github.com/davetashner/nitroviz/internal/testable"
	"github.com/davetashner/nitroviz/internal/viz"
)

// WorkbookFile is the name of the xlsx side output.
const WorkbookFile = "nitroviz_tables.xlsx"

// Config controls a generation run.
type Config struct {
	// DataDir holds the four input files.
	DataDir string

	// OutputDir receives the pages and side outputs.
	OutputDir string

	// Generators names the generators to run. Empty means all, in
	// registration order.
	Generators []string

	// Parallel is the number of generators run at once. Values below 2
	// run sequentially.
	Parallel int

	// XLSX writes every page's tables to a single workbook.
	XLSX bool

	// PNG writes a static image of every line-only figure.
	PNG bool

	// Theme overrides the default colors.
	Theme *style.Theme

	// Version is stamped into each page.
	Version string

	// FS and GitOpener default to the real implementations.
	FS        testable.FileSystem
	GitOpener testable.GitOpener
}

// GeneratorResult records the outcome of one generator.
type GeneratorResult struct {
	Generator string
	Path      string
	Figures   int
	Tables    int
	PNGs      []string
	Duration  time.Duration
	Err       error

	doc *render.Document
}

// Result aggregates a run.
type Result struct {
	RunID    string
	Revision string
	Results  []GeneratorResult
	Workbook string
	Duration time.Duration
}

// Pipeline runs a fixed list of generators.
type Pipeline struct {
	config     Config
	generators []viz.Generator
}

// New creates a Pipeline from config, resolving generators from the
// global registry. An unknown name is an error.
func New(config Config) (*Pipeline, error) {
	gens, err := resolveGenerators(config.Generators)
	if err != nil {
		return nil, err
	}
	return &Pipeline{config: config, generators: gens}, nil
}

// NewWithGenerators creates a Pipeline with explicitly provided generators,
// bypassing the global registry. This is primarily useful for testing.
func NewWithGenerators(config Config, generators []viz.Generator) *Pipeline {
	return &Pipeline{config: config, generators: generators}
}

// Run generates every page. Any failure is fatal: the first error cancels
// generators that have not started and is returned along with the results
// gathered so far. A failed generator writes no file.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}

	rev, err := provenance.Revision(p.config.GitOpener, p.config.DataDir)
	if err != nil {
		slog.Warn("could not determine data revision", "dir", p.config.DataDir, "error", err)
	}
	res.Revision = rev

	env := &viz.Env{
		Loader: &dataset.Loader{FS: p.config.FS},
		Paths:  dataset.PathsIn(p.config.DataDir),
		Theme:  p.config.Theme,
	}
	renderer := render.NewHTMLRenderer(p.config.Version)
	slog.Info("generating", "run", res.RunID, "generators", len(p.generators), "parallel", p.config.Parallel)

	res.Results = make([]GeneratorResult, len(p.generators))
	if p.config.Parallel > 1 {
		err = p.runParallel(ctx, env, renderer, res)
	} else {
		err = p.runSequential(ctx, env, renderer, res)
	}
	if err == nil && p.config.XLSX {
		err = p.writeWorkbook(res)
	}
	res.Duration = time.Since(start)
	return res, err
}

func (p *Pipeline) runSequential(ctx context.Context, env *viz.Env, r *render.HTMLRenderer, res *Result) error {
	for i, g := range p.generators {
		res.Results[i] = p.runGenerator(ctx, g, env, r, res)
		if err := res.Results[i].Err; err != nil {
			res.Results = res.Results[:i+1]
			return err
		}
	}
	return nil
}

// runParallel keeps results in generator order regardless of completion
// order.
func (p *Pipeline) runParallel(ctx context.Context, env *viz.Env, r *render.HTMLRenderer, res *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Parallel)
	for i, gen := range p.generators {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res.Results[i] = GeneratorResult{Generator: gen.Name(), Err: err}
				return err
			}
			res.Results[i] = p.runGenerator(gctx, gen, env, r, res)
			return res.Results[i].Err
		})
	}
	return g.Wait()
}

// runGenerator builds one page and writes it with its PNGs.
func (p *Pipeline) runGenerator(ctx context.Context, g viz.Generator, env *viz.Env, r *render.HTMLRenderer, res *Result) GeneratorResult {
	start := time.Now()
	out := GeneratorResult{Generator: g.Name(), Path: filepath.Join(p.config.OutputDir, g.OutputFile())}

	doc, err := g.Generate(ctx, env)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", g.Name(), err)
		out.Duration = time.Since(start)
		return out
	}
	doc.RunID = res.RunID
	doc.Revision = res.Revision
	out.doc = doc
	out.Figures = len(doc.Figures())
	out.Tables = len(doc.Tables())

	if err := render.WriteFile(p.config.FS, out.Path, doc, r); err != nil {
		out.Err = fmt.Errorf("%s: %w", g.Name(), err)
		out.Duration = time.Since(start)
		return out
	}

	if p.config.PNG {
		stem := strings.TrimSuffix(g.OutputFile(), filepath.Ext(g.OutputFile()))
		for i, f := range doc.Figures() {
			path := filepath.Join(p.config.OutputDir, fmt.Sprintf("%s_fig%d.png", stem, i+1))
			ok, err := export.WritePNG(p.config.FS, path, f)
			if err != nil {
				out.Err = fmt.Errorf("%s: figure %d: %w", g.Name(), i+1, err)
				break
			}
			if ok {
				out.PNGs = append(out.PNGs, path)
			}
		}
	}

	out.Duration = time.Since(start)
	slog.Info("wrote visualization", "generator", g.Name(), "path", out.Path,
		"figures", out.Figures, "tables", out.Tables, "duration", out.Duration.Round(time.Millisecond))
	return out
}

func (p *Pipeline) writeWorkbook(res *Result) error {
	pages := make([]export.Page, 0, len(res.Results))
	for _, r := range res.Results {
		if r.doc == nil {
			continue
		}
		pages = append(pages, export.Page{Name: r.Generator, Tables: r.doc.Tables()})
	}
	path := filepath.Join(p.config.OutputDir, WorkbookFile)
	if err := export.WriteWorkbook(p.config.FS, path, pages); err != nil {
		return err
	}
	res.Workbook = path
	slog.Info("wrote workbook", "path", path, "sheets", countTables(pages))
	return nil
}

func countTables(pages []export.Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Tables)
	}
	return n
}

// resolveGenerators looks up generators by name from the global registry.
// If names is empty, all registered generators are returned in
// registration order. Duplicate names run once.
func resolveGenerators(names []string) ([]viz.Generator, error) {
	if len(names) == 0 {
		names = viz.List()
	}
	seen := make(map[string]bool, len(names))
	gens := make([]viz.Generator, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		g := viz.Get(name)
		if g == nil {
			return nil, fmt.Errorf("unknown visualization: %q", name)
		}
		gens = append(gens, g)
	}
	return gens, nil
}
