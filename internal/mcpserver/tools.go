package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/nitroviz/internal/config"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/pipeline"
	"github.com/davetashner/nitroviz/internal/viz"
)

// dateLayout is the format of the nst_summary bounds.
const dateLayout = "2006-01-02"

// ListInput is the input schema for the list_visualizations MCP tool.
type ListInput struct{}

// GenerateInput is the input schema for the generate_visualization MCP tool.
type GenerateInput struct {
	Path           string `json:"path" jsonschema:"Project directory; relative data and output dirs are resolved against its config root (defaults to current directory)"`
	Visualizations string `json:"visualizations,omitempty" jsonschema:"Comma-separated list of visualizations to generate (default: all)"`
	DataDir        string `json:"data_dir,omitempty" jsonschema:"Directory holding the input files (default: data)"`
	OutputDir      string `json:"output_dir,omitempty" jsonschema:"Directory receiving the HTML pages (default: output)"`
	Parallel       int    `json:"parallel,omitempty" jsonschema:"Number of generators run at once (0 or 1 = sequential)"`
	XLSX           bool   `json:"xlsx,omitempty" jsonschema:"Also write every table to an Excel workbook"`
	PNG            bool   `json:"png,omitempty" jsonschema:"Also write a PNG of every line-only figure"`
}

// NSTInput is the input schema for the nst_summary MCP tool.
type NSTInput struct {
	Path    string `json:"path" jsonschema:"Project directory (defaults to current directory)"`
	DataDir string `json:"data_dir,omitempty" jsonschema:"Directory holding the NPK CSV (default: data)"`
	From    string `json:"from,omitempty" jsonschema:"Only include samples dated on or after this day (YYYY-MM-DD)"`
	To      string `json:"to,omitempty" jsonschema:"Only include samples dated on or before this day (YYYY-MM-DD)"`
}

// VisualizationJSON describes one registered generator.
type VisualizationJSON struct {
	Name        string `json:"name"`
	OutputFile  string `json:"output_file"`
	Description string `json:"description"`
}

// GenerateJSON reports a generation run.
type GenerateJSON struct {
	RunID    string     `json:"run_id"`
	Revision string     `json:"revision,omitempty"`
	Duration string     `json:"duration"`
	Pages    []PageJSON `json:"pages"`
	Workbook string     `json:"workbook,omitempty"`
}

// PageJSON reports one written page.
type PageJSON struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Figures  int      `json:"figures"`
	Tables   int      `json:"tables"`
	PNGs     []string `json:"pngs,omitempty"`
	Duration string   `json:"duration"`
}

// NSTMonthJSON is one month of the N/ST summary.
type NSTMonthJSON struct {
	Month     string  `json:"month"`
	N         float64 `json:"n"`
	ST        float64 `json:"st"`
	Ratio     float64 `json:"ratio"`
	NNorm     float64 `json:"n_norm"`
	STNorm    float64 `json:"st_norm"`
	RatioNorm float64 `json:"ratio_norm"`
}

// NSTSummaryJSON is the nst_summary result.
type NSTSummaryJSON struct {
	Months    []NSTMonthJSON `json:"months"`
	PeakRatio string         `json:"peak_ratio,omitempty"`
}

// tools carries what the handlers need beyond their input.
type tools struct {
	version string
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all nitroviz tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_visualizations",
		Description: "List the available visualization pages with their output file names.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleList)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_visualization",
		Description: "Generate standalone interactive HTML pages from the NIR dataset. Existing pages with the same name are replaced.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "nst_summary",
		Description: "Monthly mean N, mean ST, and N/ST ratio from the NPK experiment, raw and normalized to 0-100.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleNSTSummary)
}

func (t *tools) handleList(_ context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, any, error) {
	var out []VisualizationJSON
	for _, name := range viz.List() {
		g := viz.Get(name)
		out = append(out, VisualizationJSON{Name: g.Name(), OutputFile: g.OutputFile(), Description: g.Description()})
	}
	return jsonResult(out)
}

func (t *tools) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}
	if input.Parallel < 0 {
		return nil, nil, fmt.Errorf("parallel must be non-negative, got %d", input.Parallel)
	}

	fileCfg, err := config.Load(pathInfo.ProjectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(fileCfg); err != nil {
		return nil, nil, err
	}

	cfg := config.Merge(fileCfg, pipeline.Config{
		DataDir:    input.DataDir,
		OutputDir:  input.OutputDir,
		Generators: splitAndTrim(input.Visualizations),
		Parallel:   input.Parallel,
		XLSX:       input.XLSX,
		PNG:        input.PNG,
		Version:    t.version,
	})
	cfg.DataDir = under(pathInfo.ProjectRoot, cfg.DataDir)
	cfg.OutputDir = under(pathInfo.ProjectRoot, cfg.OutputDir)

	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%v (available: %s)", err, strings.Join(viz.List(), ", "))
	}
	res, err := p.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("generation failed: %w", err)
	}

	out := GenerateJSON{
		RunID:    res.RunID,
		Revision: res.Revision,
		Duration: res.Duration.Round(time.Millisecond).String(),
		Workbook: res.Workbook,
	}
	for _, r := range res.Results {
		out.Pages = append(out.Pages, PageJSON{
			Name:     r.Generator,
			Path:     r.Path,
			Figures:  r.Figures,
			Tables:   r.Tables,
			PNGs:     r.PNGs,
			Duration: r.Duration.Round(time.Millisecond).String(),
		})
	}
	return jsonResult(out)
}

func (t *tools) handleNSTSummary(ctx context.Context, _ *mcp.CallToolRequest, input NSTInput) (*mcp.CallToolResult, any, error) {
	pathInfo, err := ResolvePath(input.Path)
	if err != nil {
		return nil, nil, err
	}
	from, err := parseDay("from", input.From)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDay("to", input.To)
	if err != nil {
		return nil, nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, nil, fmt.Errorf("to (%s) is before from (%s)", input.To, input.From)
	}

	fileCfg, err := config.Load(pathInfo.ProjectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Merge(fileCfg, pipeline.Config{DataDir: input.DataDir})

	series, err := viz.NSTSeries(ctx, viz.NewEnv(under(pathInfo.ProjectRoot, cfg.DataDir)), from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("nst summary: %w", err)
	}

	out := NSTSummaryJSON{Months: make([]NSTMonthJSON, 0, len(series.Points))}
	for i, p := range series.Points {
		out.Months = append(out.Months, NSTMonthJSON{
			Month: p.Month.String(), N: p.N, ST: p.ST, Ratio: p.Ratio,
			NNorm: series.NNorm[i], STNorm: series.STNorm[i], RatioNorm: series.RatioNorm[i],
		})
	}
	if i := metrics.ArgMax(series.Column("Ratio")); i >= 0 {
		out.PeakRatio = series.Points[i].Month.String()
	}
	return jsonResult(out)
}

func parseDay(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD, got %q", field, s)
	}
	return d, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("JSON marshal: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
