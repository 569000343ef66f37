package export

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
	"github.com/davetashner/nitroviz/internal/testable"
)

// PNG canvas size.
const (
	pngWidth  = 12 * vg.Inch
	pngHeight = 6 * vg.Inch
)

// LineOnly reports whether every trace of f is a visible single-panel
// scatter drawn with lines. Only such figures have a static rendering.
func LineOnly(f *chart.Figure) bool {
	if f == nil || len(f.Data) == 0 {
		return false
	}
	for _, tr := range f.Data {
		if tr.Type != "scatter" || !strings.Contains(tr.Mode, "lines") {
			return false
		}
		if tr.XAxis != "" || tr.YAxis != "" {
			return false
		}
	}
	return true
}

// Plot converts a line-only figure into a gonum plot. Hidden and
// transparent traces are skipped, as are points with a missing value.
func Plot(f *chart.Figure) (*plot.Plot, error) {
	if !LineOnly(f) {
		return nil, fmt.Errorf("figure is not line-only")
	}
	p := plot.New()
	if f.Layout.Title != nil {
		p.Title.Text = plainTitle(f.Layout.Title.Text)
	}
	if a := f.Layout.Axes["xaxis"]; a != nil && a.Title != nil {
		p.X.Label.Text = a.Title.Text
	}
	if a := f.Layout.Axes["yaxis"]; a != nil && a.Title != nil {
		p.Y.Label.Text = a.Title.Text
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	dates := false
	for _, tr := range f.Data {
		if tr.Visible != nil && !*tr.Visible {
			continue
		}
		c := traceColor(tr)
		if _, _, _, a := c.RGBA(); a == 0 {
			continue
		}
		xs, isDate, err := numbers(tr.X)
		if err != nil {
			return nil, fmt.Errorf("trace %q x: %w", tr.Name, err)
		}
		ys, _, err := numbers(tr.Y)
		if err != nil {
			return nil, fmt.Errorf("trace %q y: %w", tr.Name, err)
		}
		dates = dates || isDate

		var xys plotter.XYs
		for i := 0; i < len(xs) && i < len(ys); i++ {
			if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				continue
			}
			xys = append(xys, plotter.XY{X: xs[i], Y: ys[i]})
		}
		if len(xys) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("trace %q: %w", tr.Name, err)
		}
		line.LineStyle = draw.LineStyle{Color: c, Width: vg.Points(lineWidth(tr))}
		if tr.Line != nil && tr.Line.Dash != "" {
			line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		}
		p.Add(line)
		if tr.Name != "" && (tr.ShowLegend == nil || *tr.ShowLegend) {
			p.Legend.Add(tr.Name, line)
		}
	}
	if dates {
		p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2006"}
	}
	return p, nil
}

// WritePNG renders f to path. It returns false without writing when f is
// not line-only.
func WritePNG(fsys testable.FileSystem, path string, f *chart.Figure) (bool, error) {
	if !LineOnly(f) {
		return false, nil
	}
	p, err := Plot(f)
	if err != nil {
		return false, err
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return false, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return false, fmt.Errorf("%s: %w: %v", path, render.ErrWrite, err)
	}
	return true, render.WriteAtomic(fsys, path, buf.Bytes())
}

// plainTitle keeps the first line of a figure title, without markup.
func plainTitle(s string) string {
	if i := strings.Index(s, "<br>"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func lineWidth(tr chart.Trace) float64 {
	if tr.Line != nil && tr.Line.Width > 0 {
		return tr.Line.Width
	}
	return 1.5
}

func traceColor(tr chart.Trace) color.Color {
	var c string
	switch {
	case tr.Line != nil && tr.Line.Color != "":
		c = tr.Line.Color
	case tr.Marker != nil:
		c, _ = tr.Marker.Color.(string)
	}
	if rgba, ok := parseColor(c); ok {
		if tr.Opacity > 0 && tr.Opacity < 1 {
			rgba.A = uint8(float64(rgba.A) * tr.Opacity)
		}
		return rgba
	}
	return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
}

// parseColor understands the two color notations the charts use:
// "#rrggbb" and "rgba(r, g, b, a)".
func parseColor(s string) (color.NRGBA, bool) {
	if r, g, b, err := style.ParseHex(s); err == nil {
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
	}
	var r, g, b uint8
	var a float64
	if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err == nil {
		return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}, true
	}
	return color.NRGBA{}, false
}

// categories places n categorical labels at 0..n-1.
func categories(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// numbers converts a trace coordinate slice to floats. Date strings become
// Unix seconds, which is what plot.TimeTicks expects; other strings are
// treated as categories. Missing values are NaN.
func numbers(v any) ([]float64, bool, error) {
	switch vs := v.(type) {
	case []float64:
		return vs, false, nil
	case []int:
		out := make([]float64, len(vs))
		for i, n := range vs {
			out[i] = float64(n)
		}
		return out, false, nil
	case []string:
		out := make([]float64, len(vs))
		for i, s := range vs {
			t, err := time.Parse(chart.DateLayout, s)
			if err != nil {
				return categories(len(vs)), false, nil
			}
			out[i] = float64(t.Unix())
		}
		return out, true, nil
	case []any:
		out := make([]float64, len(vs))
		for i, x := range vs {
			switch n := x.(type) {
			case float64:
				out[i] = n
			case int:
				out[i] = float64(n)
			default:
				out[i] = math.NaN()
			}
		}
		return out, false, nil
	}
	return nil, false, fmt.Errorf("unsupported values %T", v)
}
