package viz

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"time"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/render"
)

// The NPK analysis window shared by the classification and ratio pages.
var (
	windowStart = metrics.Date(2022, time.August, 1)
	windowEnd   = metrics.Date(2024, time.August, 31)
	recentStart = metrics.Date(2023, time.August, 1)
)

// zeroTime leaves a loadNPK bound open.
var zeroTime time.Time

func newDocument(title, heading, subtitle string) *render.Document {
	return &render.Document{Title: title, Heading: heading, Subtitle: subtitle}
}

// colored wraps text in a bold span of color c.
func colored(c, text string) template.HTML {
	return template.HTML(fmt.Sprintf(`<strong style="color: %s;">%s</strong>`, //nolint:gosec // both values escaped
		html.EscapeString(c), html.EscapeString(text)))
}

// titled builds a figure title with a smaller second line.
func titled(main, sub string) string {
	if sub == "" {
		return main
	}
	return main + "<br><sup>" + sub + "</sup>"
}

func monthYear(t time.Time) string { return t.Format("Jan 2006") }

// loadNPK reads the NPK experiment table, optionally restricted to
// [from, to]. Zero bounds leave the table unfiltered.
func loadNPK(ctx context.Context, env *Env, from, to time.Time) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := env.loader().LoadNPK(env.Paths.NPK)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() || !to.IsZero() {
		if to.IsZero() {
			to = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
		}
		if t, err = metrics.Between(t, from, to); err != nil {
			return nil, err
		}
	}
	slog.Debug("loaded NPK samples", "rows", t.Len(), "from", dateOrEmpty(from), "to", dateOrEmpty(to))
	return t, nil
}

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return chart.Day(t)
}

func lineMarkers(name string, x, y any, c string, width float64) chart.Trace {
	tr := chart.Scatter(name, x, y, "lines+markers")
	tr.Line = &chart.Line{Color: c, Width: width}
	tr.Marker = &chart.Marker{Size: 6, Color: c}
	return tr
}

func arrow(x, y any, text string, ax, ay float64, c string) chart.Annotation {
	return chart.Annotation{
		X: x, Y: y, Text: text,
		ShowArrow: chart.Bool(true), ArrowHead: 2,
		AX: chart.Float(ax), AY: chart.Float(ay),
		Font: &chart.Font{Size: 10, Color: c},
	}
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }
func f1(v float64) string { return fmt.Sprintf("%.1f", v) }
func f4(v float64) string { return fmt.Sprintf("%.4f", v) }

// htmlf formats trusted markup. Arguments must not carry user input.
func htmlf(format string, args ...any) template.HTML {
	return template.HTML(fmt.Sprintf(format, args...)) //nolint:gosec // arguments are numbers and fixed labels
}

// pointSeries splits monthly means into mid-month dates and values.
func pointSeries(pts []metrics.Point) ([]string, []float64) {
	dates := make([]string, len(pts))
	means := make([]float64, len(pts))
	for i, p := range pts {
		dates[i] = chart.Day(p.Month.Mid())
		means[i] = p.Mean
	}
	return dates, means
}
