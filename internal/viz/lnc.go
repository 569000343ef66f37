package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
)

// Plot limits for the open-ended Deficient and Excess bands.
const (
	lncFloor   = 1.5
	lncCeiling = 4.2
)

const boundaryLineColor = "rgba(60, 60, 60, 0.7)"

type lncClassification struct{}

func (lncClassification) Name() string       { return "lnc-classification" }
func (lncClassification) OutputFile() string { return "lnc_classification.html" }
func (lncClassification) Description() string {
	return "Leaf nitrogen by treatment against seasonally scaled UC Davis bands"
}

func (g lncClassification) Generate(ctx context.Context, env *Env) (*render.Document, error) {
	t, err := loadNPK(ctx, env, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	byTreatment, err := metrics.MeanByTreatmentMonth(t, dataset.ColN)
	if err != nil {
		return nil, err
	}
	curve := metrics.ThresholdCurve(
		metrics.YearMonth{Year: 2022, Month: time.July},
		metrics.YearMonth{Year: 2024, Month: time.September},
	)
	slog.Debug("threshold curve", "generator", g.Name(), "points", len(curve), "treatments", len(byTreatment))

	doc := newDocument("Visualization 5: LNC Status Classification", "LNC Status Classification",
		"Leaf Nitrogen Content assessment using UC Davis thresholds")
	doc.Add(
		render.Box("intro-box",
			render.H3("Understanding LNC Classification"),
			render.P(`<strong>Leaf Nitrogen Content (LNC)</strong> is the standard measure for assessing plant nitrogen status.
The University of California, Davis has established reference thresholds for citrus based on
extensive research and field trials.`),
			render.P("These thresholds vary seasonally due to:"),
			render.List(
				"<strong>Dilution effect:</strong> Rapid leaf growth in spring dilutes nitrogen concentration",
				"<strong>Concentration effect:</strong> Slower growth in winter concentrates nitrogen",
				"<strong>Phenological timing:</strong> Nitrogen demand varies with growth stages",
			),
		),
		render.H2("5.1 UC Davis Thresholds"),
		render.Section(
			render.P("The following thresholds are based on October reference values (when seasonal variation is minimal):"),
			render.Table(octoberTable(style.OctoberThresholds)),
			render.Box("methodology",
				render.H4("Color Coding Rationale"),
				render.List(
					colored(style.Deficient.Hex(), "Blue = Deficient/Low")+" Cold colors indicate deficiency, signaling need for action",
					colored(style.Optimum.Hex(), "Teal = Optimum")+" Calm, balanced color for ideal status",
					colored(style.High.Hex(), "Orange = High")+" Warm colors indicate excess",
					colored(style.Excess.Hex(), "Red = Excess")+" Alert color for over-fertilization",
				),
			),
		),
		render.H3("Seasonal Adjustment Factors"),
		render.Section(
			render.P("Thresholds are adjusted monthly based on seasonal nitrogen dynamics:"),
			render.Table(seasonalFactorTable()),
			render.Box("key-observations",
				render.H4("Seasonal Pattern"),
				render.List(
					"<strong>Winter (Dec-Feb):</strong> Factors ~1.08-1.12 (higher thresholds)",
					"<strong>Spring (Mar-May):</strong> Factors ~0.91-1.02 (lower thresholds, especially May)",
					"<strong>Summer (Jun-Aug):</strong> Factors ~0.92-1.02 (variable)",
					"<strong>Fall (Sep-Nov):</strong> Factors ~1.00-1.09 (returning to baseline)",
				),
			),
		),
		render.H2("5.2 LNC Status Classification"),
		render.Section(
			render.P(`The following visualization shows how each treatment group's nitrogen levels compare
against the seasonally-adjusted UC Davis thresholds:`),
			render.Figure(classificationFigure(env.theme(), t, curve, byTreatment)),
			render.Box("key-observations",
				render.H4("Key Observations"),
				render.List(
					`<strong>Ceiling Effect:</strong> High-N treatments (N100, N150) cluster together in the Excess zone,
suggesting a physiological upper limit to nitrogen accumulation in leaves regardless of fertilization rate`,
					`<strong>Treatment Separation:</strong> Lower treatments (N10, N40, N60) show clearer differentiation,
with N10 occasionally dropping into the Low/Optimum zones during spring months`,
					`<strong>Seasonal Wave:</strong> All treatments follow the same seasonal wave pattern, higher in winter
and lower in spring/early summer, validating the seasonal adjustment approach`,
					`<strong>Optimum Range:</strong> N60 (the agronomic optimum treatment) largely stays within or
above the Optimum range throughout the year`,
				),
			),
		),
		render.H3("Band Occupancy"),
		render.Section(
			render.P("Number of monthly treatment means falling in each band, classified against that month's thresholds:"),
			render.Table(occupancyTable(byTreatment)),
		),
		render.Box("warning-box",
			render.H4("Limitation of LNC-Only Assessment"),
			render.P("While LNC classification is valuable, it has an important limitation:"),
			render.P(`<strong>LNC peaks in winter</strong> when leaf growth slows, not necessarily when the plant
needs fertilization. This "concentration effect" can be misleading for fertilization timing decisions.`),
			render.P(`This is why we explore the <strong>N/ST ratio</strong> in the next visualization. It combines
nitrogen status with starch reserves to provide a more complete picture of plant metabolic status.`),
		),
		render.Box("discovery-box",
			render.H3("Summary: LNC Classification Insights"),
			render.List(
				"<strong>UC Davis thresholds are reliable</strong> when adjusted for seasonal patterns",
				"<strong>Treatment response is clear:</strong> Higher N fertilization → higher LNC (up to a ceiling)",
				"<strong>Seasonal adjustment is essential:</strong> Raw LNC values without seasonal context can mislead",
				"<strong>LNC alone is insufficient:</strong> For fertilization timing, we need additional metrics like the N/ST ratio",
			),
		),
	)
	return doc, nil
}

var bandNotes = map[style.Band][2]string{
	style.Deficient: {"Severe nitrogen deficiency", "Immediate fertilization required"},
	style.Low:       {"Suboptimal nitrogen levels", "Consider supplemental fertilization"},
	style.Optimum:   {"Ideal range for citrus", "Maintain current program"},
	style.High:      {"Above optimal", "Monitor, may reduce fertilization"},
	style.Excess:    {"Excessive nitrogen", "Reduce fertilization to avoid waste"},
}

// bandRange describes band b in words, e.g. "2.64 - 2.88%".
func bandRange(th style.Thresholds, b style.Band) string {
	lo, hi := th.Bounds(b, 0, 0)
	switch b {
	case style.Deficient:
		return fmt.Sprintf("< %.2f%%", hi)
	case style.Excess:
		return fmt.Sprintf("> %.2f%%", lo)
	default:
		return fmt.Sprintf("%.2f - %.2f%%", lo, hi)
	}
}

func octoberTable(th style.Thresholds) *chart.Table {
	tbl := chart.NewTable("UC Davis Thresholds", "LNC Category", "October Threshold", "Description", "Agronomic Implication")
	for _, b := range style.Bands {
		notes := bandNotes[b]
		row := tbl.AddCells(
			chart.TableCell{Text: b.String(), Color: b.Hex(), Bold: true},
			chart.TableCell{Text: bandRange(th, b)},
			chart.TableCell{Text: notes[0]},
			chart.TableCell{Text: notes[1]},
		)
		row.Background = style.MustRGBA(b.Hex(), 0.3)
	}
	return tbl
}

// factorColor shades a seasonal factor: red when thresholds rise notably,
// blue when they fall, teal otherwise.
func factorColor(f float64) string {
	switch {
	case f > 1.05:
		return "rgba(255, 107, 107, 0.3)"
	case f < 0.95:
		return "rgba(135, 206, 250, 0.3)"
	default:
		return "rgba(78, 205, 196, 0.3)"
	}
}

func seasonalFactorTable() *chart.Table {
	headers := append([]string{"Month"}, style.MonthLabels...)
	tbl := chart.NewTable("Seasonal Factors", headers...)

	factors := []chart.TableCell{{Text: "Factor", Bold: true}}
	optLow := []chart.TableCell{{Text: "Optimum Low", Bold: true}}
	optHigh := []chart.TableCell{{Text: "Optimum High", Bold: true}}
	for m := time.January; m <= time.December; m++ {
		f := style.MonthlyFactors[m]
		th := style.ForMonth(m)
		factors = append(factors, chart.TableCell{Text: strconv.FormatFloat(f, 'f', 3, 64), Background: factorColor(f)})
		optLow = append(optLow, chart.TableCell{Text: f2(th.LowOptimum) + "%"})
		optHigh = append(optHigh, chart.TableCell{Text: f2(th.OptimumHigh) + "%"})
	}
	tbl.AddCells(factors...)
	tbl.AddCells(optLow...)
	tbl.AddCells(optHigh...)
	return tbl
}

// bandTrace draws one boundary curve filled down to the previous trace.
func bandTrace(name string, x []string, y []float64, fill, hover string) chart.Trace {
	tr := chart.Scatter(name, x, y, "lines")
	tr.Line = &chart.Line{Color: boundaryLineColor, Width: 1.5, Shape: "spline"}
	tr.Fill = "tonexty"
	tr.FillColor = fill
	tr.HoverTemplate = hover
	return tr
}

func classificationFigure(theme *style.Theme, t *dataset.Table, curve []metrics.ThresholdPoint, byTreatment map[string][]metrics.Point) *chart.Figure {
	x := make([]string, len(curve))
	boundary := func(get func(style.Thresholds) float64) []float64 {
		out := make([]float64, len(curve))
		for i, p := range curve {
			out[i] = get(p.Thresholds)
		}
		return out
	}
	flat := func(v float64) []float64 {
		out := make([]float64, len(curve))
		for i := range out {
			out[i] = v
		}
		return out
	}
	for i, p := range curve {
		x[i] = chart.Day(p.Month.Mid())
	}

	f := chart.New(titled(
		"5.2 LNC Status Classification ("+monthYear(windowStart)+" - "+monthYear(windowEnd)+")",
		"UC Davis October thresholds scaled by seasonal pattern | Actual observations shown",
	))

	floor := chart.Scatter("_floor", x, flat(lncFloor), "lines")
	floor.Line = &chart.Line{Color: chart.Transparent, Shape: "spline"}
	floor.ShowLegend = chart.Bool(false)
	floor.HoverInfo = "skip"
	f.Add(floor)

	oct := style.OctoberThresholds
	label := func(b style.Band) string { return fmt.Sprintf("%s (%s)", b, bandRange(oct, b)) }
	f.Add(
		bandTrace(label(style.Deficient), x, boundary(func(th style.Thresholds) float64 { return th.DeficientLow }),
			style.Deficient.Color(), "Deficient/Low boundary: %{y:.2f}%<extra></extra>"),
		bandTrace(label(style.Low), x, boundary(func(th style.Thresholds) float64 { return th.LowOptimum }),
			style.Low.Color(), "Low/Optimum boundary: %{y:.2f}%<extra></extra>"),
		bandTrace(label(style.Optimum), x, boundary(func(th style.Thresholds) float64 { return th.OptimumHigh }),
			style.Optimum.Color(), "Optimum/High boundary: %{y:.2f}%<extra></extra>"),
		bandTrace(label(style.High), x, boundary(func(th style.Thresholds) float64 { return th.HighExcess }),
			style.High.Color(), "High/Excess boundary: %{y:.2f}%<extra></extra>"),
	)
	ceiling := bandTrace(label(style.Excess), x, flat(lncCeiling), style.Excess.Color(), "")
	ceiling.Line = &chart.Line{Color: chart.Transparent, Shape: "spline"}
	ceiling.HoverInfo = "skip"
	f.Add(ceiling)

	for _, tr := range style.Treatments {
		pts, ok := byTreatment[tr.Label]
		if !ok {
			continue
		}
		dates, means := pointSeries(pts)
		line := lineMarkers(tr.Label, dates, means, theme.Treatment(tr.Label), 2)
		line.HoverTemplate = tr.Label + "<br>%{x|%B %Y}<br>N: %{y:.2f}%<extra></extra>"
		f.Add(line)
	}

	f.Layout.Shapes = append(f.Layout.Shapes, chart.Shape{
		Type: "line", XRef: "x", YRef: "y",
		X0: chart.Day(recentStart), X1: chart.Day(recentStart), Y0: lncFloor, Y1: lncCeiling,
		Line: &chart.Line{Color: "black", Width: 1.5, Dash: "dash"},
	})
	f.Annotate(chart.Annotation{
		X: chart.Day(recentStart), Y: 4.1, Text: "August 2023",
		ShowArrow: chart.Bool(false), Font: &chart.Font{Size: 10, Color: "black"},
	})

	f.Layout.Height = 700
	f.Layout.HoverMode = "x unified"
	f.Layout.Legend = &chart.Legend{Orientation: "h", X: chart.Float(0.5), Y: chart.Float(-0.15), XAnchor: "center", YAnchor: "top"}
	xa := f.Layout.XAxis()
	xa.Title = chart.AxisTitle("Date")
	xa.TickFormat = "%b %Y"
	xa.DTick = "M2"
	if lo, hi, ok := dateSpan(t.Samples); ok {
		xa.Range = chart.Range(chart.Day(lo), chart.Day(hi))
	}
	f.Layout.YAxis().Title = chart.AxisTitle("N_Value (%)")
	f.Layout.YAxis().Range = chart.Range(lncFloor, lncCeiling)
	return f
}

// dateSpan returns the earliest and latest sample dates.
func dateSpan(samples []dataset.Sample) (lo, hi time.Time, ok bool) {
	for _, s := range samples {
		if !s.HasDate() {
			continue
		}
		if !ok || s.Date.Before(lo) {
			lo = s.Date
		}
		if !ok || s.Date.After(hi) {
			hi = s.Date
		}
		ok = true
	}
	return lo, hi, ok
}

func occupancyTable(byTreatment map[string][]metrics.Point) *chart.Table {
	headers := []string{"Treatment"}
	for _, b := range style.Bands {
		headers = append(headers, b.String())
	}
	headers = append(headers, "Months")
	tbl := chart.NewTable("Band Occupancy", headers...)
	for _, tr := range style.Treatments {
		pts, ok := byTreatment[tr.Label]
		if !ok {
			continue
		}
		counts := metrics.Occupancy(pts)
		cells := []chart.TableCell{{Text: tr.Label, Bold: true}}
		for _, b := range style.Bands {
			c := chart.TableCell{Text: strconv.Itoa(counts[b])}
			if counts[b] > 0 {
				c.Background = b.Color()
			}
			cells = append(cells, c)
		}
		cells = append(cells, chart.TableCell{Text: strconv.Itoa(counts.Total())})
		tbl.AddCells(cells...)
	}
	return tbl
}
