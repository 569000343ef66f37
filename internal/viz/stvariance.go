package viz

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
)

const (
	starchGreen    = "#2ECC71"
	depletedFill   = "rgba(173, 216, 230, 0.3)"
	depletedYear   = 2022
	overallMeanHex = "#2980b9"
)

var (
	depletedStart = metrics.Date(2022, time.May, 1)
	depletedEnd   = metrics.Date(2023, time.April, 30)
)

type stVariance struct{}

func (stVariance) Name() string       { return "st-variance" }
func (stVariance) OutputFile() string { return "st_variance_analysis.html" }
func (stVariance) Description() string {
	return "Starch variance by month, treatment, and year revealing the year effect"
}

func (g stVariance) Generate(ctx context.Context, env *Env) (*render.Document, error) {
	t, err := loadNPK(ctx, env, zeroTime, zeroTime)
	if err != nil {
		return nil, err
	}
	seasonal, err := metrics.SeasonalValues(t, dataset.ColST)
	if err != nil {
		return nil, err
	}
	timeline, err := metrics.MeanByTreatmentMonth(t, dataset.ColST)
	if err != nil {
		return nil, err
	}
	byYear, err := metrics.ValuesByYear(t, dataset.ColST)
	if err != nil {
		return nil, err
	}
	years := slices.Sorted(maps.Keys(byYear))
	yearStats, err := metrics.SummarizeYears(t, dataset.ColST, years)
	if err != nil {
		return nil, err
	}
	overall, _ := metrics.Mean(metrics.Values(t.Samples, dataset.ColST))
	yearPanels, err := yearBoxFigure(env.theme(), t)
	if err != nil {
		return nil, err
	}
	slog.Debug("starch variance", "generator", g.Name(), "months", len(seasonal), "years", len(years))

	doc := newDocument("Visualization 4: ST Variance Analysis", "ST Variance Analysis",
		"Discovering why starch values show unexpectedly high variance")
	doc.Add(
		render.Box("warning-box",
			render.H3("The Problem"),
			render.P("While analyzing the NPK experiment data, we observed something unexpected:"),
			render.List(
				"<strong>High variance</strong> in ST values within certain months",
				"Monthly ST averages were <strong>nearly identical</strong> across all 5 nitrogen treatments",
				"Treatment groups showed <strong>no clear differentiation</strong> in their starch values",
			),
			render.P(`<strong>Question: If nitrogen treatment isn't driving the ST variance, what is?</strong>`),
		),
		render.H2("4.1 Monthly ST Variance Overview"),
		render.Section(
			render.P(`The box plots below show ST value distributions for each month. Notice the substantial
variance in months like January, February, July, October, and November.`),
			render.Figure(seasonalBoxFigure(seasonal)),
			render.Box("key-observations",
				render.H4("Key Observations"),
				render.List(
					"Some months show ST ranges from 30-200 mg/g, a 6x difference!",
					"The green line shows the monthly mean, but high variance means this is less meaningful",
					"This variance cannot be explained by treatment differences alone",
				),
			),
		),
		render.H2("4.2 ST Timeline by Treatment"),
		render.Section(
			render.P("Plotting ST values over time for each treatment reveals a striking pattern:"),
			render.Figure(starchTimelineFigure(env.theme(), timeline, overall)),
			render.Box("methodology",
				render.H4("Critical Finding"),
				render.P("All 5 treatment groups follow the <strong>exact same trajectory</strong>. They all:"),
				render.List(
					`Dip during May 2022 - March 2023 (the "Depleted Period" highlighted in blue)`,
					"Recover together starting in mid-2023",
					"Maintain similar levels through 2024",
				),
				render.P(`This synchronized behavior across all treatments suggests an <strong>external environmental factor</strong>
is dominating the starch dynamics.`),
			),
		),
		render.H2("4.3 ST Values by Treatment and Year"),
		render.Section(
			render.P("The definitive proof, comparing treatment groups within each year:"),
			render.Figure(yearPanels),
			render.H4("Year-by-Year Statistics"),
			render.Table(yearStatsTable(env.theme(), yearStats)),
			render.P(htmlf("<em>* %d highlighted as the depleted year</em>", depletedYear)),
		),
		render.Box("discovery-box",
			render.H3("The Discovery: YEAR is the Dominant Factor"),
			render.P(`<strong>2022 was a "starch-depleted" year</strong> where ALL trees (regardless of nitrogen treatment)
showed dramatically lower ST values:`),
			render.List(
				"<strong>2022:</strong> Mean ST ~50-80 mg/g (depleted)",
				"<strong>2023:</strong> Mean ST ~120-160 mg/g (recovered)",
				"<strong>2024:</strong> Mean ST ~100-140 mg/g (stable)",
			),
			render.P(`All 5 treatment groups followed the <em>same</em> pattern. The nitrogen treatment effect
is <strong>overwhelmed by the year effect</strong>.`),
		),
		render.Box("warning-box",
			render.H4("Implications for Analysis"),
			render.P("This discovery has important implications:"),
			render.List(
				"<strong>Cannot ignore year:</strong> Any model predicting ST must account for inter-annual variability",
				`<strong>Environmental factors matter:</strong> Drought, temperature, or other climate factors likely
caused the 2022 depletion`,
				`<strong>N/ST ratio still valuable:</strong> Even though ST is affected by year, the <em>ratio</em>
of N to ST can still indicate relative metabolic status and fertilization needs`,
			),
		),
		render.Box("discovery-box",
			render.H3("Bottom Line"),
			render.P(`<strong>Year-to-year environmental variation is the dominant factor affecting starch reserves,
not nitrogen treatment level.</strong>`),
			render.P(`This must be accounted for in any predictive model, and it reinforces the value of the N/ST ratio
as a relative indicator that accounts for both nitrogen status and energy reserves.`),
		),
	)
	return doc, nil
}

// seasonalBoxFigure draws one box per month of year, pooled across years,
// with the monthly means joined by a line.
func seasonalBoxFigure(groups []metrics.SeasonalGroup) *chart.Figure {
	f := chart.New(titled("4.1 Monthly ST Value Distribution",
		"Notice the high variance in certain months - this led us to investigate further"))

	means := make([]any, 12)
	for _, g := range groups {
		label := style.MonthLabels[g.Month-1]
		box := chart.Box(label, g.Values, starchGreen)
		box.FillColor = style.MustRGBA(starchGreen, 0.5)
		box.HoverTemplate = label + "<br>ST: %{y:.1f} mg/g<extra></extra>"
		f.Add(box)
		means[g.Month-1] = g.Mean
	}

	mean := chart.Scatter("Monthly Mean", style.MonthLabels, means, "lines+markers")
	mean.Line = &chart.Line{Color: "#006400", Width: 3}
	mean.Marker = &chart.Marker{Size: 10, Color: "#006400"}
	mean.HoverTemplate = "Mean ST: %{y:.1f} mg/g<extra></extra>"
	f.Add(mean)

	f.Layout.Height = 500
	f.Layout.ShowLegend = chart.Bool(false)
	f.Layout.XAxis().Title = chart.AxisTitle("Month")
	f.Layout.YAxis().Title = chart.AxisTitle("ST Value (mg/g)")
	f.Layout.YAxis().Range = chart.Range(0, 230)
	return f
}

func starchTimelineFigure(theme *style.Theme, byTreatment map[string][]metrics.Point, overall float64) *chart.Figure {
	f := chart.New(titled("4.2 ST Timeline by Treatment",
		"All 5 treatments follow the SAME pattern - the year effect dominates"))

	for _, tr := range style.Treatments {
		pts, ok := byTreatment[tr.Label]
		if !ok {
			continue
		}
		dates, means := pointSeries(pts)
		line := lineMarkers(tr.Label, dates, means, theme.Treatment(tr.Label), 2)
		line.HoverTemplate = tr.Label + "<br>%{x|%B %Y}<br>ST: %{y:.1f} mg/g<extra></extra>"
		f.Add(line)
	}

	f.HLine(overall, chart.Line{Color: overallMeanHex, Width: 2, Dash: "dash"})
	f.Annotate(chart.Annotation{
		X: 1, Y: overall, XRef: "paper", YRef: "y",
		Text:      fmt.Sprintf("Overall Mean: %.1f mg/g", overall),
		ShowArrow: chart.Bool(false), XAnchor: "right", YAnchor: "top",
	})
	f.VRect(chart.Day(depletedStart), chart.Day(depletedEnd), depletedFill, 1, "Depleted Period")

	f.Layout.Height = 500
	f.Layout.Legend = chart.HorizontalLegend()
	xa := f.Layout.XAxis()
	xa.Title = chart.AxisTitle("Date")
	xa.TickFormat = "%b %Y"
	xa.DTick = "M2"
	f.Layout.YAxis().Title = chart.AxisTitle("Mean ST Value (mg/g)")
	f.Layout.YAxis().Range = chart.Range(0, 200)
	return f
}

// yearBoxFigure puts one panel per experiment year side by side on a shared
// y axis, each holding a box per treatment.
func yearBoxFigure(theme *style.Theme, t *dataset.Table) (*chart.Figure, error) {
	f := chart.New(titled("4.3 ST Values by Treatment Group and Year",
		"All treatments show the same pattern: LOW in 2022, RECOVERED in 2023-2024"))

	type panel struct {
		year   int
		values map[string][]float64
	}
	var panels []panel
	for _, y := range style.YearOrder {
		yearTable := t.Filter(func(s *dataset.Sample) bool { return s.HasDate() && s.Date.Year() == y })
		if yearTable.Len() == 0 {
			continue
		}
		values, err := metrics.ValuesByTreatment(yearTable, dataset.ColST)
		if err != nil {
			return nil, err
		}
		panels = append(panels, panel{year: y, values: values})
	}

	grid := chart.NewGrid(1, max(len(panels), 1), 0.05, 0).ShareY()
	for i, p := range panels {
		sp := grid.Cell(1, i+1, 1, strconv.Itoa(p.year))
		for _, tr := range style.Treatments {
			v, ok := p.values[tr.Label]
			if !ok {
				continue
			}
			box := chart.Box(tr.Label, v, theme.Treatment(tr.Label))
			box.XAxis, box.YAxis = sp.XRef, sp.YRef
			box.LegendGroup = tr.Label
			box.ShowLegend = chart.Bool(i == 0)
			f.Add(box)
		}
		f.Layout.Axis(sp.YKey).Range = chart.Range(0, 230)
	}
	grid.Apply(f)
	if len(panels) > 0 {
		f.Layout.YAxis().Title = chart.AxisTitle("ST Value (mg/g)")
	}

	f.Layout.Height = 500
	f.Layout.ShowLegend = chart.Bool(true)
	f.Layout.Legend = &chart.Legend{Orientation: "h", X: chart.Float(0.5), Y: chart.Float(-0.12), XAnchor: "center", YAnchor: "top"}
	return f, nil
}

func yearStatsTable(theme *style.Theme, stats []metrics.YearSummary) *chart.Table {
	tbl := chart.NewTable("Year Statistics", "Year", "Samples", "Mean ST", "Std ST", "Min ST", "Max ST")
	for _, s := range stats {
		row := tbl.AddCells(
			chart.TableCell{Text: strconv.Itoa(s.Year), Color: theme.Year(s.Year), Bold: true},
			chart.TableCell{Text: strconv.Itoa(s.Count)},
			chart.TableCell{Text: f1(s.Mean)},
			chart.TableCell{Text: f1(s.Std)},
			chart.TableCell{Text: f1(s.Min)},
			chart.TableCell{Text: f1(s.Max)},
		)
		if s.Year == depletedYear {
			row.Background = depletedFill
		}
	}
	return tbl
}
