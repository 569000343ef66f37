package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
)

type npkExperiment struct{}

func (npkExperiment) Name() string       { return "npk-experiment" }
func (npkExperiment) OutputFile() string { return "npk_experiment.html" }
func (npkExperiment) Description() string {
	return "NPK treatment design, sampling timeline, and N/ST comparison by treatment"
}

func (g npkExperiment) Generate(ctx context.Context, env *Env) (*render.Document, error) {
	t, err := loadNPK(ctx, env, zeroTime, zeroTime)
	if err != nil {
		return nil, err
	}
	counts, err := metrics.CountByTreatmentYearMonth(t)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(style.Treatments))
	for i, tr := range style.Treatments {
		labels[i] = tr.Label
	}
	summaries, err := metrics.SummarizeTreatments(t, labels)
	if err != nil {
		return nil, err
	}
	slog.Debug("treatment summaries", "generator", g.Name(), "treatments", len(summaries), "rows", t.Len())
	theme := env.theme()

	doc := newDocument("Visualization 3: NPK Experiment Analysis", "NPK Experiment Analysis",
		"Controlled nitrogen fertilization study on citrus at Gilat Research Station")
	doc.Add(
		render.Box("intro-box",
			render.H3("Experimental Design"),
			render.P(`The NPK experiment is a <strong>controlled fertilization study</strong> conducted at Gilat Research Station
in the Negev region of Israel. Citrus trees were subjected to five different nitrogen (N) fertilization levels
to study the relationship between nitrogen input and plant chemistry.`),
			render.P("<strong>Research Objectives:</strong>"),
			render.List(
				"Quantify the effect of nitrogen fertilization on leaf chemistry",
				"Establish relationships between N input and measurable plant responses",
				"Develop spectroscopy-based methods for nitrogen status assessment",
				"Identify optimal fertilization timing using the N/ST ratio",
			),
		),
		render.H2("3.1 Treatment Groups"),
		render.Section(
			render.P(`Five nitrogen treatment levels were established, ranging from severe deficiency (N10) to
excessive application (N150). Each treatment is replicated across 5 trees.`),
			render.Table(treatmentTable(theme, summaries)),
			render.Box("methodology",
				render.H4("Treatment Assignment"),
				render.P(`Trees were randomly assigned to treatment groups to ensure statistical validity.
The N60 treatment represents the <strong>agronomic optimum</strong> based on established
citrus fertilization guidelines for the region.`),
			),
		),
		render.H2("3.2 Sample Collection"),
		render.Section(
			render.P(`Samples were collected at regular intervals throughout the experimental period to capture
seasonal variations in plant chemistry.`),
			render.Figure(treatmentTimelineFigure(theme, counts)),
		),
		render.H3("Summary Statistics"),
		render.Section(
			render.Table(treatmentSummaryTable(theme, summaries)),
		),
		render.H2("3.3 Why N/ST Ratio?"),
		render.Box("highlight-box",
			render.H3("The Rationale for N/ST Ratio"),
			render.P(`Traditional nitrogen status assessment relies solely on <strong>Leaf Nitrogen Content (LNC)</strong>.
However, this approach has limitations:`),
			render.List(
				`<strong>Concentration Effect:</strong> LNC peaks in winter when leaf growth slows,
not necessarily when the plant needs fertilization`,
				`<strong>Missing Metabolic Context:</strong> LNC doesn't account for the plant's energy
reserves and metabolic state`,
			),
			render.P("The <strong>N/ST ratio</strong> combines nitrogen status with starch reserves:"),
			render.List(
				"<strong>N_Value:</strong> Nitrogen content (%), the nutrient supply",
				"<strong>ST_Value:</strong> Starch content (mg/g), the energy reserves",
				`<strong>N/ST Ratio:</strong> When this ratio rises, it indicates either increasing N demand
or depleting energy reserves. Both are signals for fertilization need.`,
			),
			render.P(`<strong>The following visualizations explore how N and ST respond to different fertilization levels,
setting the stage for N/ST ratio analysis.</strong>`),
		),
		render.H2("3.4 Treatment Group Comparison"),
		render.Section(
			render.P("This visualization compares nitrogen (N_Value) and starch (ST_Value) across all treatment groups:"),
			render.List(
				"<strong>Scatter plot:</strong> Shows the relationship between N and ST for each treatment",
				"<strong>Centroids (X markers):</strong> Indicate the mean position of each treatment group",
				"<strong>Box plots:</strong> Show the distribution and variability within each treatment",
			),
			render.Figure(treatmentComparisonFigure(theme, t)),
			render.Box("key-observations",
				render.H4("Key Observations"),
				render.List(
					`<strong>N_Value Response:</strong> Higher nitrogen treatments (N100, N150) show elevated
leaf nitrogen content, as expected`,
					`<strong>ST_Value Variance:</strong> Starch values show high variability across all treatments,
suggesting factors beyond nitrogen input affect starch reserves`,
					`<strong>Treatment Overlap:</strong> Some overlap exists between treatment groups,
indicating individual tree variation and environmental effects`,
					`<strong>Ceiling Effect:</strong> N100 and N150 show similar N_Value ranges,
suggesting a physiological upper limit to nitrogen accumulation`,
				),
			),
		),
		render.Box("discovery-box",
			render.H3("Looking Ahead"),
			render.P("The high variance in ST_Value despite controlled nitrogen treatments raises an important question:"),
			render.P(`<strong>"If nitrogen treatment isn't driving ST variance, what is?"</strong>`),
			render.P(`This question leads us to the <strong>Year Effect Discovery</strong> in the next visualization,
where we uncover that environmental factors dominate starch reserves more than fertilization treatment.`),
		),
	)
	return doc, nil
}

func treeList(trees []int) string {
	parts := make([]string, len(trees))
	for i, id := range trees {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func treatmentTable(theme *style.Theme, sums []metrics.TreatmentSummary) *chart.Table {
	tbl := chart.NewTable("Treatments", "Treatment", "N Level (kg/ha)", "Description", "Tree IDs", "Replicates", "Samples")
	for i, tr := range style.Treatments {
		tbl.AddCells(
			chart.TableCell{Text: tr.Label, Color: theme.Treatment(tr.Label), Bold: true},
			chart.TableCell{Text: strconv.Itoa(tr.Rate)},
			chart.TableCell{Text: tr.Description},
			chart.TableCell{Text: treeList(tr.Trees)},
			chart.TableCell{Text: strconv.Itoa(len(tr.Trees))},
			chart.TableCell{Text: strconv.Itoa(sums[i].Samples)},
		)
	}
	return tbl
}

// meanStd formats "mean ± std" at the given precision, or "n/a" when there
// is nothing to summarize.
func meanStd(s metrics.Summary, prec int) string {
	if s.Count == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.*f ± %.*f", prec, s.Mean, prec, s.Std)
}

func treatmentSummaryTable(theme *style.Theme, sums []metrics.TreatmentSummary) *chart.Table {
	tbl := chart.NewTable("Treatment Summary", "Treatment", "N Level", "Trees", "Samples", "Dates",
		"N_Value (mean ± std)", "ST_Value (mean ± std)")
	for i, s := range sums {
		tr := style.Treatments[i]
		tbl.AddCells(
			chart.TableCell{Text: s.Label, Color: theme.Treatment(s.Label), Bold: true},
			chart.TableCell{Text: fmt.Sprintf("%d kg N/ha", tr.Rate)},
			chart.TableCell{Text: strconv.Itoa(len(tr.Trees))},
			chart.TableCell{Text: strconv.Itoa(s.Samples)},
			chart.TableCell{Text: strconv.Itoa(s.UniqueDates)},
			chart.TableCell{Text: meanStd(s.N, 2)},
			chart.TableCell{Text: meanStd(s.ST, 1)},
		)
	}
	return tbl
}

func treatmentTimelineFigure(theme *style.Theme, counts map[string][]metrics.Count) *chart.Figure {
	f := chart.New(titled("3.2 Sample Collection Timeline by Treatment",
		"Monthly sample counts for each nitrogen treatment level"))
	for _, tr := range style.Treatments {
		cs, ok := counts[tr.Label]
		if !ok {
			continue
		}
		x := make([]string, len(cs))
		y := make([]int, len(cs))
		for i, c := range cs {
			x[i] = chart.Day(c.Month.Start())
			y[i] = c.Count
		}
		bar := chart.Bar(tr.Label, x, y, theme.Treatment(tr.Label))
		bar.HoverTemplate = tr.Label + "<br>%{x|%B %Y}<br>Samples: %{y}<extra></extra>"
		f.Add(bar)
	}
	f.Layout.Height = 450
	f.Layout.BarMode = "group"
	f.Layout.HoverMode = "x unified"
	f.Layout.Legend = chart.HorizontalLegend()
	f.Layout.Legend.Title = chart.AxisTitle("Treatment")
	xa := f.Layout.XAxis()
	xa.Title = chart.AxisTitle("Collection Date")
	xa.TickFormat = "%b %Y"
	xa.DTick = "M3"
	f.Layout.YAxis().Title = chart.AxisTitle("Number of Samples")
	return f
}

// treatmentComparisonFigure puts the N vs ST scatter across the top row and
// the N and ST box plots side by side below it.
func treatmentComparisonFigure(theme *style.Theme, t *dataset.Table) *chart.Figure {
	f := chart.New(titled("3.4 Treatment Group Comparison",
		"Scatter plot shows N vs ST relationship | Box plots show distributions | X markers indicate group centroids"))

	grid := chart.NewGrid(2, 2, 0.1, 0.15)
	scatter := grid.Cell(1, 1, 2, "N_Value vs ST_Value by Treatment")
	nBox := grid.Cell(2, 1, 1, "N_Value Distribution")
	stBox := grid.Cell(2, 2, 1, "ST_Value Distribution")

	byTreatment := make(map[string][]dataset.Sample)
	for _, s := range t.Samples {
		byTreatment[s.Treatment] = append(byTreatment[s.Treatment], s)
	}

	for _, tr := range style.Treatments {
		c := theme.Treatment(tr.Label)
		var ns, sts []float64
		for _, s := range byTreatment[tr.Label] {
			if s.N.Valid && s.ST.Valid {
				ns = append(ns, s.N.Value)
				sts = append(sts, s.ST.Value)
			}
		}
		if len(ns) == 0 {
			continue
		}
		pts := chart.Scatter(fmt.Sprintf("%s (n=%d)", tr.Label, len(ns)), ns, sts, "markers")
		pts.Marker = &chart.Marker{Color: c, Size: 6, Opacity: 0.6}
		pts.LegendGroup = tr.Label
		pts.HoverTemplate = tr.Label + "<br>N: %{x:.2f}%<br>ST: %{y:.1f} mg/g<extra></extra>"
		pts.XAxis, pts.YAxis = scatter.XRef, scatter.YRef

		cn, _ := metrics.Mean(ns)
		cst, _ := metrics.Mean(sts)
		centroid := chart.Scatter(tr.Label+" centroid", []float64{cn}, []float64{cst}, "markers")
		centroid.Marker = &chart.Marker{Color: c, Size: 18, Symbol: "x", Line: &chart.Line{Width: 3, Color: "black"}}
		centroid.LegendGroup = tr.Label
		centroid.ShowLegend = chart.Bool(false)
		centroid.HoverTemplate = tr.Label + " Centroid<br>N: %{x:.2f}%<br>ST: %{y:.1f} mg/g<extra></extra>"
		centroid.XAxis, centroid.YAxis = scatter.XRef, scatter.YRef

		f.Add(pts, centroid)
	}

	for _, panel := range []struct {
		sp  chart.Subplot
		col string
	}{{nBox, dataset.ColN}, {stBox, dataset.ColST}} {
		for _, tr := range style.Treatments {
			samples := byTreatment[tr.Label]
			if len(samples) == 0 {
				continue
			}
			box := chart.Box(tr.Label, metrics.Values(samples, panel.col), theme.Treatment(tr.Label))
			box.LegendGroup = tr.Label
			box.ShowLegend = chart.Bool(false)
			box.XAxis, box.YAxis = panel.sp.XRef, panel.sp.YRef
			f.Add(box)
		}
	}

	grid.Apply(f)
	f.Layout.Axis(scatter.XKey).Title = chart.AxisTitle("N_Value (%)")
	f.Layout.Axis(scatter.YKey).Title = chart.AxisTitle("ST_Value (mg/g)")
	f.Layout.Axis(nBox.YKey).Title = chart.AxisTitle("N_Value (%)")
	f.Layout.Axis(stBox.YKey).Title = chart.AxisTitle("ST_Value (mg/g)")

	f.Layout.Height = 800
	f.Layout.ShowLegend = chart.Bool(true)
	f.Layout.Legend = &chart.Legend{Orientation: "h", X: chart.Float(0.5), Y: chart.Float(-0.08), XAnchor: "center", YAnchor: "top"}
	return f
}
