// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package viz

import (
	"context"
	"log/slog"
	"time"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
)

// nstRatio compares the timing of N, ST, and the N/ST ratio on a common
// 0..100 scale.
type nstRatio struct{}

func (nstRatio) Name() string       { return "nst-ratio" }
func (nstRatio) OutputFile() string { return "nst_ratio_analysis.html" }
func (nstRatio) Description() string {
	return "Normalized N, ST, and N/ST ratio showing the fertilization window"
}

// NSTSeries loads the NPK table and returns the monthly N/ST comparison for
// samples dated within [from, to].
func NSTSeries(ctx context.Context, env *Env, from, to time.Time) (*metrics.NSTSeries, error) {
	t, err := loadNPK(ctx, env, from, to)
	if err != nil {
		return nil, err
	}
	return metrics.MonthlyNST(t)
}

func (g nstRatio) Generate(ctx context.Context, env *Env) (*render.Document, error) {
	t, err := loadNPK(ctx, env, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	full, err := metrics.MonthlyNST(t)
	if err != nil {
		return nil, err
	}
	recentTable, err := metrics.Between(t, recentStart, windowEnd)
	if err != nil {
		return nil, err
	}
	recent, err := metrics.MonthlyNST(recentTable)
	if err != nil {
		return nil, err
	}
	slog.Debug("monthly N/ST", "generator", g.Name(), "months", len(full.Points), "recent_months", len(recent.Points))

	doc := newDocument("Visualization 6: N/ST Ratio Analysis", "N/ST Ratio Analysis",
		"Why the N/ST ratio outperforms nitrogen alone for fertilization timing")
	doc.Add(
		render.Box("highlight-box",
			render.H3("The Core Insight"),
			render.P(`Traditional fertilization timing relies on <strong>Leaf Nitrogen Content (LNC)</strong> alone.
However, LNC peaks in winter when leaf growth slows. This is a <strong>concentration effect</strong>,
not a signal that the plant needs fertilization.`),
			render.P("The "+colored(style.RatioColor, "N/ST ratio")+" solves this by combining:"),
			render.List(
				"<strong>N_Value:</strong> Nitrogen content, the nutrient supply",
				"<strong>ST_Value:</strong> Starch content, the energy reserves",
			),
			render.P(`<strong>When ST drops (spring/summer growth), the ratio rises, correctly signaling fertilization need.</strong>`),
		),
		render.H2("Normalized Comparison"),
		render.Box("methodology",
			render.H4("Why Normalize?"),
			render.P(`N_Value (%), ST_Value (mg/g), and N/ST ratio have different units and scales.
Normalizing each to 0-100% allows direct comparison of <strong>timing patterns</strong>
rather than absolute values.`),
		),
		render.H3("Full Period: "+monthYear(windowStart)+" - "+monthYear(windowEnd)),
		render.Section(
			render.P("All curves scaled to their min-max range. The "+colored(style.RatioColor, "bright orange ratio line")+
				" shows when fertilization is needed. It rises when ST drops, regardless of what N alone suggests."),
			render.Figure(fullPeriodFigure(full)),
		),
		render.H3("Recent Period: "+monthYear(recentStart)+" - "+monthYear(windowEnd)),
		render.Section(
			render.P(`Excludes the 2022 depleted year for a <strong>cleaner seasonal pattern</strong>.
This period shows the typical annual cycle without the anomalous starch depletion event.`),
			render.Figure(recentPeriodFigure(recent)),
		),
		render.Box("warning-box",
			render.H4("The Critical Difference"),
			render.List(
				colored(style.NColor, "N Peaks in Winter:")+` Nitrogen concentration reaches maximum values in Nov-Feb,
but this reflects reduced leaf growth (concentration effect), <strong>NOT</strong> optimal fertilization timing.`,
				colored(style.STColor, "ST Drops in Spring/Summer:")+` Starch reserves decline as trees mobilize
carbohydrates for new growth. <strong>THIS</strong> signals actual fertilization need.`,
				colored(style.RatioColor, "N/ST Ratio Captures Both:")+` The ratio rises when ST drops, correctly
identifying the spring/summer fertilization window that N alone misses.`,
				colored(style.RatioColor, "Steady Rise = Increased Demand:")+` A steady rise in N/ST ratio highlights
the increased nitrogen demand during active growth and metabolic phases, when fertilization is most effective.`,
			),
		),
		render.H2("Practical Implications"),
		render.Section(
			render.H4("For Agronomists and Growers"),
			render.Table(implicationsTable()),
		),
		render.H2("Monthly Values"),
		render.Section(
			render.P("Monthly means behind the normalized curves. The ratio is taken of the monthly means."),
			render.Table(monthlyNSTTable(full)),
		),
		render.Box("discovery-box",
			render.H3("Summary: Research Insights"),
			render.List(
				`<strong>Year Effect:</strong> Environmental factors (climate, water availability) dominate
starch reserves, often overwhelming nitrogen treatment effects`,
				`<strong>LNC Classification:</strong> UC Davis thresholds provide reliable benchmarks for
nitrogen status when adjusted for seasonal patterns`,
				`<strong>N/ST Ratio Advantage:</strong> Combining N and ST measurements reveals metabolic
status and provides more accurate fertilization timing signals than N alone`,
				`<strong>Optimal Timing:</strong> The N/ST ratio correctly identifies <strong>spring/summer</strong>
as the optimal fertilization window, which N alone would miss`,
			),
		),
		render.Box("highlight-box",
			render.H3("Conclusion"),
			render.P(`The N/ST ratio integrates nitrogen status with metabolic context, providing a more reliable
indicator for fertilization timing decisions. By accounting for both the nutrient supply (N)
and energy reserves (ST), this ratio reveals the plant's true physiological status and fertilization needs.`),
			render.P(`<strong>This finding has practical implications for precision agriculture: spectroscopy-based N/ST ratio
predictions can guide site-specific fertilization timing, optimizing both yield and resource efficiency.</strong>`),
		),
	)
	return doc, nil
}

// normalizedFigure draws the three normalized series. Raw values ride along
// as custom data for the hover text.
func normalizedFigure(title string, s *metrics.NSTSeries, dtick string) *chart.Figure {
	x := chart.Dates(s.Dates())

	n := lineMarkers("N Value", x, s.NNorm, style.NColor, 2)
	n.CustomData = s.Column("N")
	n.HoverTemplate = "N: %{customdata:.2f}% (norm: %{y:.0f}%)<extra></extra>"

	st := lineMarkers("ST Value", x, s.STNorm, style.STColor, 2)
	st.CustomData = s.Column("ST")
	st.HoverTemplate = "ST: %{customdata:.1f} mg/g (norm: %{y:.0f}%)<extra></extra>"

	ratio := lineMarkers("N/ST Ratio", x, s.RatioNorm, style.RatioColor, 4)
	ratio.Marker = &chart.Marker{Size: 9, Symbol: "diamond", Color: style.RatioColor}
	ratio.CustomData = s.Column("Ratio")
	ratio.HoverTemplate = "N/ST: %{customdata:.4f} (norm: %{y:.0f}%)<extra></extra>"

	f := chart.New(title).Add(n, st, ratio)
	f.Layout.Height = 550
	f.Layout.HoverMode = "x unified"
	f.Layout.Legend = chart.HorizontalLegend()
	f.Layout.XAxis().Title = chart.AxisTitle("Date")
	f.Layout.XAxis().TickFormat = "%b %Y"
	f.Layout.XAxis().DTick = dtick
	f.Layout.YAxis().Title = chart.AxisTitle("Normalized Value (%)")
	f.Layout.YAxis().Range = chart.Range(0, 105)
	return f
}

func fullPeriodFigure(s *metrics.NSTSeries) *chart.Figure {
	f := normalizedFigure(titled(
		"Normalized View - Full Period ("+monthYear(windowStart)+" - "+monthYear(windowEnd)+")",
		"All curves scaled to 0-100% for direct timing comparison",
	), s, "M2")
	f.VLine(chart.Day(recentStart), chart.Line{Color: "black", Width: 1.5, Dash: "dash"})

	x := chart.Dates(s.Dates())
	if i := metrics.ArgMax(s.NNorm); i >= 0 {
		f.Annotate(arrow(x[i], 100, "N peaks here", 0, 20, style.NColor))
	}
	if i := metrics.ArgMax(s.RatioNorm); i >= 0 {
		f.Annotate(arrow(x[i], s.RatioNorm[i], "Ratio peaks here →<br>Fertilization window", -60, -30, style.RatioColor))
	}
	return f
}

func recentPeriodFigure(s *metrics.NSTSeries) *chart.Figure {
	f := normalizedFigure(titled(
		"Normalized View - Recent Period ("+monthYear(recentStart)+" - "+monthYear(windowEnd)+")",
		"Excludes 2022 depleted year for cleaner seasonal pattern",
	), s, "M1")

	x := chart.Dates(s.Dates())
	if i := metrics.ArgMax(s.NNorm); i >= 0 {
		f.Annotate(arrow(x[i], s.NNorm[i], "N peaks (winter)", 0, -30, style.NColor))
	}
	if i := metrics.ArgMin(s.STNorm); i >= 0 {
		f.Annotate(arrow(x[i], s.STNorm[i], "ST drops (spring)", 0, 30, style.STColor))
	}
	if i := metrics.ArgMax(s.RatioNorm); i >= 0 {
		f.Annotate(arrow(x[i], s.RatioNorm[i], "Ratio rises →<br>Fertilization window", -70, -20, style.RatioColor))
	}
	return f
}

func implicationsTable() *chart.Table {
	tbl := chart.NewTable("Practical Implications", "Metric", "Peak Timing", "Implication for Fertilization")
	tbl.AddCells(
		chart.TableCell{Text: "N_Value alone", Color: style.NColor, Bold: true},
		chart.TableCell{Text: "Winter (Nov-Feb)"},
		chart.TableCell{Text: "Misleading: high N in winter reflects concentration, not need", Background: "rgba(255, 230, 109, 0.3)"},
	)
	tbl.AddCells(
		chart.TableCell{Text: "ST_Value", Color: style.STColor, Bold: true},
		chart.TableCell{Text: "Fall (Sep-Nov)"},
		chart.TableCell{Text: "Low ST in spring signals energy mobilization for growth"},
	)
	tbl.AddCells(
		chart.TableCell{Text: "N/ST Ratio", Color: style.RatioColor, Bold: true},
		chart.TableCell{Text: "Spring-Summer (Apr-Jul)"},
		chart.TableCell{Text: "Optimal: rising ratio indicates true fertilization need", Background: "rgba(200, 230, 201, 0.3)"},
	)
	return tbl
}

func monthlyNSTTable(s *metrics.NSTSeries) *chart.Table {
	tbl := chart.NewTable("Monthly N-ST", "Month", "Mean N (%)", "Mean ST (mg/g)", "N/ST Ratio")
	for _, p := range s.Points {
		tbl.AddRow(p.Month.String(), f2(p.N), f1(p.ST), f4(p.Ratio))
	}
	return tbl
}
