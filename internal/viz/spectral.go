package viz

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
)

// Display sampling for the "All Samples" view.
const (
	spectraPerCrop = 50
	spectraSeed    = 42
)

// Avocado scans with a reading above the cutoff near 4000 nm are
// instrument artifacts and are left out of the sampled spectra.
const (
	outlierWavelength = 4000
	outlierCutoff     = 0.8
)

// spectraDrawOrder draws Citrus last so Almond does not cover it.
var spectraDrawOrder = []string{style.Almond, style.Avocado, style.Vine, style.Citrus}

type spectralExplorer struct{}

func (spectralExplorer) Name() string       { return "spectral-explorer" }
func (spectralExplorer) OutputFile() string { return "spectral_explorer.html" }
func (spectralExplorer) Description() string {
	return "NIR spectra per crop with sampled scans and mean ± SD bands"
}

func (g spectralExplorer) Generate(ctx context.Context, env *Env) (*render.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := env.loader().LoadSpectral(env.Paths.Spectral)
	if err != nil {
		return nil, err
	}
	byCrop, err := metrics.SpectraByCrop(t)
	if err != nil {
		return nil, err
	}
	filtered, dropped, err := metrics.DropOutliers(t, style.Avocado, outlierWavelength, outlierCutoff)
	if err != nil {
		return nil, err
	}
	sampledByCrop, err := metrics.SpectraByCrop(filtered)
	if err != nil {
		return nil, err
	}
	slog.Debug("spectra", "generator", g.Name(), "rows", t.Len(), "wavelengths", len(t.Wavelengths), "avocado_outliers", dropped)

	means := make(map[string]metrics.SpectrumStats, len(byCrop))
	for crop, samples := range byCrop {
		means[crop] = metrics.MeanSpectrum(crop, samples, len(t.Wavelengths))
	}

	subtitle := fmt.Sprintf("%s wavelengths", humanize.Comma(int64(len(t.Wavelengths))))
	if len(t.Wavelengths) > 0 {
		subtitle += fmt.Sprintf(" (%s-%s nm)",
			humanize.Comma(int64(slices.Min(t.Wavelengths))), humanize.Comma(int64(slices.Max(t.Wavelengths))))
	}
	subtitle += " | Spectral signatures enable prediction of chemical values (N%, ST, SC)"

	doc := newDocument("Visualization 2: NIR Spectral Signatures",
		"NIR (Near Infrared) Spectral Signatures: Unique Fingerprint per Crop Type", subtitle)
	doc.Add(
		render.Section(
			render.Figure(spectraFigure(env.theme(), t.Wavelengths, means, sampledByCrop)),
		),
		render.Box("methodology",
			render.H4("Spectral Region Interpretation"),
			render.P("The near-infrared (NIR) spectrum reveals chemical composition through molecular absorption:"),
			render.List(
				"<strong>4,000-5,000 nm:</strong> C-H stretching: lipids, carbohydrates",
				"<strong>5,000-6,000 nm:</strong> C=O stretching: proteins, organic acids",
				"<strong>6,000-7,500 nm:</strong> N-H bending: proteins, amino acids (nitrogen indicator)",
				"<strong>7,500-10,000 nm:</strong> C-O stretching: carbohydrates, starch",
			),
			render.P("Differences in spectral signatures between crops reflect their unique biochemical composition."),
		),
		render.Section(
			render.H4("Samples per Crop"),
			render.Table(spectraCountTable(env.theme(), byCrop, sampledByCrop)),
		),
	)
	return doc, nil
}

// spectraFigure overlays two views of the spectra, switched by buttons:
// sampled individual scans (shown first) and per-crop mean ± 1 SD.
func spectraFigure(theme *style.Theme, wl []float64, means map[string]metrics.SpectrumStats, sampled map[string][]dataset.Sample) *chart.Figure {
	f := chart.New("2.1 NIR Absorption Spectrum: Each crop has a distinct biochemical signature")

	var meanIdx, sampleIdx []int
	for _, crop := range spectraDrawOrder {
		st, ok := means[crop]
		if !ok {
			continue
		}
		c := theme.Crop(crop)
		upper := make([]float64, len(st.Mean))
		lower := make([]float64, len(st.Mean))
		for i := range st.Mean {
			upper[i] = st.Mean[i] + st.Std[i]
			lower[i] = st.Mean[i] - st.Std[i]
		}

		mean := chart.Scatter(crop, wl, chart.Gaps(st.Mean), "lines")
		mean.Line = &chart.Line{Color: c, Width: 1.5}
		mean.HoverTemplate = crop + ": %{y:.3f}<extra></extra>"

		hi := chart.Scatter("", wl, chart.Gaps(upper), "lines")
		hi.Line = &chart.Line{Color: chart.Transparent}
		hi.ShowLegend = chart.Bool(false)
		hi.HoverInfo = "skip"

		lo := chart.Scatter(crop+" (±1 SD)", wl, chart.Gaps(lower), "lines")
		lo.Line = &chart.Line{Color: chart.Transparent}
		lo.Fill = "tonexty"
		lo.FillColor = style.MustRGBA(c, 0.2)
		lo.ShowLegend = chart.Bool(false)
		lo.HoverInfo = "skip"

		for _, tr := range []chart.Trace{mean, hi, lo} {
			tr.LegendGroup = crop
			tr.Visible = chart.Bool(false)
			meanIdx = append(meanIdx, len(f.Data))
			f.Add(tr)
		}
	}

	for _, crop := range spectraDrawOrder {
		samples := sampled[crop]
		c := theme.Crop(crop)
		for i, idx := range metrics.SampleIndices(len(samples), spectraPerCrop, spectraSeed) {
			tr := chart.Scatter("", wl, chart.Gaps(samples[idx].Spectrum), "lines")
			if i == 0 {
				tr.Name = crop
			}
			tr.Line = &chart.Line{Color: c, Width: 1}
			tr.Opacity = 0.3
			tr.LegendGroup = crop
			tr.ShowLegend = chart.Bool(i == 0)
			tr.Visible = chart.Bool(true)
			tr.HoverInfo = "skip"
			sampleIdx = append(sampleIdx, len(f.Data))
			f.Add(tr)
		}
	}

	f.Layout.UpdateMenus = []chart.UpdateMenu{{
		Type: "buttons", Direction: "right", Active: 0,
		X: chart.Float(0.5), Y: chart.Float(1.02), XAnchor: "center",
		BGColor: "white", BorderColor: "#228B22", Font: &chart.Font{Color: "#1b5e20"},
		Buttons: []chart.Button{
			{Label: "All Samples", Method: "update", Args: []any{map[string]any{"visible": visibility(len(f.Data), sampleIdx)}}},
			{Label: "Mean &plusmn; SD", Method: "update", Args: []any{map[string]any{"visible": visibility(len(f.Data), meanIdx)}}},
		},
	}}

	grid := "rgba(0,0,0,0.1)"
	xa := f.Layout.XAxis()
	xa.Title = chart.AxisTitle("Wavelength (nm)")
	xa.TickFormat = ".0f"
	xa.DTick = 500
	xa.ShowGrid = chart.Bool(true)
	xa.GridColor = grid
	ya := f.Layout.YAxis()
	ya.Title = chart.AxisTitle("Spectral Value (Reflectance/Absorbance)")
	ya.ShowGrid = chart.Bool(true)
	ya.GridColor = grid

	f.Layout.Height = 650
	f.Layout.HoverMode = "x unified"
	f.Layout.PlotBGColor = "white"
	f.Layout.Legend = &chart.Legend{
		Orientation: "h", X: chart.Float(0.5), Y: chart.Float(-0.2), XAnchor: "center", YAnchor: "bottom",
		Title: chart.AxisTitle("Click to toggle crops:"),
	}
	return f
}

// visibility returns a mask of n traces with only the given indices shown.
func visibility(n int, shown []int) []bool {
	out := make([]bool, n)
	for _, i := range shown {
		out[i] = true
	}
	return out
}

func spectraCountTable(theme *style.Theme, all, sampled map[string][]dataset.Sample) *chart.Table {
	tbl := chart.NewTable("Spectra per Crop", "Crop", "Samples", "After Outlier Filter", "Shown")
	for _, crop := range style.CropOrder {
		kept := len(sampled[crop])
		tbl.AddCells(
			chart.TableCell{Text: crop, Color: theme.Crop(crop), Bold: true},
			chart.TableCell{Text: humanize.Comma(int64(len(all[crop])))},
			chart.TableCell{Text: humanize.Comma(int64(kept))},
			chart.TableCell{Text: strconv.Itoa(min(kept, spectraPerCrop))},
		)
	}
	return tbl
}
