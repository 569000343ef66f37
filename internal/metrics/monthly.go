package metrics

import (
	"time"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// Point is the mean of a measurement over one calendar month.
type Point struct {
	Month YearMonth
	Mean  float64
	Count int
}

// MeanByYearMonth averages col per calendar month. Months with no valid
// reading are omitted.
func MeanByYearMonth(t *dataset.Table, col string) ([]Point, error) {
	if err := t.Require(dataset.ColDate, col); err != nil {
		return nil, err
	}
	return monthlyMeans(t.Samples, col), nil
}

// MeanByTreatmentMonth averages col per treatment and calendar month.
func MeanByTreatmentMonth(t *dataset.Table, col string) (map[string][]Point, error) {
	if err := t.Require(dataset.ColDate, dataset.ColTreatment, col); err != nil {
		return nil, err
	}
	byTreatment := make(map[string][]dataset.Sample)
	for _, s := range t.Samples {
		byTreatment[s.Treatment] = append(byTreatment[s.Treatment], s)
	}
	out := make(map[string][]Point, len(byTreatment))
	for label, samples := range byTreatment {
		if pts := monthlyMeans(samples, col); len(pts) > 0 {
			out[label] = pts
		}
	}
	return out, nil
}

func monthlyMeans(samples []dataset.Sample, col string) []Point {
	keys, groups := GroupByYearMonth(samples)
	out := make([]Point, 0, len(keys))
	for _, k := range keys {
		v := Values(groups[k], col)
		if m, ok := Mean(v); ok {
			out = append(out, Point{Month: k, Mean: m, Count: len(v)})
		}
	}
	return out
}

// SeasonalGroup holds every reading taken in one calendar month, pooled
// across years.
type SeasonalGroup struct {
	Month  time.Month
	Values []float64
	Mean   float64
}

// SeasonalValues pools col by month of year. This is intentionally a
// cross-year aggregate; use MeanByYearMonth for per-year buckets.
func SeasonalValues(t *dataset.Table, col string) ([]SeasonalGroup, error) {
	if err := t.Require(dataset.ColDate, col); err != nil {
		return nil, err
	}
	keys, groups := GroupByMonthOfYear(t.Samples)
	out := make([]SeasonalGroup, 0, len(keys))
	for _, m := range keys {
		v := Values(groups[m], col)
		if mean, ok := Mean(v); ok {
			out = append(out, SeasonalGroup{Month: m, Values: v, Mean: mean})
		}
	}
	return out, nil
}

// NSTPoint is one month of the N/ST comparison.
type NSTPoint struct {
	Month YearMonth
	N     float64
	ST    float64
	Ratio float64
}

// NSTSeries is the monthly N/ST comparison with each series normalized to
// 0..100.
type NSTSeries struct {
	Points    []NSTPoint
	NNorm     []float64
	STNorm    []float64
	RatioNorm []float64
}

// MonthlyNST computes mean N, mean ST, and their ratio per calendar month.
// The ratio is taken of the monthly means, not averaged per sample. Months
// lacking either mean, or with a zero ST mean, are omitted.
func MonthlyNST(t *dataset.Table) (*NSTSeries, error) {
	if err := t.Require(dataset.ColDate, dataset.ColN, dataset.ColST); err != nil {
		return nil, err
	}
	keys, groups := GroupByYearMonth(t.Samples)
	series := &NSTSeries{}
	for _, k := range keys {
		n, okN := Mean(Values(groups[k], dataset.ColN))
		st, okST := Mean(Values(groups[k], dataset.ColST))
		if !okN || !okST {
			continue
		}
		r, ok := Ratio(dataset.Some(n), dataset.Some(st))
		if !ok {
			continue
		}
		series.Points = append(series.Points, NSTPoint{Month: k, N: n, ST: st, Ratio: r})
	}
	series.NNorm = Normalize(series.column(func(p NSTPoint) float64 { return p.N }))
	series.STNorm = Normalize(series.column(func(p NSTPoint) float64 { return p.ST }))
	series.RatioNorm = Normalize(series.column(func(p NSTPoint) float64 { return p.Ratio }))
	return series, nil
}

func (s *NSTSeries) column(f func(NSTPoint) float64) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = f(p)
	}
	return out
}

// Dates returns the plotting date (mid-month) of every point.
func (s *NSTSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Month.Mid()
	}
	return out
}

// Column exposes one raw series: "N", "ST", or "Ratio".
func (s *NSTSeries) Column(name string) []float64 {
	switch name {
	case "N":
		return s.column(func(p NSTPoint) float64 { return p.N })
	case "ST":
		return s.column(func(p NSTPoint) float64 { return p.ST })
	default:
		return s.column(func(p NSTPoint) float64 { return p.Ratio })
	}
}

// UniqueDates counts the distinct collection days among samples.
func UniqueDates(samples []dataset.Sample) int {
	seen := make(map[time.Time]struct{})
	for _, s := range samples {
		if s.HasDate() {
			seen[s.Date.Truncate(24*time.Hour)] = struct{}{}
		}
	}
	return len(seen)
}
