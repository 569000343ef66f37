package metrics

import (
	"time"

	"github.com/davetashner/nitroviz/internal/style"
)

// Classify assigns v to an LNC band using the thresholds for month m.
func Classify(v float64, m time.Month) style.Band {
	return ClassifyWith(v, style.ForMonth(m))
}

// ClassifyWith assigns v to an LNC band. Bands are closed below and open
// above, so a value exactly on a boundary belongs to the higher band.
func ClassifyWith(v float64, th style.Thresholds) style.Band {
	switch {
	case v < th.DeficientLow:
		return style.Deficient
	case v < th.LowOptimum:
		return style.Low
	case v < th.OptimumHigh:
		return style.Optimum
	case v < th.HighExcess:
		return style.High
	default:
		return style.Excess
	}
}

// ThresholdPoint is the set of seasonal boundaries for one month.
type ThresholdPoint struct {
	Month      YearMonth
	Thresholds style.Thresholds
}

// ThresholdCurve returns the seasonal boundaries for every month from
// through to, inclusive.
func ThresholdCurve(from, to YearMonth) []ThresholdPoint {
	months := MonthRange(from, to)
	out := make([]ThresholdPoint, len(months))
	for i, ym := range months {
		out[i] = ThresholdPoint{Month: ym, Thresholds: style.ForMonth(ym.Month)}
	}
	return out
}

// BandCounts tallies how many monthly means fall in each band.
// Index with a style.Band.
type BandCounts [5]int

// Total returns the number of classified points.
func (c BandCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Occupancy classifies each monthly mean against its month's thresholds.
func Occupancy(points []Point) BandCounts {
	var c BandCounts
	for _, p := range points {
		c[ClassifyWith(p.Mean, style.ForMonth(p.Month.Month))]++
	}
	return c
}
