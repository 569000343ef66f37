package metrics

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// Summary holds descriptive statistics of a value set. Std is the sample
// standard deviation and is zero for fewer than two values.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
}

// Describe summarizes values. An empty input yields a zero Summary.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(values)
	s := Summary{Count: len(values)}
	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	if len(values) > 1 {
		if sd, err := stats.StandardDeviationSample(data); err == nil && !math.IsNaN(sd) {
			s.Std = sd
		}
	}
	return s
}

// Mean returns the arithmetic mean of values and false when values is empty.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	m, err := stats.Mean(values)
	return m, err == nil
}

// Values returns the valid readings of col across samples, in order.
func Values(samples []dataset.Sample, col string) []float64 {
	out := make([]float64, 0, len(samples))
	for i := range samples {
		if r := samples[i].Measure(col); r.Valid {
			out = append(out, r.Value)
		}
	}
	return out
}

// ValuesByTreatment groups the valid readings of col by treatment label.
func ValuesByTreatment(t *dataset.Table, col string) (map[string][]float64, error) {
	if err := t.Require(dataset.ColTreatment, col); err != nil {
		return nil, err
	}
	out := make(map[string][]float64)
	for i := range t.Samples {
		s := &t.Samples[i]
		if r := s.Measure(col); r.Valid {
			out[s.Treatment] = append(out[s.Treatment], r.Value)
		}
	}
	return out, nil
}

// ValuesByYear groups the valid readings of col by calendar year.
func ValuesByYear(t *dataset.Table, col string) (map[int][]float64, error) {
	if err := t.Require(dataset.ColDate, col); err != nil {
		return nil, err
	}
	out := make(map[int][]float64)
	for i := range t.Samples {
		s := &t.Samples[i]
		if r := s.Measure(col); r.Valid && s.HasDate() {
			out[s.Date.Year()] = append(out[s.Date.Year()], r.Value)
		}
	}
	return out, nil
}

// YearSummary is a Summary for one calendar year.
type YearSummary struct {
	Year int
	Summary
}

// SummarizeYears describes col for each of years that has data, in the
// given order.
func SummarizeYears(t *dataset.Table, col string, years []int) ([]YearSummary, error) {
	byYear, err := ValuesByYear(t, col)
	if err != nil {
		return nil, err
	}
	var out []YearSummary
	for _, y := range years {
		if v := byYear[y]; len(v) > 0 {
			out = append(out, YearSummary{Year: y, Summary: Describe(v)})
		}
	}
	return out, nil
}
