package metrics

import (
	"math"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// Ratio returns n/st. It reports false when either reading is invalid or
// st is zero.
func Ratio(n, st dataset.Reading) (float64, bool) {
	if !n.Valid || !st.Valid || st.Value == 0 {
		return 0, false
	}
	return n.Value / st.Value, true
}

// Normalize min-max scales values onto 0..100. A flat series maps to 50.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i, v := range values {
		if hi == lo {
			out[i] = 50
			continue
		}
		out[i] = (v - lo) / (hi - lo) * 100
	}
	return out
}

// ArgMax returns the index of the first largest value, or -1 if empty.
func ArgMax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

// ArgMin returns the index of the first smallest value, or -1 if empty.
func ArgMin(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v < values[best] {
			best = i
		}
	}
	return best
}
