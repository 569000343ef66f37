package metrics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// SpectrumStats is the per-wavelength mean and sample standard deviation
// of one crop's spectra.
type SpectrumStats struct {
	Crop  string
	Count int
	Mean  []float64
	Std   []float64
}

func requireSpectra(t *dataset.Table) error {
	if err := t.Require(dataset.ColID); err != nil {
		return err
	}
	if len(t.Wavelengths) == 0 {
		return fmt.Errorf("table %s: no wavelength columns: %w", t.Name, dataset.ErrMissingColumn)
	}
	return nil
}

// SpectraByCrop groups spectra by crop. Samples with no crop are dropped.
func SpectraByCrop(t *dataset.Table) (map[string][]dataset.Sample, error) {
	if err := requireSpectra(t); err != nil {
		return nil, err
	}
	out := make(map[string][]dataset.Sample)
	for _, s := range t.Samples {
		if s.Crop != "" {
			out[s.Crop] = append(out[s.Crop], s)
		}
	}
	return out, nil
}

// MeanSpectrum computes per-wavelength statistics, skipping NaN cells.
func MeanSpectrum(crop string, samples []dataset.Sample, width int) SpectrumStats {
	st := SpectrumStats{Crop: crop, Count: len(samples), Mean: make([]float64, width), Std: make([]float64, width)}
	col := make([]float64, 0, len(samples))
	for j := range width {
		col = col[:0]
		for _, s := range samples {
			if j < len(s.Spectrum) && !math.IsNaN(s.Spectrum[j]) {
				col = append(col, s.Spectrum[j])
			}
		}
		d := Describe(col)
		st.Mean[j] = d.Mean
		st.Std[j] = d.Std
	}
	return st
}

// NearestIndex returns the index of the wavelength closest to target, or -1
// for an empty axis.
func NearestIndex(wavelengths []float64, target float64) int {
	best := -1
	for i, wl := range wavelengths {
		if best < 0 || math.Abs(wl-target) < math.Abs(wavelengths[best]-target) {
			best = i
		}
	}
	return best
}

// DropOutliers removes samples of crop whose value at the wavelength
// nearest target exceeds cutoff. Other crops pass through untouched.
func DropOutliers(t *dataset.Table, crop string, target, cutoff float64) (*dataset.Table, int, error) {
	if err := requireSpectra(t); err != nil {
		return nil, 0, err
	}
	idx := NearestIndex(t.Wavelengths, target)
	dropped := 0
	out := t.Filter(func(s *dataset.Sample) bool {
		if s.Crop != crop || idx >= len(s.Spectrum) {
			return true
		}
		if s.Spectrum[idx] > cutoff {
			dropped++
			return false
		}
		return true
	})
	return out, dropped, nil
}

// SampleIndices picks up to k distinct indices from [0, n) with a seeded
// generator. The result is sorted and identical for identical arguments.
func SampleIndices(n, k int, seed uint64) []int {
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	r := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // reproducible display sampling
	out := r.Perm(n)[:k]
	slices.Sort(out)
	return out
}
