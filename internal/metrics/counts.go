package metrics

import (
	"time"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// Count is a sample tally for one calendar month.
type Count struct {
	Month YearMonth
	Count int
}

// CountByCropYearMonth tallies dated samples per crop and calendar month.
func CountByCropYearMonth(t *dataset.Table) (map[string][]Count, error) {
	if err := t.Require(dataset.ColID); err != nil {
		return nil, err
	}
	byCrop := groupByCrop(t.Samples)
	out := make(map[string][]Count, len(byCrop))
	for crop, samples := range byCrop {
		keys, groups := GroupByYearMonth(samples)
		for _, k := range keys {
			out[crop] = append(out[crop], Count{Month: k, Count: len(groups[k])})
		}
	}
	return out, nil
}

// CountByTreatmentYearMonth tallies dated samples per treatment and
// calendar month.
func CountByTreatmentYearMonth(t *dataset.Table) (map[string][]Count, error) {
	if err := t.Require(dataset.ColDate, dataset.ColTreatment); err != nil {
		return nil, err
	}
	byTreatment := make(map[string][]dataset.Sample)
	for _, s := range t.Samples {
		if s.Treatment != "" {
			byTreatment[s.Treatment] = append(byTreatment[s.Treatment], s)
		}
	}
	out := make(map[string][]Count, len(byTreatment))
	for label, samples := range byTreatment {
		keys, groups := GroupByYearMonth(samples)
		for _, k := range keys {
			out[label] = append(out[label], Count{Month: k, Count: len(groups[k])})
		}
	}
	return out, nil
}

// CountByCropMonthOfYear tallies dated samples per crop and calendar month
// pooled across years. Index 0 is January.
func CountByCropMonthOfYear(t *dataset.Table) (map[string][12]int, error) {
	if err := t.Require(dataset.ColID); err != nil {
		return nil, err
	}
	out := make(map[string][12]int)
	for _, s := range t.Samples {
		if s.Crop == "" || !s.HasDate() {
			continue
		}
		c := out[s.Crop]
		c[s.Date.Month()-time.January]++
		out[s.Crop] = c
	}
	return out, nil
}

// CountByLocationCrop tallies samples per site and crop, dated or not.
func CountByLocationCrop(t *dataset.Table) (map[string]map[string]int, error) {
	if err := t.Require(dataset.ColID); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]int)
	for _, s := range t.Samples {
		if s.Crop == "" {
			continue
		}
		if out[s.Location] == nil {
			out[s.Location] = make(map[string]int)
		}
		out[s.Location][s.Crop]++
	}
	return out, nil
}

// CropSummary describes the collection effort for one crop.
type CropSummary struct {
	Crop        string
	Total       int
	First       time.Time
	Last        time.Time
	UniqueDates int
}

// SummarizeCrops returns one summary per crop in order, skipping crops with
// no samples. First and Last are zero when no sample is dated.
func SummarizeCrops(t *dataset.Table, order []string) ([]CropSummary, error) {
	if err := t.Require(dataset.ColID); err != nil {
		return nil, err
	}
	byCrop := groupByCrop(t.Samples)
	var out []CropSummary
	for _, crop := range order {
		samples := byCrop[crop]
		if len(samples) == 0 {
			continue
		}
		cs := CropSummary{Crop: crop, Total: len(samples), UniqueDates: UniqueDates(samples)}
		for _, s := range samples {
			if !s.HasDate() {
				continue
			}
			if cs.First.IsZero() || s.Date.Before(cs.First) {
				cs.First = s.Date
			}
			if s.Date.After(cs.Last) {
				cs.Last = s.Date
			}
		}
		out = append(out, cs)
	}
	return out, nil
}

func groupByCrop(samples []dataset.Sample) map[string][]dataset.Sample {
	out := make(map[string][]dataset.Sample)
	for _, s := range samples {
		if s.Crop != "" {
			out[s.Crop] = append(out[s.Crop], s)
		}
	}
	return out
}

// TreatmentSummary describes N and ST for one treatment arm.
type TreatmentSummary struct {
	Label       string
	Samples     int
	UniqueDates int
	N           Summary
	ST          Summary
}

// SummarizeTreatments returns one summary per label, in order. Labels with
// no samples get a zero summary so every arm appears.
func SummarizeTreatments(t *dataset.Table, labels []string) ([]TreatmentSummary, error) {
	if err := t.Require(dataset.ColTreatment, dataset.ColN, dataset.ColST); err != nil {
		return nil, err
	}
	byTreatment := make(map[string][]dataset.Sample)
	for _, s := range t.Samples {
		byTreatment[s.Treatment] = append(byTreatment[s.Treatment], s)
	}
	out := make([]TreatmentSummary, 0, len(labels))
	for _, label := range labels {
		samples := byTreatment[label]
		out = append(out, TreatmentSummary{
			Label:       label,
			Samples:     len(samples),
			UniqueDates: UniqueDates(samples),
			N:           Describe(Values(samples, dataset.ColN)),
			ST:          Describe(Values(samples, dataset.ColST)),
		})
	}
	return out, nil
}
