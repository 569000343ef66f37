// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package style holds the palettes, treatment metadata, LNC thresholds, and
// page stylesheet shared by every visualization.
package style

import "maps"

// Crop names as they appear in sample IDs once parsed.
const (
	Citrus  = "Citrus"
	Almond  = "Almond"
	Avocado = "Avocado"
	Vine    = "Vine"
)

// CropOrder is the canonical crop ordering for legends and tables.
var CropOrder = []string{Citrus, Almond, Avocado, Vine}

// Metric colors for the N/ST comparison charts.
const (
	NColor     = "#7fb3d5"
	STColor    = "#82c982"
	RatioColor = "#ff8c00"
)

// Treatment describes one arm of the NPK fertilization experiment.
type Treatment struct {
	Label       string
	Rate        int // nominal kg N/ha
	Color       string
	Description string
	Trees       []int
}

// Treatments lists the experiment arms from lowest to highest N rate.
var Treatments = []Treatment{
	{Label: "N10", Rate: 10, Color: "#1f77b4", Description: "Very Low (10 kg N/ha)", Trees: []int{3, 30, 42, 46, 63}},
	{Label: "N40", Rate: 40, Color: "#17becf", Description: "Low (40 kg N/ha)", Trees: []int{5, 19, 44, 49, 67}},
	{Label: "N60", Rate: 60, Color: "#2ca02c", Description: "Optimal (60 kg N/ha)", Trees: []int{12, 29, 43, 58, 61}},
	{Label: "N100", Rate: 100, Color: "#ff7f0e", Description: "Excessive (100 kg N/ha)", Trees: []int{15, 18, 40, 47, 68}},
	{Label: "N150", Rate: 150, Color: "#d62728", Description: "Very Excessive (150 kg N/ha)", Trees: []int{13, 24, 35, 57, 74}},
}

// TreatmentByLabel returns the treatment with the given label.
func TreatmentByLabel(label string) (Treatment, bool) {
	for _, t := range Treatments {
		if t.Label == label {
			return t, true
		}
	}
	return Treatment{}, false
}

// YearOrder is the span of years covered by the NPK experiment.
var YearOrder = []int{2021, 2022, 2023, 2024}

// MonthLabels are short month labels indexed from January.
var MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthNames are full month names indexed from January.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Theme is the resolved color set a generator draws with. Use Default and
// WithOverrides rather than constructing one directly.
type Theme struct {
	CropColors      map[string]string
	TreatmentColors map[string]string
	YearColors      map[int]string
}

// Default returns the stock theme.
func Default() *Theme {
	th := &Theme{
		CropColors: map[string]string{
			Citrus:  "#E69F00",
			Almond:  "#8B4513",
			Avocado: "#009E73",
			Vine:    "#CC79A7",
		},
		TreatmentColors: make(map[string]string, len(Treatments)),
		YearColors: map[int]string{
			2021: "#90EE90",
			2022: "#32CD32",
			2023: "#228B22",
			2024: "#006400",
		},
	}
	for _, t := range Treatments {
		th.TreatmentColors[t.Label] = t.Color
	}
	return th
}

// WithOverrides returns a copy of th with the given crop and treatment colors
// replaced. Unknown keys are ignored.
func (th *Theme) WithOverrides(crops, treatments map[string]string) *Theme {
	out := &Theme{
		CropColors:      maps.Clone(th.CropColors),
		TreatmentColors: maps.Clone(th.TreatmentColors),
		YearColors:      maps.Clone(th.YearColors),
	}
	for k, v := range crops {
		if _, ok := out.CropColors[k]; ok {
			out.CropColors[k] = v
		}
	}
	for k, v := range treatments {
		if _, ok := out.TreatmentColors[k]; ok {
			out.TreatmentColors[k] = v
		}
	}
	return out
}

// Crop returns the color for a crop, falling back to gray.
func (th *Theme) Crop(name string) string {
	if c, ok := th.CropColors[name]; ok {
		return c
	}
	return "#808080"
}

// Treatment returns the color for a treatment label, falling back to gray.
func (th *Theme) Treatment(label string) string {
	if c, ok := th.TreatmentColors[label]; ok {
		return c
	}
	return "#808080"
}

// Year returns the color for a year, falling back to gray.
func (th *Theme) Year(y int) string {
	if c, ok := th.YearColors[y]; ok {
		return c
	}
	return "#808080"
}
