// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package style

import "time"

// Band is a leaf nitrogen content classification.
type Band int

// Bands in ascending nitrogen order.
const (
	Deficient Band = iota
	Low
	Optimum
	High
	Excess
)

// Bands lists every band from lowest to highest.
var Bands = []Band{Deficient, Low, Optimum, High, Excess}

var bandNames = [...]string{"Deficient", "Low", "Optimum", "High", "Excess"}

var bandHex = [...]string{"#1E90FF", "#87CEEB", "#4ECDC4", "#FFA500", "#FF6B6B"}

var bandColors = [...]string{
	"rgba(30, 144, 255, 0.25)",
	"rgba(135, 206, 250, 0.25)",
	"rgba(78, 205, 196, 0.25)",
	"rgba(255, 165, 0, 0.25)",
	"rgba(255, 107, 107, 0.25)",
}

// String returns the band name.
func (b Band) String() string {
	if b < Deficient || b > Excess {
		return "Unknown"
	}
	return bandNames[b]
}

// Color returns the translucent fill used for the band area.
func (b Band) Color() string {
	if b < Deficient || b > Excess {
		return "rgba(128, 128, 128, 0.25)"
	}
	return bandColors[b]
}

// Hex returns the solid band color used for labels.
func (b Band) Hex() string {
	if b < Deficient || b > Excess {
		return "#808080"
	}
	return bandHex[b]
}

// Thresholds are the four boundaries separating the five LNC bands, in
// percent dry weight.
type Thresholds struct {
	DeficientLow float64
	LowOptimum   float64
	OptimumHigh  float64
	HighExcess   float64
}

// OctoberThresholds is the UC Davis October reference, scaled by 1.2.
var OctoberThresholds = Thresholds{
	DeficientLow: 2.64,
	LowOptimum:   2.88,
	OptimumHigh:  3.24,
	HighExcess:   3.48,
}

// MonthlyFactors scale the October reference to each calendar month.
var MonthlyFactors = map[time.Month]float64{
	time.January:   1.125,
	time.February:  1.081,
	time.March:     1.024,
	time.April:     0.993,
	time.May:       0.910,
	time.June:      0.923,
	time.July:      0.973,
	time.August:    1.024,
	time.September: 1.024,
	time.October:   1.000,
	time.November:  1.088,
	time.December:  1.125,
}

// Scale multiplies every boundary by f.
func (t Thresholds) Scale(f float64) Thresholds {
	return Thresholds{
		DeficientLow: t.DeficientLow * f,
		LowOptimum:   t.LowOptimum * f,
		OptimumHigh:  t.OptimumHigh * f,
		HighExcess:   t.HighExcess * f,
	}
}

// ForMonth returns the October reference scaled to month m.
func ForMonth(m time.Month) Thresholds {
	f, ok := MonthlyFactors[m]
	if !ok {
		f = 1
	}
	return OctoberThresholds.Scale(f)
}

// Bounds returns the lower and upper boundary of band b. The open ends of
// Deficient and Excess are reported as floor and ceiling.
func (t Thresholds) Bounds(b Band, floor, ceiling float64) (lo, hi float64) {
	switch b {
	case Deficient:
		return floor, t.DeficientLow
	case Low:
		return t.DeficientLow, t.LowOptimum
	case Optimum:
		return t.LowOptimum, t.OptimumHigh
	case High:
		return t.OptimumHigh, t.HighExcess
	default:
		return t.HighExcess, ceiling
	}
}
