// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package report

import (
	"github.com/fatih/color"

	"github.com/davetashner/nitroviz/internal/style"
)

// Shared color printers for report sections.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBlue   = color.New(color.FgBlue)
	colorCyan   = color.New(color.FgCyan)
	colorBold   = color.New(color.Bold)
)

// bandPrinters mirror the chart band colors as closely as a terminal can.
var bandPrinters = map[string]*color.Color{
	style.Deficient.String(): colorBlue,
	style.Low.String():       colorCyan,
	style.Optimum.String():   colorGreen,
	style.High.String():      colorYellow,
	style.Excess.String():    colorRed,
}

// ColorBand colors an LNC band name.
func ColorBand(val string) string {
	if c, ok := bandPrinters[val]; ok {
		return c.Sprint(val)
	}
	return val
}

// ColorFlag colors the marker column of the year and ratio tables.
func ColorFlag(val string) string {
	switch val {
	case "lowest":
		return colorRed.Sprint(val)
	case "peak":
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}
