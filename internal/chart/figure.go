// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package chart builds plotly-compatible figure descriptors and HTML tables.
// Figures are plain data: they serialize to the {"data", "layout"} JSON that
// Plotly.newPlot accepts and carry no rendering logic of their own.
package chart

import (
	"encoding/json"
	"math"
	"time"
)

// DateLayout is the wire format for date axes.
const DateLayout = "2006-01-02"

// Figure is one chart panel.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single plotly trace. Only the attributes used by the reports
// are modeled.
type Trace struct {
	Type          string  `json:"type"`
	Name          string  `json:"name,omitempty"`
	X             any     `json:"x,omitempty"`
	Y             any     `json:"y,omitempty"`
	Mode          string  `json:"mode,omitempty"`
	Marker        *Marker `json:"marker,omitempty"`
	Line          *Line   `json:"line,omitempty"`
	Fill          string  `json:"fill,omitempty"`
	FillColor     string  `json:"fillcolor,omitempty"`
	Text          any     `json:"text,omitempty"`
	TextPosition  string  `json:"textposition,omitempty"`
	CustomData    any     `json:"customdata,omitempty"`
	HoverTemplate string  `json:"hovertemplate,omitempty"`
	HoverInfo     string  `json:"hoverinfo,omitempty"`
	LegendGroup   string  `json:"legendgroup,omitempty"`
	ShowLegend    *bool   `json:"showlegend,omitempty"`
	Visible       *bool   `json:"visible,omitempty"`
	Opacity       float64 `json:"opacity,omitempty"`
	BoxMean       any     `json:"boxmean,omitempty"`
	BoxPoints     any     `json:"boxpoints,omitempty"`
	XAxis         string  `json:"xaxis,omitempty"`
	YAxis         string  `json:"yaxis,omitempty"`
}

// Marker styles trace points, bars, and boxes.
type Marker struct {
	Color   any     `json:"color,omitempty"`
	Size    any     `json:"size,omitempty"`
	Symbol  string  `json:"symbol,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Line    *Line   `json:"line,omitempty"`
}

// Line styles trace lines and shape outlines.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Shape string  `json:"shape,omitempty"`
}

// Font is a text style.
type Font struct {
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Title is a figure or axis title.
type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// Axis configures one x or y axis.
type Axis struct {
	Title          *Title    `json:"title,omitempty"`
	Type           string    `json:"type,omitempty"`
	Range          []any     `json:"range,omitempty"`
	TickFormat     string    `json:"tickformat,omitempty"`
	DTick          any       `json:"dtick,omitempty"`
	TickAngle      *float64  `json:"tickangle,omitempty"`
	TickVals       any       `json:"tickvals,omitempty"`
	TickText       any       `json:"ticktext,omitempty"`
	Domain         []float64 `json:"domain,omitempty"`
	Anchor         string    `json:"anchor,omitempty"`
	Matches        string    `json:"matches,omitempty"`
	ShowTickLabels *bool     `json:"showticklabels,omitempty"`
	ShowGrid       *bool     `json:"showgrid,omitempty"`
	GridColor      string    `json:"gridcolor,omitempty"`
}

// Legend positions the trace legend.
type Legend struct {
	Orientation string   `json:"orientation,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	XAnchor     string   `json:"xanchor,omitempty"`
	YAnchor     string   `json:"yanchor,omitempty"`
	Title       *Title   `json:"title,omitempty"`
}

// Margin sets plot margins in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Shape is a line or rectangle drawn on the plot.
type Shape struct {
	Type      string  `json:"type"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X0        any     `json:"x0"`
	X1        any     `json:"x1"`
	Y0        any     `json:"y0"`
	Y1        any     `json:"y1"`
	Line      *Line   `json:"line,omitempty"`
	FillColor string  `json:"fillcolor,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
	Layer     string  `json:"layer,omitempty"`
}

// Annotation is a text label, optionally with an arrow.
type Annotation struct {
	X         any      `json:"x"`
	Y         any      `json:"y"`
	XRef      string   `json:"xref,omitempty"`
	YRef      string   `json:"yref,omitempty"`
	Text      string   `json:"text"`
	ShowArrow *bool    `json:"showarrow,omitempty"`
	ArrowHead int      `json:"arrowhead,omitempty"`
	AX        *float64 `json:"ax,omitempty"`
	AY        *float64 `json:"ay,omitempty"`
	XAnchor   string   `json:"xanchor,omitempty"`
	YAnchor   string   `json:"yanchor,omitempty"`
	Font      *Font    `json:"font,omitempty"`
	BGColor   string   `json:"bgcolor,omitempty"`
}

// UpdateMenu is a group of buttons that restyle the figure.
type UpdateMenu struct {
	Type        string   `json:"type,omitempty"`
	Direction   string   `json:"direction,omitempty"`
	Active      int      `json:"active"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	XAnchor     string   `json:"xanchor,omitempty"`
	YAnchor     string   `json:"yanchor,omitempty"`
	ShowActive  *bool    `json:"showactive,omitempty"`
	BGColor     string   `json:"bgcolor,omitempty"`
	BorderColor string   `json:"bordercolor,omitempty"`
	Font        *Font    `json:"font,omitempty"`
	Buttons     []Button `json:"buttons"`
}

// Button is one entry of an UpdateMenu.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Layout is the figure-wide configuration. Axes are keyed by their plotly
// layout name ("xaxis", "yaxis2", ...) and flattened into the layout object
// when serialized.
type Layout struct {
	Title        *Title           `json:"title,omitempty"`
	Height       int              `json:"height,omitempty"`
	BarMode      string           `json:"barmode,omitempty"`
	BoxMode      string           `json:"boxmode,omitempty"`
	HoverMode    string           `json:"hovermode,omitempty"`
	ShowLegend   *bool            `json:"showlegend,omitempty"`
	Legend       *Legend          `json:"legend,omitempty"`
	Margin       *Margin          `json:"margin,omitempty"`
	PlotBGColor  string           `json:"plot_bgcolor,omitempty"`
	PaperBGColor string           `json:"paper_bgcolor,omitempty"`
	Shapes       []Shape          `json:"shapes,omitempty"`
	Annotations  []Annotation     `json:"annotations,omitempty"`
	UpdateMenus  []UpdateMenu     `json:"updatemenus,omitempty"`
	Axes         map[string]*Axis `json:"-"`
}

// MarshalJSON flattens Axes into the layout object.
func (l Layout) MarshalJSON() ([]byte, error) {
	type plain Layout
	b, err := json.Marshal(plain(l))
	if err != nil || len(l.Axes) == 0 {
		return b, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for key, ax := range l.Axes {
		raw, err := json.Marshal(ax)
		if err != nil {
			return nil, err
		}
		m[key] = raw
	}
	return json.Marshal(m)
}

// Axis returns the axis stored under key, creating it if needed.
func (l *Layout) Axis(key string) *Axis {
	if l.Axes == nil {
		l.Axes = make(map[string]*Axis)
	}
	ax, ok := l.Axes[key]
	if !ok {
		ax = &Axis{}
		l.Axes[key] = ax
	}
	return ax
}

// XAxis returns the primary x axis.
func (l *Layout) XAxis() *Axis { return l.Axis("xaxis") }

// YAxis returns the primary y axis.
func (l *Layout) YAxis() *Axis { return l.Axis("yaxis") }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Dates formats times for a date axis.
func Dates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(DateLayout)
	}
	return out
}

// Day formats a single date for a date axis.
func Day(t time.Time) string { return t.Format(DateLayout) }

// Range is shorthand for a two-element axis range.
func Range(lo, hi any) []any { return []any{lo, hi} }

// Gaps converts values for JSON, turning NaN and infinities into nulls so
// plotly leaves a gap.
func Gaps(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}
