package chart

// New returns an empty figure with a title.
func New(title string) *Figure {
	f := &Figure{}
	if title != "" {
		f.Layout.Title = &Title{Text: title, Font: &Font{Size: 16}}
	}
	return f
}

// Add appends traces.
func (f *Figure) Add(traces ...Trace) *Figure {
	f.Data = append(f.Data, traces...)
	return f
}

// Annotate appends an annotation.
func (f *Figure) Annotate(a Annotation) *Figure {
	f.Layout.Annotations = append(f.Layout.Annotations, a)
	return f
}

// Scatter builds a scatter trace.
func Scatter(name string, x, y any, mode string) Trace {
	return Trace{Type: "scatter", Name: name, X: x, Y: y, Mode: mode}
}

// Bar builds a bar trace colored c.
func Bar(name string, x, y any, c string) Trace {
	return Trace{Type: "bar", Name: name, X: x, Y: y, Marker: &Marker{Color: c}}
}

// Box builds a box trace colored c with the mean marked.
func Box(name string, y any, c string) Trace {
	return Trace{Type: "box", Name: name, Y: y, BoxMean: true, Marker: &Marker{Color: c}}
}

// HLine draws a horizontal line across the full plot width at y.
func (f *Figure) HLine(y float64, line Line) *Figure {
	f.Layout.Shapes = append(f.Layout.Shapes, Shape{
		Type: "line", XRef: "paper", YRef: "y",
		X0: 0, X1: 1, Y0: y, Y1: y,
		Line: &line,
	})
	return f
}

// VLine draws a vertical line across the full plot height at x.
func (f *Figure) VLine(x any, line Line) *Figure {
	f.Layout.Shapes = append(f.Layout.Shapes, Shape{
		Type: "line", XRef: "x", YRef: "paper",
		X0: x, X1: x, Y0: 0, Y1: 1,
		Line: &line,
	})
	return f
}

// VRect shades the full-height band between x0 and x1 and, when label is
// set, writes it at the top left of the band.
func (f *Figure) VRect(x0, x1 any, fill string, opacity float64, label string) *Figure {
	f.Layout.Shapes = append(f.Layout.Shapes, Shape{
		Type: "rect", XRef: "x", YRef: "paper",
		X0: x0, X1: x1, Y0: 0, Y1: 1,
		FillColor: fill, Opacity: opacity, Layer: "below",
		Line: &Line{Color: Transparent},
	})
	if label != "" {
		f.Annotate(Annotation{
			X: x0, Y: 1, XRef: "x", YRef: "paper",
			Text: label, ShowArrow: Bool(false),
			XAnchor: "left", YAnchor: "top",
		})
	}
	return f
}

// Transparent hides a line without removing it.
const Transparent = "rgba(0, 0, 0, 0)"

// HorizontalLegend places the legend centered above the plot.
func HorizontalLegend() *Legend {
	return &Legend{Orientation: "h", X: Float(0.5), Y: Float(1.02), XAnchor: "center", YAnchor: "bottom"}
}

// AxisTitle is shorthand for an axis title.
func AxisTitle(text string) *Title { return &Title{Text: text} }
