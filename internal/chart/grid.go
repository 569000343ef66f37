package chart

import "strconv"

// Grid lays out subplots on a rows x cols grid in paper coordinates, in the
// manner of plotly's make_subplots. Row 1 is the top row.
type Grid struct {
	rows, cols int
	hSpacing   float64
	vSpacing   float64
	sharedY    bool
	cells      []gridCell
}

type gridCell struct {
	row, col, span int
	title          string
}

// Subplot names the axes of one grid cell. Use XRef and YRef on traces and
// XKey and YKey with Layout.Axis.
type Subplot struct {
	XRef, YRef string
	XKey, YKey string
}

// NewGrid returns an empty grid. Spacings are fractions of the figure.
func NewGrid(rows, cols int, hSpacing, vSpacing float64) *Grid {
	return &Grid{rows: rows, cols: cols, hSpacing: hSpacing, vSpacing: vSpacing}
}

// ShareY makes every subplot's y axis follow the first one.
func (g *Grid) ShareY() *Grid {
	g.sharedY = true
	return g
}

// Cell registers a subplot at row, col spanning span columns and returns
// its axis names. Cells are numbered in the order they are added.
func (g *Grid) Cell(row, col, span int, title string) Subplot {
	if span < 1 {
		span = 1
	}
	g.cells = append(g.cells, gridCell{row: row, col: col, span: span, title: title})
	return subplotAt(len(g.cells))
}

func subplotAt(n int) Subplot {
	suffix := ""
	if n > 1 {
		suffix = strconv.Itoa(n)
	}
	return Subplot{
		XRef: "x" + suffix, YRef: "y" + suffix,
		XKey: "xaxis" + suffix, YKey: "yaxis" + suffix,
	}
}

// XDomain returns the horizontal extent of a cell.
func (g *Grid) XDomain(col, span int) (float64, float64) {
	w := (1 - g.hSpacing*float64(g.cols-1)) / float64(g.cols)
	x0 := float64(col-1) * (w + g.hSpacing)
	x1 := x0 + w*float64(span) + g.hSpacing*float64(span-1)
	return x0, x1
}

// YDomain returns the vertical extent of a row.
func (g *Grid) YDomain(row int) (float64, float64) {
	h := (1 - g.vSpacing*float64(g.rows-1)) / float64(g.rows)
	y1 := 1 - float64(row-1)*(h+g.vSpacing)
	return y1 - h, y1
}

// Apply writes axis domains, anchors, and subplot titles into f.
func (g *Grid) Apply(f *Figure) {
	for i, c := range g.cells {
		sp := subplotAt(i + 1)
		x0, x1 := g.XDomain(c.col, c.span)
		y0, y1 := g.YDomain(c.row)

		xa := f.Layout.Axis(sp.XKey)
		xa.Domain = []float64{x0, x1}
		xa.Anchor = sp.YRef

		ya := f.Layout.Axis(sp.YKey)
		ya.Domain = []float64{y0, y1}
		ya.Anchor = sp.XRef
		if g.sharedY && i > 0 {
			ya.Matches = "y"
		}

		if c.title != "" {
			f.Annotate(Annotation{
				X: (x0 + x1) / 2, Y: y1, XRef: "paper", YRef: "paper",
				Text: c.title, ShowArrow: Bool(false),
				XAnchor: "center", YAnchor: "bottom",
				Font: &Font{Size: 14},
			})
		}
	}
}
