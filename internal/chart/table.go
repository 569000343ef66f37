package chart

// TableCell is one HTML table cell with optional styling.
type TableCell struct {
	Text       string
	Background string
	Color      string
	Bold       bool
}

// TableRow is one body row.
type TableRow struct {
	Cells      []TableCell
	Background string
	Bold       bool
}

// Table is an HTML table with a header row. Name identifies it when tables
// are exported outside the page.
type Table struct {
	Name    string
	Class   string
	Headers []string
	Rows    []TableRow
}

// NewTable creates a table with the given headers.
func NewTable(name string, headers ...string) *Table {
	return &Table{Name: name, Class: "treatment-table", Headers: headers}
}

// AddRow appends a row of plain cells. Values beyond the header count are
// ignored; missing values are empty.
func (t *Table) AddRow(values ...string) *TableRow {
	cells := make([]TableCell, len(t.Headers))
	for i := range cells {
		if i < len(values) {
			cells[i].Text = values[i]
		}
	}
	return t.AddCells(cells...)
}

// AddCells appends a row of styled cells.
func (t *Table) AddCells(cells ...TableCell) *TableRow {
	t.Rows = append(t.Rows, TableRow{Cells: cells})
	return &t.Rows[len(t.Rows)-1]
}

// Text returns the header followed by every row as plain strings.
func (t *Table) Text() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Headers...))
	for _, r := range t.Rows {
		row := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			row[i] = c.Text
		}
		out = append(out, row)
	}
	return out
}
