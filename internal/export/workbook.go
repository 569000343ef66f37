// Package export writes side outputs of generated documents: an xlsx
// workbook of every table and static PNG renderings of line charts.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/testable"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Page is one generated document's tables, labeled by generator name.
type Page struct {
	Name   string
	Tables []*chart.Table
}

// Workbook builds a workbook with one sheet per table, in page order.
// Sheet names are "<page> <table>", cut to Excel's limit and made unique.
// The caller must Close the returned file.
func Workbook(pages []Page) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E8F5E9"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	used := make(map[string]bool)
	first := true
	for _, p := range pages {
		for _, tbl := range p.Tables {
			name := sheetName(p.Name+" "+tbl.Name, used)
			if first {
				if err := f.SetSheetName("Sheet1", name); err != nil {
					_ = f.Close()
					return nil, err
				}
				first = false
			} else if _, err := f.NewSheet(name); err != nil {
				_ = f.Close()
				return nil, err
			}
			if err := writeTable(f, name, tbl, bold); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
		}
	}
	return f, nil
}

// WriteWorkbook builds the workbook and writes it atomically to path.
func WriteWorkbook(fsys testable.FileSystem, path string, pages []Page) error {
	f, err := Workbook(pages)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // in-memory file

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, render.ErrWrite, err)
	}
	return render.WriteAtomic(fsys, path, buf.Bytes())
}

func writeTable(f *excelize.File, sheet string, tbl *chart.Table, headerStyle int) error {
	for i, row := range tbl.Text() {
		for j, text := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(text, i == 0)); err != nil {
				return err
			}
		}
	}
	if len(tbl.Headers) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(tbl.Headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

// cellValue stores plain numbers, including comma-grouped counts, as
// numbers so the sheet can be summed. Everything else stays text.
func cellValue(text string, header bool) any {
	if header {
		return text
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64); err == nil {
		return v
	}
	return text
}

// sheetName sanitizes name for Excel and disambiguates it against used.
func sheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	base := truncate(name, maxSheetName)
	out := base
	for n := 2; used[strings.ToLower(out)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		out = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(out)] = true
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
