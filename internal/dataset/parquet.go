package dataset

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const rowBatch = 256

// LoadUnified reads the unified parquet dataset. Leaf columns are matched by
// name so the file may carry extra columns in any order, and numeric
// readings are accepted from any numeric physical type.
func (l *Loader) LoadUnified(path string) (*Table, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	info, err := f.Stat()
	if err != nil {
		return nil, parseErr(path, "%v", err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, parseErr(path, "%v", err)
	}

	leaves := pf.Schema().Columns()
	names := make([]string, len(leaves))
	t := &Table{Name: "unified", Columns: make([]string, 0, len(leaves))}
	for i, leaf := range leaves {
		names[i] = strings.Join(leaf, ".")
		t.Columns = append(t.Columns, names[i])
	}

	buf := make([]parquet.Row, rowBatch)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, names, buf, t); err != nil {
			return nil, parseErr(path, "%v", err)
		}
	}

	slog.Debug("loaded unified samples", "path", path, "rows", len(t.Samples))
	return t, nil
}

func readRowGroup(rg parquet.RowGroup, names []string, buf []parquet.Row, t *Table) error {
	rows := rg.Rows()
	defer rows.Close() //nolint:errcheck // reader is discarded

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			var s Sample
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(names) {
					continue
				}
				switch names[c] {
				case ColID:
					s.ID = valueString(v)
				case ColN:
					s.N = valueReading(v)
				case ColSC:
					s.SC = valueReading(v)
				case ColST:
					s.ST = valueReading(v)
				}
			}
			annotate(&s)
			t.Samples = append(t.Samples, s)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func valueString(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func valueReading(v parquet.Value) Reading {
	if v.IsNull() {
		return Reading{}
	}
	var f float64
	switch v.Kind() {
	case parquet.Float:
		f = float64(v.Float())
	case parquet.Double:
		f = v.Double()
	case parquet.Int32:
		f = float64(v.Int32())
	case parquet.Int64:
		f = float64(v.Int64())
	case parquet.ByteArray:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(string(v.ByteArray())), 64)
		if err != nil {
			return Reading{}
		}
		f = parsed
	default:
		return Reading{}
	}
	if math.IsNaN(f) {
		return Reading{}
	}
	return Some(f)
}
