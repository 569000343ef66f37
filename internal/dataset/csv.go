package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// Wavelength columns are numeric headers strictly inside this range (nm).
const (
	minWavelength = 3000
	maxWavelength = 11000
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// readCSV returns the header and records of a CSV file.
func (l *Loader) readCSV(path string) ([]string, [][]string, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, parseErr(path, "empty file")
	}
	if err != nil {
		return nil, nil, parseErr(path, "%v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, parseErr(path, "%v", err)
	}
	return header, records, nil
}

// parseReading decodes a numeric cell. Empty and NaN-like cells yield an
// invalid Reading.
func parseReading(cell string) (Reading, error) {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return Reading{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Reading{}, err
	}
	if math.IsNaN(v) {
		return Reading{}, nil
	}
	return Some(v), nil
}

func parseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date " + strconv.Quote(s))
}

// LoadNPK reads the NPK treatment CSV. Columns are optional at load time;
// derivations check for the ones they need with Table.Require.
func (l *Loader) LoadNPK(path string) (*Table, error) {
	header, records, err := l.readCSV(path)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}

	t := &Table{Name: "npk", Columns: header, Samples: make([]Sample, 0, len(records))}
	for n, rec := range records {
		line := n + 2
		var s Sample
		if i, ok := idx[ColID]; ok {
			s.ID = rec[i]
			annotate(&s)
		}
		if i, ok := idx[ColDate]; ok {
			d, err := parseDate(rec[i])
			if err != nil {
				return nil, parseErr(path, "line %d: %v", line, err)
			}
			if !d.IsZero() {
				s.Date = d
			}
		}
		if i, ok := idx[ColTreatment]; ok {
			s.Treatment = strings.TrimSpace(rec[i])
		}
		for _, col := range []string{ColN, ColSC, ColST} {
			i, ok := idx[col]
			if !ok {
				continue
			}
			r, err := parseReading(rec[i])
			if err != nil {
				return nil, parseErr(path, "line %d: %s: %v", line, col, err)
			}
			switch col {
			case ColN:
				s.N = r
			case ColSC:
				s.SC = r
			case ColST:
				s.ST = r
			}
		}
		t.Samples = append(t.Samples, s)
	}

	slog.Debug("loaded npk samples", "path", path, "rows", len(t.Samples))
	return t, nil
}

// LoadSpectral reads the spectral CSV. Every header that parses as a number
// strictly between 3000 and 11000 is a wavelength column.
func (l *Loader) LoadSpectral(path string) (*Table, error) {
	header, records, err := l.readCSV(path)
	if err != nil {
		return nil, err
	}

	idCol := -1
	var waveCols []int
	t := &Table{Name: "spectral", Columns: header}
	for i, h := range header {
		if h == ColID {
			idCol = i
			continue
		}
		wl, err := strconv.ParseFloat(h, 64)
		if err == nil && wl > minWavelength && wl < maxWavelength {
			waveCols = append(waveCols, i)
			t.Wavelengths = append(t.Wavelengths, wl)
		}
	}

	t.Samples = make([]Sample, 0, len(records))
	for n, rec := range records {
		var s Sample
		if idCol >= 0 {
			s.ID = rec[idCol]
			annotate(&s)
		}
		s.Spectrum = make([]float64, len(waveCols))
		for j, c := range waveCols {
			r, err := parseReading(rec[c])
			if err != nil {
				return nil, parseErr(path, "line %d: column %s: %v", n+2, header[c], err)
			}
			if r.Valid {
				s.Spectrum[j] = r.Value
			} else {
				s.Spectrum[j] = math.NaN()
			}
		}
		t.Samples = append(t.Samples, s)
	}

	slog.Debug("loaded spectra", "path", path, "rows", len(t.Samples), "wavelengths", len(t.Wavelengths))
	return t, nil
}
