package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/nitroviz/internal/testable"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestParseCrop(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"ALM_gil_20220315_01", "Almond"},
		{"cit-kbr-20230101", "Citrus"},
		{"Avo_ked_20210909", "Avocado"},
		{"vin_kfa_20240501", "Vine"},
		{"xyz_kfa_20240501", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCrop(tt.id))
		})
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"cit_gil_1", Gilat},
		{"cit_GLT_1", Gilat},
		{"cit_ked_1", Kedma},
		{"cit_kfa_1", KfarMenahem},
		{"cit_kab_1", Kabri},
		{"cit_kbr_1", Kabri},
		{"cit_tlv_1", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocation(tt.id))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("cit_gil_20220315_7")
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, time.March, 15, 0, 0, 0, 0, time.UTC), d)

	for _, id := range []string{
		"cit_gil",           // no digits
		"cit_gil_19990101",  // year too early
		"cit_gil_20311231",  // year too late
		"cit_gil_20221301",  // month 13
		"cit_gil_20220230",  // Feb 30
		"cit_gil_2022031",   // seven digits
		"cit_gil_20220100x", // day 0
	} {
		t.Run(id, func(t *testing.T) {
			_, ok := ParseDate(id)
			assert.False(t, ok)
		})
	}
}

func TestLoadNPK(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, NPKFile, "parsed_date,treatment,N_Value,ST_Value\n"+
		"2022-08-15,N10,2.5,100\n"+
		"2022-09-15 00:00:00,N60,,nan\n")

	var l Loader
	tbl, err := l.LoadNPK(p)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	s := tbl.Samples[0]
	assert.Equal(t, "N10", s.Treatment)
	assert.Equal(t, Some(2.5), s.N)
	assert.Equal(t, Some(100), s.ST)
	assert.Equal(t, time.Date(2022, 8, 15, 0, 0, 0, 0, time.UTC), s.Date)

	s = tbl.Samples[1]
	assert.False(t, s.N.Valid)
	assert.False(t, s.ST.Valid)
	assert.Equal(t, time.September, s.Date.Month())

	assert.NoError(t, tbl.Require(ColDate, ColN, ColST, ColTreatment))
	err = tbl.Require(ColSC)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "SC_Value")
}

func TestLoadNPK_MissingFile(t *testing.T) {
	var l Loader
	_, err := l.LoadNPK(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestLoadNPK_ParseErrors(t *testing.T) {
	tests := map[string]string{
		"bad number":  "parsed_date,N_Value\n2022-01-01,abc\n",
		"bad date":    "parsed_date,N_Value\nyesterday,1\n",
		"ragged rows": "parsed_date,N_Value\n2022-01-01,1,3\n",
		"empty":       "",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "npk.csv", content)
			var l Loader
			_, err := l.LoadNPK(p)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestLoadNPK_OpenErrorIsNotMissingFile(t *testing.T) {
	l := Loader{FS: &testable.MockFileSystem{
		OpenFn: func(string) (*os.File, error) { return nil, fs.ErrPermission },
	}}
	_, err := l.LoadNPK("whatever.csv")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingFile))
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestLoadSpectral(t *testing.T) {
	p := writeFile(t, t.TempDir(), SpectralFile, "ID,2999,3999.5,4001,11000,note\n"+
		"avo_ked_20220101,9,0.5,0.6,9,x\n"+
		"cit_gil_20220101,9,0.7,,9,y\n")

	var l Loader
	tbl, err := l.LoadSpectral(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{3999.5, 4001}, tbl.Wavelengths)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Avocado", tbl.Samples[0].Crop)
	assert.Equal(t, []float64{0.5, 0.6}, tbl.Samples[0].Spectrum)
	assert.True(t, isNaN(tbl.Samples[1].Spectrum[1]))
}

func isNaN(f float64) bool { return f != f }

type unifiedRow struct {
	ID string   `parquet:"ID"`
	N  float64  `parquet:"N_Value"`
	ST *float64 `parquet:"ST_Value,optional"`
}

func TestLoadUnified(t *testing.T) {
	st := 120.5
	p := filepath.Join(t.TempDir(), UnifiedFile)
	require.NoError(t, parquet.WriteFile(p, []unifiedRow{
		{ID: "cit_gil_20220315", N: 2.7, ST: &st},
		{ID: "alm_kbr_20230601", N: 2.1},
	}))

	var l Loader
	tbl, err := l.LoadUnified(p)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has(ColID))
	assert.False(t, tbl.Has(ColSC))

	s := tbl.Samples[0]
	assert.Equal(t, "Citrus", s.Crop)
	assert.Equal(t, Gilat, s.Location)
	assert.Equal(t, time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), s.Date)
	assert.Equal(t, Some(2.7), s.N)
	assert.Equal(t, Some(120.5), s.ST)

	s = tbl.Samples[1]
	assert.Equal(t, Kabri, s.Location)
	assert.False(t, s.ST.Valid)
}

func TestLoadUnified_NotParquet(t *testing.T) {
	p := writeFile(t, t.TempDir(), UnifiedFile, "ID,N_Value\nx,1\n")
	var l Loader
	_, err := l.LoadUnified(p)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadUnified_MissingFile(t *testing.T) {
	var l Loader
	_, err := l.LoadUnified(filepath.Join(t.TempDir(), UnifiedFile))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestLoadLocations(t *testing.T) {
	p := writeFile(t, t.TempDir(), LocationsFile,
		`{"locations": {"Kabri": {"lat": 33.02, "lon": 35.15}, "Gilat": {"lat": 31.33, "lon": 34.66}}}`)

	var l Loader
	locs, err := l.LoadLocations(p)
	require.NoError(t, err)
	assert.Len(t, locs, 2)
	assert.InDelta(t, 33.02, locs[Kabri].Lat, 1e-9)
}

func TestLoadLocations_Malformed(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":     `{"locations": `,
		"wrong root": `{"sites": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), LocationsFile, content)
			var l Loader
			_, err := l.LoadLocations(p)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestTable_Filter(t *testing.T) {
	tbl := &Table{Name: "x", Columns: []string{ColN}, Samples: []Sample{{N: Some(1)}, {N: Some(5)}}}
	out := tbl.Filter(func(s *Sample) bool { return s.N.Value > 2 })
	require.Equal(t, 1, out.Len())
	assert.Equal(t, 5.0, out.Samples[0].N.Value)
	assert.Equal(t, 2, tbl.Len())
}

func TestPathsIn(t *testing.T) {
	p := PathsIn("data")
	assert.Equal(t, filepath.Join("data", NPKFile), p.NPK)
	assert.Equal(t, filepath.Join("data", LocationsFile), p.Locations)
}
