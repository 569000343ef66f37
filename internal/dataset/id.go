package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Collection sites. Unknown marks IDs with no recognizable site code.
const (
	Gilat       = "Gilat"
	Kedma       = "Kedma"
	KfarMenahem = "Kfar Menahem"
	Kabri       = "Kabri"
	Unknown     = "Unknown"
)

// Sites lists the four collection sites in map order.
var Sites = []string{Kabri, KfarMenahem, Kedma, Gilat}

var cropPrefixes = []struct {
	prefix string
	crop   string
}{
	{"alm", "Almond"},
	{"cit", "Citrus"},
	{"avo", "Avocado"},
	{"vin", "Vine"},
}

// ParseCrop returns the crop encoded in the ID prefix, or "" when none match.
func ParseCrop(id string) string {
	lower := strings.ToLower(id)
	for _, p := range cropPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.crop
		}
	}
	return ""
}

// ParseLocation returns the collection site code found anywhere in the ID.
func ParseLocation(id string) string {
	lower := strings.ToLower(id)
	switch {
	case strings.Contains(lower, "gil"), strings.Contains(lower, "glt"):
		return Gilat
	case strings.Contains(lower, "ked"):
		return Kedma
	case strings.Contains(lower, "kfa"):
		return KfarMenahem
	case strings.Contains(lower, "kab"), strings.Contains(lower, "kbr"):
		return Kabri
	default:
		return Unknown
	}
}

var eightDigits = regexp.MustCompile(`\d{8}`)

// ParseDate reads the first run of eight digits in the ID as YYYYMMDD.
// Years outside 2000-2030 and impossible calendar dates are rejected.
func ParseDate(id string) (time.Time, bool) {
	m := eightDigits.FindString(id)
	if m == "" {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[:4])
	month, _ := strconv.Atoi(m[4:6])
	day, _ := strconv.Atoi(m[6:8])
	if year < 2000 || year > 2030 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day {
		// time.Date normalizes Feb 30 to Mar 2.
		return time.Time{}, false
	}
	return d, true
}

// annotate fills Crop, Location, and Date from the sample ID. Date is left
// alone when the source already supplied one.
func annotate(s *Sample) {
	s.Crop = ParseCrop(s.ID)
	s.Location = ParseLocation(s.ID)
	if s.Date.IsZero() {
		if d, ok := ParseDate(s.ID); ok {
			s.Date = d
		}
	}
}
