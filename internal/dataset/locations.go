package dataset

import (
	"encoding/json"
)

// Location is a site coordinate in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type locationsFile struct {
	Locations map[string]Location `json:"locations"`
}

// LoadLocations reads the site coordinate file, shaped as
// {"locations": {"<site>": {"lat": .., "lon": ..}}}.
func (l *Loader) LoadLocations(path string) (map[string]Location, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	var lf locationsFile
	if err := json.NewDecoder(f).Decode(&lf); err != nil {
		return nil, parseErr(path, "%v", err)
	}
	if lf.Locations == nil {
		return nil, parseErr(path, "no \"locations\" object")
	}
	return lf.Locations, nil
}
