// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/davetashner/nitroviz/internal/testable"
)

// Default source file names inside the data directory.
const (
	UnifiedFile   = "unified_dataset.parquet"
	NPKFile       = "npk_5_treatments_samples.csv"
	SpectralFile  = "spectral_data.csv"
	LocationsFile = "israel_locations.json"
)

// Paths locates the four sources.
type Paths struct {
	Unified   string
	NPK       string
	Spectral  string
	Locations string
}

// PathsIn returns the default source paths under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Unified:   filepath.Join(dir, UnifiedFile),
		NPK:       filepath.Join(dir, NPKFile),
		Spectral:  filepath.Join(dir, SpectralFile),
		Locations: filepath.Join(dir, LocationsFile),
	}
}

// Loader reads sources through an injectable FileSystem. The zero value
// uses testable.DefaultFS.
type Loader struct {
	FS testable.FileSystem
}

func (l *Loader) fs() testable.FileSystem {
	if l == nil || l.FS == nil {
		return testable.DefaultFS
	}
	return l.FS
}

// open opens path for reading, mapping a missing file to ErrMissingFile.
func (l *Loader) open(path string) (*os.File, error) {
	f, err := l.fs().Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingFile)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func parseErr(path string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", path, ErrParse, fmt.Sprintf(format, args...))
}
