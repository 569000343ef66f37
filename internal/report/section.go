// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package report provides a pluggable section registry for nitroviz summary.
// Each section digests one of the source tables into a short terminal table.
package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// ErrDataNotAvailable indicates a section's source table is missing,
// typically because its input file is absent from the data directory.
var ErrDataNotAvailable = errors.New("data not available")

// Section is a pluggable report section that analyzes the source tables and
// renders a focused summary.
type Section interface {
	// Name returns the unique identifier for this section (e.g., "lnc-bands").
	Name() string

	// Description returns a human-readable description of what this section reports.
	Description() string

	// Analyze processes the sources and prepares internal state for rendering.
	// Returns ErrDataNotAvailable (wrapped) if the required table is missing.
	Analyze(src *Sources) error

	// Render writes the section output to w.
	Render(w io.Writer) error
}

// Sources holds the tables sections read. A nil table was not available.
type Sources struct {
	Unified *dataset.Table
	NPK     *dataset.Table
}

// LoadSources reads the unified and NPK tables. A missing file leaves its
// table nil so dependent sections are skipped; any other failure is
// returned.
func LoadSources(l *dataset.Loader, paths dataset.Paths) (*Sources, error) {
	src := &Sources{}
	var err error
	if src.Unified, err = optional(l.LoadUnified(paths.Unified)); err != nil {
		return nil, err
	}
	if src.NPK, err = optional(l.LoadNPK(paths.NPK)); err != nil {
		return nil, err
	}
	return src, nil
}

func optional(t *dataset.Table, err error) (*dataset.Table, error) {
	if errors.Is(err, dataset.ErrMissingFile) {
		slog.Debug("source unavailable", "error", err)
		return nil, nil
	}
	return t, err
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Section)
	order    []string // insertion order for deterministic listing
)

// Register adds a section to the global registry.
// It panics if a section with the same name is already registered.
func Register(s Section) {
	mu.Lock()
	defer mu.Unlock()
	name := s.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("report section already registered: %s", name))
	}
	registry[name] = s
	order = append(order, name)
}

// Get returns the section with the given name, or nil if not found.
func Get(name string) Section {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns the names of all registered sections in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Section)
	order = nil
}
