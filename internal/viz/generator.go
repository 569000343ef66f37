// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package viz provides the registry of visualization generators. Each
// generator loads its inputs, derives its metrics, and composes one report
// document.
package viz

import (
	"context"
	"fmt"
	"sync"

	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/render"
	"github.com/davetashner/nitroviz/internal/style"
)

// Generator produces one standalone report page.
type Generator interface {
	// Name returns the unique identifier for this generator (e.g., "nst-ratio").
	Name() string

	// Description returns a human-readable summary of the page.
	Description() string

	// OutputFile returns the file name the page is written to.
	OutputFile() string

	// Generate loads the generator's inputs and composes the page. It must
	// not write anything; the caller owns output. Generators hold no state
	// between calls and may run concurrently.
	Generate(ctx context.Context, env *Env) (*render.Document, error)
}

// Env is what a generator reads from.
type Env struct {
	Loader *dataset.Loader
	Paths  dataset.Paths
	Theme  *style.Theme
}

// NewEnv returns an Env reading the standard files under dataDir with the
// default theme.
func NewEnv(dataDir string) *Env {
	return &Env{
		Loader: &dataset.Loader{},
		Paths:  dataset.PathsIn(dataDir),
		Theme:  style.Default(),
	}
}

func (e *Env) theme() *style.Theme {
	if e.Theme == nil {
		return style.Default()
	}
	return e.Theme
}

func (e *Env) loader() *dataset.Loader {
	if e.Loader == nil {
		return &dataset.Loader{}
	}
	return e.Loader
}

// The built-in pages register in reading order, so List and the index page
// follow the story from data collection to the N/ST ratio.
func init() {
	for _, g := range []Generator{
		dataCollection{},
		spectralExplorer{},
		npkExperiment{},
		stVariance{},
		lncClassification{},
		nstRatio{},
	} {
		Register(g)
	}
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Generator)
	order    []string // insertion order for deterministic listing
)

// Register adds a generator to the global registry.
// It panics if a generator with the same name is already registered.
func Register(g Generator) {
	mu.Lock()
	defer mu.Unlock()
	name := g.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("visualization already registered: %s", name))
	}
	registry[name] = g
	order = append(order, name)
}

// Get returns the generator with the given name, or nil if not found.
func Get(name string) Generator {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns the names of all registered generators in registration order.
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
	registry = make(map[string]Generator)
	order = nil
}
