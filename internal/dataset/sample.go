// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package dataset loads the spectroscopy sources (parquet, CSV, and JSON)
// into immutable in-memory tables.
package dataset

import (
	"fmt"
	"slices"
	"time"
)

// Column names referenced by the loaders and derivations.
const (
	ColID        = "ID"
	ColN         = "N_Value"
	ColSC        = "SC_Value"
	ColST        = "ST_Value"
	ColDate      = "parsed_date"
	ColTreatment = "treatment"
)

// Reading is an optional numeric measurement. Empty and NaN cells load as
// an invalid Reading rather than zero.
type Reading struct {
	Value float64
	Valid bool
}

// Some returns a valid Reading holding v.
func Some(v float64) Reading { return Reading{Value: v, Valid: true} }

// Sample is one leaf sample. Fields not present in the source stay at their
// zero value; Date is zero when unknown.
type Sample struct {
	ID        string
	Crop      string
	Location  string
	Date      time.Time
	Treatment string
	N         Reading
	SC        Reading
	ST        Reading
	Spectrum  []float64
}

// Measure returns the reading stored under a measurement column name.
func (s *Sample) Measure(col string) Reading {
	switch col {
	case ColN:
		return s.N
	case ColSC:
		return s.SC
	case ColST:
		return s.ST
	default:
		return Reading{}
	}
}

// HasDate reports whether the sample carries a collection date.
func (s *Sample) HasDate() bool { return !s.Date.IsZero() }

// Table is a named set of samples together with the columns its source
// provided.
type Table struct {
	Name    string
	Columns []string
	Samples []Sample

	// Wavelengths holds the spectral axis, aligned with Sample.Spectrum.
	// It is empty for non-spectral tables.
	Wavelengths []float64
}

// Has reports whether the source provided column col.
func (t *Table) Has(col string) bool {
	return slices.Contains(t.Columns, col)
}

// Require returns a wrapped ErrMissingColumn naming the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("table %s: column %q: %w", t.Name, c, ErrMissingColumn)
		}
	}
	return nil
}

// Filter returns a new table holding the samples for which keep is true.
func (t *Table) Filter(keep func(*Sample) bool) *Table {
	out := &Table{Name: t.Name, Columns: t.Columns, Wavelengths: t.Wavelengths}
	for i := range t.Samples {
		if keep(&t.Samples[i]) {
			out.Samples = append(out.Samples, t.Samples[i])
		}
	}
	return out
}

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.Samples) }
