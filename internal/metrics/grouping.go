// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package metrics derives summary tables from loaded samples: calendar and
// seasonal groupings, descriptive statistics, N/ST ratios, LNC banding, and
// spectral means. Every function is pure and returns results in a
// deterministic order.
package metrics

import (
	"fmt"
	"slices"
	"time"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// YearMonth is a strict calendar bucket: March 2022 and March 2023 are
// different keys.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the bucket containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Start returns the first day of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Mid returns the 15th of the month, where monthly points are plotted.
func (ym YearMonth) Mid() time.Time {
	return time.Date(ym.Year, ym.Month, 15, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Compare orders buckets chronologically.
func (ym YearMonth) Compare(o YearMonth) int {
	return ym.index() - o.index()
}

func (ym YearMonth) index() int { return ym.Year*12 + int(ym.Month) - 1 }

// String formats the bucket as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MonthRange returns every month from from through to inclusive.
func MonthRange(from, to YearMonth) []YearMonth {
	var out []YearMonth
	for ym := from; ym.Compare(to) <= 0; ym = ym.Next() {
		out = append(out, ym)
	}
	return out
}

// GroupByYearMonth buckets dated samples by calendar month. Keys are
// returned in chronological order; undated samples are skipped.
func GroupByYearMonth(samples []dataset.Sample) ([]YearMonth, map[YearMonth][]dataset.Sample) {
	groups := make(map[YearMonth][]dataset.Sample)
	for _, s := range samples {
		if !s.HasDate() {
			continue
		}
		k := YearMonthOf(s.Date)
		groups[k] = append(groups[k], s)
	}
	keys := make([]YearMonth, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, YearMonth.Compare)
	return keys, groups
}

// GroupByMonthOfYear is the seasonal counterpart of GroupByYearMonth: it
// pools the same calendar month across all years. Keys are returned
// January first.
func GroupByMonthOfYear(samples []dataset.Sample) ([]time.Month, map[time.Month][]dataset.Sample) {
	groups := make(map[time.Month][]dataset.Sample)
	for _, s := range samples {
		if !s.HasDate() {
			continue
		}
		groups[s.Date.Month()] = append(groups[s.Date.Month()], s)
	}
	keys := make([]time.Month, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, groups
}

// Between returns the samples dated within [from, to], both inclusive.
func Between(t *dataset.Table, from, to time.Time) (*dataset.Table, error) {
	if err := t.Require(dataset.ColDate); err != nil {
		return nil, err
	}
	return t.Filter(func(s *dataset.Sample) bool {
		return s.HasDate() && !s.Date.Before(from) && !s.Date.After(to)
	}), nil
}

// Date is a convenience for building UTC calendar dates.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
