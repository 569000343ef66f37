// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package dataset

import "errors"

// Error kinds returned by the loaders and by Table.Require. Callers match them
// with errors.Is; the wrapping error carries the path, table, and column.
var (
	// ErrMissingFile indicates a source file does not exist.
	ErrMissingFile = errors.New("missing file")

	// ErrParse indicates a source file exists but could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrMissingColumn indicates a table lacks a column a derivation needs.
	ErrMissingColumn = errors.New("missing column")
)
