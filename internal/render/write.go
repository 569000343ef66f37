package render

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/davetashner/nitroviz/internal/testable"
)

// ErrWrite indicates the output path could not be written.
var ErrWrite = errors.New("write error")

// WriteFile renders doc fully in memory, then writes it to path through a
// temporary file in the same directory and renames it into place. A failed
// render or write leaves no file at path.
func WriteFile(fsys testable.FileSystem, path string, doc *Document, r *HTMLRenderer) error {
	var buf bytes.Buffer
	if err := r.Render(doc, &buf); err != nil {
		return err
	}
	return WriteAtomic(fsys, path, buf.Bytes())
}

// WriteAtomic writes data to path via a sibling temporary file.
func WriteAtomic(fsys testable.FileSystem, path string, data []byte) error {
	if fsys == nil {
		fsys = testable.DefaultFS
	}
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrWrite, err)
	}

	tmp, err := fsys.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("%s: %w: %v", path, ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("%s: %w: %v", path, ErrWrite, err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("%s: %w: %v", path, ErrWrite, err)
	}
	return nil
}
