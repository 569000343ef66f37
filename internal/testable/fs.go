// Package testable provides interfaces for abstracting OS-level operations,
// enabling mock injection in tests without modifying production behavior.
package testable

import (
	"os"
)

// FileSystem abstracts the file operations used by the dataset loaders and
// the document writer. The production implementation (OsFileSystem)
// delegates to the standard library.
type FileSystem interface {
	// Stat returns a FileInfo describing the named file.
	Stat(name string) (os.FileInfo, error)

	// Open opens the named file for reading.
	Open(name string) (*os.File, error)

	// ReadFile reads the named file and returns the contents.
	ReadFile(name string) ([]byte, error)

	// MkdirAll creates a directory named path, along with any necessary parents.
	MkdirAll(path string, perm os.FileMode) error

	// CreateTemp creates a new temporary file in dir.
	CreateTemp(dir, pattern string) (*os.File, error)

	// Rename moves oldpath to newpath, replacing newpath if it exists.
	Rename(oldpath, newpath string) error

	// Remove removes the named file.
	Remove(name string) error
}

// OsFileSystem is the production implementation of FileSystem that delegates
// to the standard library os package.
type OsFileSystem struct{}

// Stat wraps os.Stat.
func (OsFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Open wraps os.Open.
func (OsFileSystem) Open(name string) (*os.File, error) {
	return os.Open(name) //nolint:gosec // caller controls path
}

// ReadFile wraps os.ReadFile.
func (OsFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec // caller controls path
}

// MkdirAll wraps os.MkdirAll.
func (OsFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CreateTemp wraps os.CreateTemp.
func (OsFileSystem) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

// Rename wraps os.Rename.
func (OsFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove wraps os.Remove.
func (OsFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// DefaultFS is the production FileSystem used as the default throughout
// the application. All packages should use this as their default when no
// custom FileSystem is injected.
var DefaultFS FileSystem = OsFileSystem{}
