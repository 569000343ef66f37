package testable

import (
	"os"
)

// MockFileSystem is a test double for FileSystem. Each method has a
// corresponding function field. When the field is non-nil, the mock calls it;
// otherwise, it falls through to OsFileSystem (real OS behavior).
//
// This design lets tests override only the methods they care about while
// keeping realistic behavior for everything else.
type MockFileSystem struct {
	StatFn       func(name string) (os.FileInfo, error)
	OpenFn       func(name string) (*os.File, error)
	ReadFileFn   func(name string) ([]byte, error)
	MkdirAllFn   func(path string, perm os.FileMode) error
	CreateTempFn func(dir, pattern string) (*os.File, error)
	RenameFn     func(oldpath, newpath string) error
	RemoveFn     func(name string) error
}

var real OsFileSystem

// Stat calls StatFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	return real.Stat(name)
}

// Open calls OpenFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Open(name string) (*os.File, error) {
	if m.OpenFn != nil {
		return m.OpenFn(name)
	}
	return real.Open(name)
}

// ReadFile calls ReadFileFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileFn != nil {
		return m.ReadFileFn(name)
	}
	return real.ReadFile(name)
}

// MkdirAll calls MkdirAllFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return real.MkdirAll(path, perm)
}

// CreateTemp calls CreateTempFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) CreateTemp(dir, pattern string) (*os.File, error) {
	if m.CreateTempFn != nil {
		return m.CreateTempFn(dir, pattern)
	}
	return real.CreateTemp(dir, pattern)
}

// Rename calls RenameFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameFn != nil {
		return m.RenameFn(oldpath, newpath)
	}
	return real.Rename(oldpath, newpath)
}

// Remove calls RemoveFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Remove(name string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(name)
	}
	return real.Remove(name)
}

// Compile-time interface check.
var _ FileSystem = (*MockFileSystem)(nil)
