// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath_ValidDirectory(t *testing.T) {
	dir := t.TempDir()
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	info, err := ResolvePath(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, info.AbsPath)
	// No config file, so ProjectRoot should equal AbsPath.
	assert.Equal(t, dir, info.ProjectRoot)
}

func TestResolvePath_EmptyDefaultsToCwd(t *testing.T) {
	info, err := ResolvePath("")
	require.NoError(t, err)
	assert.NotEmpty(t, info.AbsPath)
}

func TestResolvePath_NonexistentPath(t *testing.T) {
	_, err := ResolvePath("/nonexistent/path/that/does/not/exist")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve path")
}

func TestResolvePath_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "unified_dataset.parquet")
	require.NoError(t, os.WriteFile(file, []byte("PAR1"), 0o600))

	_, err := ResolvePath(file)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestResolvePath_NullByteRejected(t *testing.T) {
	_, err := ResolvePath("data\x00dir")
	require.Error(t, err)
}

func TestResolvePath_FindsConfigRoot(t *testing.T) {
	for _, name := range []string{".nitroviz.yaml", ".nitroviz.toml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			dir, err := filepath.EvalSymlinks(dir)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))

			subdir := filepath.Join(dir, "data", "raw")
			require.NoError(t, os.MkdirAll(subdir, 0o750))

			info, err := ResolvePath(subdir)
			require.NoError(t, err)
			assert.Equal(t, subdir, info.AbsPath)
			assert.Equal(t, dir, info.ProjectRoot)
		})
	}
}

func TestResolvePath_SymlinkToDirResolved(t *testing.T) {
	realDir := t.TempDir()
	realDir, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)

	linkPath := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.Symlink(realDir, linkPath))

	info, err := ResolvePath(linkPath)
	require.NoError(t, err)
	assert.Equal(t, realDir, info.AbsPath)
}

func TestUnder(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", "data"), under("/proj", "data"))
	assert.Equal(t, "/srv/data", under("/proj", "/srv/data/"))
	assert.Equal(t, "/shared", under("/proj", "../shared"))
}

func FuzzResolvePath(f *testing.F) {
	f.Add(".")
	f.Add("")
	f.Add("data/../output")
	f.Add("path/with\x00null")

	f.Fuzz(func(t *testing.T, input string) {
		ResolvePath(input) //nolint:errcheck // fuzz: testing crash-freedom
	})
}
