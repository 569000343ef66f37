// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes nitroviz generation and the N/ST summary as tools over stdio
// transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davetashner/nitroviz/internal/config"
)

// PathInfo holds the resolved location of a nitroviz project.
type PathInfo struct {
	// AbsPath is the absolute, symlink-resolved path.
	AbsPath string
	// ProjectRoot is the nearest directory at or above AbsPath holding a
	// config file, or AbsPath when there is none.
	ProjectRoot string
}

// ResolvePath resolves a project path to an absolute directory and finds
// its config root. It returns an error if the path does not exist or is not
// a directory.
func ResolvePath(path string) (*PathInfo, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", path)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", path)
	}

	root := absPath
	for !hasConfig(root) {
		parent := filepath.Dir(root)
		if parent == root {
			root = absPath
			break
		}
		root = parent
	}

	return &PathInfo{
		AbsPath:     absPath,
		ProjectRoot: root,
	}, nil
}

func hasConfig(dir string) bool {
	for _, name := range []string{config.FileName, config.TOMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// under anchors a relative dir at base. Absolute dirs are returned as is.
func under(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}
