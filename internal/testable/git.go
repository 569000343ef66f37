// Package testable provides interfaces for mocking external dependencies
// such as go-git operations. Production code uses the Real* implementations;
// tests can inject mock implementations to avoid hitting real git repos.
package testable

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitOpener abstracts opening the git repository that contains a path.
// Production code uses RealGitOpener; tests inject a mock to avoid
// filesystem dependencies.
type GitOpener interface {
	Open(path string) (GitRepository, error)
}

// GitRepository is the subset of *git.Repository needed to stamp a report
// with the revision of its input data.
type GitRepository interface {
	Head() (*plumbing.Reference, error)
}

// RealGitOpener is the production implementation of GitOpener. It walks up
// from path until it finds a .git directory.
type RealGitOpener struct{}

// Open opens the enclosing git repository of path.
func (RealGitOpener) Open(path string) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// DefaultGitOpener is the production GitOpener used as default.
var DefaultGitOpener GitOpener = RealGitOpener{}

// Compile-time interface checks.
var _ GitOpener = RealGitOpener{}
var _ GitRepository = (*git.Repository)(nil)
