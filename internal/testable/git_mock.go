package testable

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// MockGitOpener is a test double for GitOpener.
// Set OpenFunc to control Open behavior. If nil, Open returns the Repo field
// (or ErrRepositoryNotExists if Repo is nil).
type MockGitOpener struct {
	// Repo is the repository returned by Open when OpenFunc is nil.
	Repo GitRepository

	// OpenErr is the error returned by Open when OpenFunc is nil.
	OpenErr error

	// OpenFunc, if set, is called instead of using Repo/OpenErr.
	OpenFunc func(path string) (GitRepository, error)

	// OpenCalls records the paths passed to Open.
	OpenCalls []string
}

// Open records the call and delegates to OpenFunc or returns Repo/OpenErr.
func (m *MockGitOpener) Open(path string) (GitRepository, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Repo != nil {
		return m.Repo, nil
	}
	return nil, git.ErrRepositoryNotExists
}

// MockGitRepository is a test double for GitRepository.
type MockGitRepository struct {
	// HeadRef is returned by Head().
	HeadRef *plumbing.Reference
	// HeadErr is the error returned by Head().
	HeadErr error
}

// Head returns HeadRef and HeadErr.
func (m *MockGitRepository) Head() (*plumbing.Reference, error) {
	return m.HeadRef, m.HeadErr
}

// Compile-time interface checks.
var _ GitOpener = (*MockGitOpener)(nil)
var _ GitRepository = (*MockGitRepository)(nil)
