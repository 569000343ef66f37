// Package provenance identifies the revision of the input data a report was
// generated from.
package provenance

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/davetashner/nitroviz/internal/testable"
)

// shortHashLen is the number of hex digits kept for display.
const shortHashLen = 12

// Revision returns the abbreviated HEAD commit of the git repository that
// contains dir. A dir outside any repository, or a repository with no
// commits yet, yields "" and no error: unversioned data is not a failure.
func Revision(opener testable.GitOpener, dir string) (string, error) {
	if opener == nil {
		opener = testable.DefaultGitOpener
	}
	repo, err := opener.Open(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("open repository for %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD for %s: %w", dir, err)
	}

	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash, nil
}
