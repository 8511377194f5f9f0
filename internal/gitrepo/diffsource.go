package gitrepo

import (
	"sync"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tummychow/git-absorb/internal/hunkmodel"
)

// DiffSource is the narrow capability the attribution driver needs from a
// repository: the staged hunks to attribute, and a way to read a path's
// content at an arbitrary commit so the commutation safety check can
// confirm a hunk's removed lines are still present at its candidate
// target. Driver and commuter tests satisfy this with a synthetic fake
// instead of a real repository.
type DiffSource interface {
	StagedHunks() (map[string][]hunkmodel.Hunk, error)
	BlobLinesAt(commit *object.Commit, path string) ([][]byte, error)
}

// goGitMu serializes object reads that may come from concurrent
// attribution workers, since a go-git repository handle is not safe for
// unsynchronized concurrent use.
var goGitMu sync.Mutex

// BlobLinesAt implements DiffSource by reading path out of commit's tree.
// A path absent from the tree (the hunk is a pure insertion with nothing
// to verify against) returns a nil slice and no error.
func (r *Repo) BlobLinesAt(commit *object.Commit, path string) ([][]byte, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	lines, err := BlobLines(tree, path)
	if err != nil {
		return nil, nil
	}
	return lines, nil
}

var _ DiffSource = (*Repo)(nil)
