package attribution

import (
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tummychow/git-absorb/internal/hunkmodel"
)

// fakeDiffSource is a synthetic DiffSource for unit-testing the driver
// without a real repository: it resolves BlobLinesAt purely by path,
// ignoring the commit argument entirely, which lets tests build
// stack.Candidate values around bare object.Commit literals without
// ever opening a repo.
type fakeDiffSource struct {
	staged map[string][][]byte // path -> lines at the candidate's tree
}

func (f *fakeDiffSource) StagedHunks() (map[string][]hunkmodel.Hunk, error) {
	return nil, nil
}

func (f *fakeDiffSource) BlobLinesAt(commit *object.Commit, path string) ([][]byte, error) {
	return f.staged[path], nil
}
