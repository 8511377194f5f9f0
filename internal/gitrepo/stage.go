package gitrepo

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// StageAllTracked adds every modified-but-unstaged tracked path to the
// index, without touching untracked files: a brand-new file was never
// introduced by any candidate commit, so there is nothing for absorb to
// attribute it to, and staging it would only confuse the plan.
func (r *Repo) StageAllTracked() error {
	wt, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("read worktree status: %w", err)
	}

	for path, s := range status {
		if s.Worktree == gogit.Untracked || s.Worktree == gogit.Unmodified {
			continue
		}
		if _, err := wt.Add(path); err != nil {
			return fmt.Errorf("stage %s: %w", path, err)
		}
	}
	return nil
}

// UnstagePaths resets the index entries for paths back to HEAD's content
// (or drops them from the index if HEAD has no such path), leaving the
// working tree untouched. Used to return hunks an auto-staged run could
// not absorb to their original unstaged state.
func (r *Repo) UnstagePaths(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	headTree, err := head.Tree()
	if err != nil {
		return fmt.Errorf("load HEAD tree: %w", err)
	}

	idx, err := r.Storer.Index()
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}

	kept := make([]*index.Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		if !want[e.Name] {
			kept = append(kept, e)
			continue
		}
		entry, err := headTree.FindEntry(e.Name)
		if err != nil {
			continue // absent at HEAD too: drop it from the index entirely
		}
		e.Hash = entry.Hash
		e.Mode = entry.Mode
		kept = append(kept, e)
	}
	idx.Entries = kept

	return r.Storer.SetIndex(idx)
}
