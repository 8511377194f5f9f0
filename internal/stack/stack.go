// Package stack computes the ordered list of candidate commits the
// attribution driver is allowed to absorb hunks into: HEAD's first-parent
// chain, filtered by the safety table of stop and skip conditions.
package stack

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tummychow/git-absorb/internal/errkinds"
	"github.com/tummychow/git-absorb/internal/gitrepo"
	"github.com/tummychow/git-absorb/internal/hunkmodel"
	"github.com/tummychow/git-absorb/internal/output"
)

// Candidate is one commit eligible to receive absorbed hunks: the commit
// itself plus its own per-path hunk list (the diff against its parent),
// which the commuter walks the staged hunk against.
type Candidate struct {
	Hash      plumbing.Hash
	Commit    *object.Commit
	Summary   string
	PathHunks map[string][]hunkmodel.Hunk
}

// Options configures stack selection, mirroring the CLI flags and
// absorb.* config keys that affect it.
type Options struct {
	Base        string // explicit --base ref, empty if not set
	MaxStack    int
	ForceAuthor bool
	ForceDetach bool
}

// Select walks HEAD's first-parent chain and returns the ordered,
// nearest-first stack of absorption candidates.
func Select(repo *gitrepo.Repo, opts Options, splog *output.Splog) ([]Candidate, error) {
	detached, err := repo.IsDetached()
	if err != nil {
		return nil, err
	}
	if detached && !opts.ForceDetach {
		return nil, errkinds.NewUnsafeStateError("HEAD is detached; pass --force-detach to absorb anyway")
	}

	head, err := repo.HeadCommit()
	if err != nil {
		return nil, err
	}

	var baseHash plumbing.Hash
	hasBase := opts.Base != ""
	if hasBase {
		baseCommit, err := repo.ResolveRevision(opts.Base)
		if err != nil {
			return nil, errkinds.NewUnsafeStateError("could not resolve --base " + opts.Base + ": " + err.Error())
		}
		baseHash = baseCommit.Hash
	}

	var hidden map[plumbing.Hash]bool
	if !hasBase {
		hidden, err = ancestryOfOtherBranches(repo)
		if err != nil {
			return nil, err
		}
	}

	userSig, err := repo.UserSignature()
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	cur := head
	for {
		if cur.NumParents() > 1 {
			splog.Warn("stopping stack walk at merge commit %s", shortHash(cur.Hash))
			break
		}
		if hasBase && cur.Hash == baseHash {
			break
		}
		if !hasBase && hidden[cur.Hash] {
			splog.Warn("stopping stack walk at %s: reachable from another branch", shortHash(cur.Hash))
			break
		}

		summary := firstLine(cur.Message)
		isFixup := strings.HasPrefix(summary, "fixup! ") || strings.HasPrefix(summary, "squash! ")
		isForeignAuthor := !opts.ForceAuthor && !gitrepo.SameIdentity(cur.Author, userSig)

		switch {
		case isFixup:
			splog.Debug("skipping already-fixup commit %s", shortHash(cur.Hash))
		case isForeignAuthor:
			splog.Debug("skipping foreign-authored commit %s", shortHash(cur.Hash))
		default:
			if !hasBase && len(candidates) >= opts.MaxStack {
				splog.Warn("stack limit of %d reached", opts.MaxStack)
				return candidates, nil
			}
			pathHunks, err := gitrepo.CommitHunks(cur)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, Candidate{
				Hash:      cur.Hash,
				Commit:    cur,
				Summary:   summary,
				PathHunks: pathHunks,
			})
		}

		if cur.NumParents() == 0 {
			break
		}
		parent, err := cur.Parent(0)
		if err != nil {
			return nil, err
		}
		cur = parent
	}

	return candidates, nil
}

// ancestryOfOtherBranches returns every commit reachable from a local
// branch tip other than the one HEAD is on, so the stack walk stops
// before rewriting history another branch still depends on.
func ancestryOfOtherBranches(repo *gitrepo.Repo) (map[plumbing.Hash]bool, error) {
	tips, err := repo.LocalBranchTips()
	if err != nil {
		return nil, err
	}

	visited := map[plumbing.Hash]bool{}
	var visit func(h plumbing.Hash) error
	visit = func(h plumbing.Hash) error {
		if visited[h] {
			return nil
		}
		visited[h] = true
		c, err := repo.CommitObject(h)
		if err != nil {
			return nil // unreachable/corrupt ref target; ignore rather than fail the whole run
		}
		for _, p := range c.ParentHashes {
			if err := visit(p); err != nil {
				return err
			}
		}
		return nil
	}

	for _, hash := range tips {
		if err := visit(hash); err != nil {
			return nil, err
		}
	}
	return visited, nil
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}

func shortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
