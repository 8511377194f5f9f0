// Package attribution implements the per-hunk driver that walks the
// candidate stack via the commuter and buffers fixup intents.
package attribution

import (
	"sort"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/tummychow/git-absorb/internal/commute"
	"github.com/tummychow/git-absorb/internal/gitrepo"
	"github.com/tummychow/git-absorb/internal/hunkmodel"
	"github.com/tummychow/git-absorb/internal/output"
	"github.com/tummychow/git-absorb/internal/stack"
)

// Intent records that Source (as expressed against HEAD/the index) should
// be fixed up into Target, with HunkAgainstTarget giving its line ranges
// rewritten into Target's own tree coordinate system.
type Intent struct {
	Target            stack.Candidate
	HunkAgainstTarget hunkmodel.Hunk
	Source            hunkmodel.Hunk
}

// Options configures a single attribution run.
type Options struct {
	WholeFile   bool
	Concurrency int // number of per-hunk walks to run concurrently; <=1 means sequential
}

// Result is the outcome of attributing every staged hunk.
type Result struct {
	Intents    []Intent
	Unabsorbed []hunkmodel.Hunk
}

// Attribute walks stack for every hunk in staged (keyed by path), grouping
// the resulting intents by target commit in stack order so the emitter
// can write fixups cleanly onto HEAD.
func Attribute(candidates []stack.Candidate, staged map[string][]hunkmodel.Hunk, source gitrepo.DiffSource, opts Options, splog *output.Splog) Result {
	var allHunks []hunkmodel.Hunk
	for _, hunks := range staged {
		allHunks = append(allHunks, hunks...)
	}
	sort.Slice(allHunks, func(i, j int) bool {
		if allHunks[i].Path != allHunks[j].Path {
			return allHunks[i].Path < allHunks[j].Path
		}
		return allHunks[i].OldRange.Start < allHunks[j].OldRange.Start
	})

	outcomes := make([]*outcome, len(allHunks))

	worker := func(idx int) {
		outcomes[idx] = attributeOne(candidates, allHunks[idx], source, opts)
	}

	concurrency := opts.Concurrency
	if concurrency <= 1 || len(allHunks) <= 1 {
		for i := range allHunks {
			worker(i)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, concurrency)
		for i := range allHunks {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				worker(i)
			}(i)
		}
		wg.Wait()
	}

	var result Result
	for _, o := range outcomes {
		if o.intent != nil {
			result.Intents = append(result.Intents, *o.intent)
		} else {
			splog.Warn("%s: left unabsorbed: %s", o.hunk.Path, o.reason)
			result.Unabsorbed = append(result.Unabsorbed, o.hunk)
		}
	}

	sort.SliceStable(result.Intents, func(i, j int) bool {
		return stackIndex(candidates, result.Intents[i].Target.Hash) < stackIndex(candidates, result.Intents[j].Target.Hash)
	})

	return result
}

type outcome struct {
	hunk   hunkmodel.Hunk
	intent *Intent
	reason string
}

func attributeOne(candidates []stack.Candidate, h hunkmodel.Hunk, source gitrepo.DiffSource, opts Options) *outcome {
	current := h
	for _, candidate := range candidates {
		commitHunks := candidate.PathHunks[h.Path]
		if commute.Commutes(current, commitHunks, opts.WholeFile) {
			current = commute.Rewrite(current, commitHunks)
			continue
		}

		targetLines, err := source.BlobLinesAt(candidate.Commit, h.Path)
		if err == nil && !commute.VerifyRemovedLinesPresent(current, targetLines) {
			return &outcome{hunk: h, reason: "removed lines not found at candidate target"}
		}

		return &outcome{hunk: h, intent: &Intent{
			Target:            candidate,
			HunkAgainstTarget: current,
			Source:            h,
		}}
	}
	return &outcome{hunk: h, reason: "commuted past every commit in the stack"}
}

func stackIndex(candidates []stack.Candidate, hash plumbing.Hash) int {
	for i, c := range candidates {
		if c.Hash == hash {
			return i
		}
	}
	return len(candidates)
}
