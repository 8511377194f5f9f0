// Package fixup builds and writes the fixup/squash commits an attribution
// run produces, splicing each intent's original hunk into the tree of the
// commit currently at the tip of the run (initially HEAD), one fixup
// commit per intent or per target commit under aggregation.
package fixup

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tummychow/git-absorb/internal/attribution"
	"github.com/tummychow/git-absorb/internal/errkinds"
	"github.com/tummychow/git-absorb/internal/gitrepo"
	"github.com/tummychow/git-absorb/internal/hunkmodel"
	"github.com/tummychow/git-absorb/internal/output"
	"github.com/tummychow/git-absorb/internal/stack"
)

// Options configures how intents are grouped into commits and labeled.
type Options struct {
	Squash               bool
	MessageBody          string
	FixupTargetAlwaysSHA bool
	OneFixupPerCommit    bool
	DryRun               bool
}

// Plan is one fixup commit the emitter intends to write (or, in dry-run
// mode, would have written).
type Plan struct {
	TargetSummary string
	Message       string
	Hash          plumbing.Hash // zero in dry-run mode
}

// Result is the outcome of an emit run.
type Result struct {
	Plans            []Plan
	RebaseBase       string // ref the autosquash rebase should run against
	ManualRebaseHint string
}

// group is one unit of emission: either a single intent (default mode) or
// every intent sharing a target (one_fixup_per_commit mode).
type group struct {
	target  stack.Candidate
	intents []attribution.Intent
}

// Emit writes (or, under DryRun, simulates) one commit per group of
// intents, stacking each new commit onto the evolving tip starting at
// HEAD, and returns the plan actually followed.
func Emit(repo *gitrepo.Repo, candidates []stack.Candidate, intents []attribution.Intent, opts Options, splog *output.Splog) (Result, error) {
	if len(intents) == 0 {
		return Result{}, nil
	}

	groups := groupIntents(intents, opts.OneFixupPerCommit)

	head, err := repo.HeadCommit()
	if err != nil {
		return Result{}, err
	}
	headTree, err := head.Tree()
	if err != nil {
		return Result{}, errkinds.NewRepositoryError("load HEAD tree", err)
	}

	if !opts.DryRun {
		if err := repo.WriteRecoveryRef(head.Hash); err != nil {
			return Result{}, errkinds.NewWriteFailureError("recovery ref", err)
		}
	}

	sig, err := repo.UserSignature()
	if err != nil {
		return Result{}, err
	}

	summaryCounts := map[string]int{}
	for _, c := range candidates {
		summaryCounts[c.Summary]++
	}

	tipHash := head.Hash
	tipTreeHash := headTree.Hash
	appliedByPath := map[string][]hunkmodel.Hunk{}
	blobCache := map[string][][]byte{}

	var result Result
	for _, g := range groups {
		message := buildMessage(g.target, summaryCounts, opts)

		if opts.DryRun {
			result.Plans = append(result.Plans, Plan{TargetSummary: g.target.Summary, Message: message})
			// Still accumulate appliedByPath bookkeeping would only matter
			// for real tree writes; a dry run reports the plan without
			// mutating any content, so no further state is needed here.
			continue
		}

		for _, path := range touchedPaths(g.intents) {
			lines, err := loadOrCached(blobCache, headTree, path)
			if err != nil {
				return result, err
			}

			hunksHere := sourceHunksForPath(g.intents, path)
			lines = spliceHunks(lines, hunksHere, appliedByPath[path])
			blobCache[path] = lines
			appliedByPath[path] = append(appliedByPath[path], hunksHere...)

			blobHash, err := repo.WriteBlobLines(lines)
			if err != nil {
				return result, errkinds.NewWriteFailureError(g.target.Summary, err)
			}
			mode := gitrepo.FileModeAt(headTree, path)
			tipTreeHash, err = repo.ReplaceBlobInTree(tipTreeHash, path, blobHash, mode)
			if err != nil {
				return result, errkinds.NewWriteFailureError(g.target.Summary, err)
			}
		}

		commitHash, err := repo.WriteFixupCommit(tipHash, tipTreeHash, message, sig, commitTime())
		if err != nil {
			return result, errkinds.NewWriteFailureError(g.target.Summary, err)
		}
		if err := repo.MoveHEAD(commitHash); err != nil {
			return result, errkinds.NewWriteFailureError(g.target.Summary, err)
		}
		tipHash = commitHash

		result.Plans = append(result.Plans, Plan{TargetSummary: g.target.Summary, Message: message, Hash: commitHash})
		splog.Info("%s -> %s", splog.ColorTarget(message), shortHash(commitHash))
	}

	base := farthestTarget(candidates, groups)
	result.RebaseBase = base
	result.ManualRebaseHint = fmt.Sprintf("git rebase --interactive --autosquash %s", base)
	return result, nil
}

// commitTime is a seam tests can override to get deterministic timestamps.
var commitTime = time.Now

func groupIntents(intents []attribution.Intent, oneFixupPerCommit bool) []group {
	var groups []group
	byTarget := map[plumbing.Hash]int{}
	for _, intent := range intents {
		if oneFixupPerCommit {
			if idx, ok := byTarget[intent.Target.Hash]; ok {
				groups[idx].intents = append(groups[idx].intents, intent)
				continue
			}
			byTarget[intent.Target.Hash] = len(groups)
		}
		groups = append(groups, group{target: intent.Target, intents: []attribution.Intent{intent}})
	}
	return groups
}

func touchedPaths(intents []attribution.Intent) []string {
	seen := map[string]bool{}
	var paths []string
	for _, i := range intents {
		if !seen[i.Source.Path] {
			seen[i.Source.Path] = true
			paths = append(paths, i.Source.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

func sourceHunksForPath(intents []attribution.Intent, path string) []hunkmodel.Hunk {
	var hunks []hunkmodel.Hunk
	for _, i := range intents {
		if i.Source.Path == path {
			hunks = append(hunks, i.Source)
		}
	}
	return hunks
}

// spliceHunks applies hunks (all against the same path, in original
// HEAD-tree coordinates) onto lines, which already reflects every hunk in
// previouslyApplied. Each hunk's position is first reprojected forward by
// the cumulative length delta of previously-applied hunks that sit above
// it in the original file, then hunks for this call are applied bottom-up
// so their own positions don't invalidate each other.
func spliceHunks(lines [][]byte, hunks []hunkmodel.Hunk, previouslyApplied []hunkmodel.Hunk) [][]byte {
	type positioned struct {
		start int
		hunk  hunkmodel.Hunk
	}
	var ordered []positioned
	for _, h := range hunks {
		ordered = append(ordered, positioned{start: reprojectForward(h, previouslyApplied), hunk: h})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start > ordered[j].start })

	for _, p := range ordered {
		idx := p.start - 1
		if idx < 0 {
			idx = 0
		}
		end := idx + p.hunk.OldRange.Count
		if end > len(lines) {
			end = len(lines)
		}
		replacement := make([][]byte, len(p.hunk.AddedLines))
		copy(replacement, p.hunk.AddedLines)

		next := make([][]byte, 0, len(lines)-(end-idx)+len(replacement))
		next = append(next, lines[:idx]...)
		next = append(next, replacement...)
		next = append(next, lines[end:]...)
		lines = next
	}
	return lines
}

// reprojectForward computes h's old-side start position in the running
// tip tree, given every hunk already spliced onto that path this run. Only
// hunks whose original range sits entirely above h contribute a shift —
// this is commute.Rewrite's arithmetic with the opposite sign: here hunks
// are applied forward, so each one moves h by its added-minus-removed line
// count, while Rewrite projects backward through a commit and moves h by
// the commit hunk's old-minus-new line count.
func reprojectForward(h hunkmodel.Hunk, applied []hunkmodel.Hunk) int {
	delta := 0
	for _, a := range applied {
		if a.OldRange.End() <= h.OldRange.Start {
			delta += len(a.AddedLines) - len(a.RemovedLines)
		}
	}
	return h.OldRange.Start + delta
}

func loadOrCached(cache map[string][][]byte, headTree *object.Tree, path string) ([][]byte, error) {
	if lines, ok := cache[path]; ok {
		return lines, nil
	}
	lines, err := gitrepo.BlobLines(headTree, path)
	if err != nil {
		return nil, nil // new file: nothing at HEAD yet
	}
	return lines, nil
}

func buildMessage(target stack.Candidate, summaryCounts map[string]int, opts Options) string {
	designator := target.Summary
	if opts.FixupTargetAlwaysSHA || summaryCounts[target.Summary] > 1 {
		designator = shortHash(target.Hash)
	}

	verb := "fixup"
	if opts.Squash {
		verb = "squash"
	}

	message := verb + "! " + designator
	if opts.Squash && opts.MessageBody != "" {
		message += "\n\n" + opts.MessageBody
	}
	return message
}

func farthestTarget(candidates []stack.Candidate, groups []group) string {
	farthestIdx := -1
	for _, g := range groups {
		for i, c := range candidates {
			if c.Hash == g.target.Hash && i > farthestIdx {
				farthestIdx = i
			}
		}
	}
	if farthestIdx < 0 || farthestIdx+1 >= len(candidates) {
		if len(candidates) > 0 {
			return shortHash(candidates[len(candidates)-1].Hash) + "~1"
		}
		return "HEAD"
	}
	return shortHash(candidates[farthestIdx+1].Hash)
}

func shortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
