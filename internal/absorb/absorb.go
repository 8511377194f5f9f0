// Package absorb wires the stack selector, attribution driver, and fixup
// emitter together into the single end-to-end run the CLI invokes, the
// same role the teacher's per-command action packages play for their own
// subcommands.
package absorb

import (
	"fmt"

	"github.com/tummychow/git-absorb/internal/attribution"
	"github.com/tummychow/git-absorb/internal/fixup"
	"github.com/tummychow/git-absorb/internal/hunkmodel"
	"github.com/tummychow/git-absorb/internal/rebase"
	"github.com/tummychow/git-absorb/internal/runtime"
	"github.com/tummychow/git-absorb/internal/stack"
)

// attributionConcurrency bounds how many hunks' stack walks run at once;
// each walk only does synchronous object-store reads, so there is little
// to gain from scaling this past a handful of workers.
const attributionConcurrency = 4

// Options carries every CLI-flag-sourced setting that isn't already
// folded into the resolved config.
type Options struct {
	Base              string
	DryRun            bool
	AndRebase         bool
	ForceAuthor       bool
	ForceDetach       bool
	OneFixupPerCommit bool
	Squash            bool
	WholeFile         bool
	MessageBody       string
	RebaseArgs        []string
}

// Outcome is everything the caller needs to report a run's result.
type Outcome struct {
	Candidates []stack.Candidate
	Plans      []fixup.Plan
	Unabsorbed []hunkmodel.Hunk
	Hint       string
}

// Action runs one absorb pass against ctx's repository: select the
// candidate stack, gather staged hunks (auto-staging if configured and
// nothing is staged), attribute each hunk, emit the fixups, and
// optionally follow up with an autosquash rebase.
func Action(ctx *runtime.Context, opts Options) (Outcome, error) {
	repo := ctx.Repo
	cfg := ctx.Config

	candidates, err := stack.Select(repo, stack.Options{
		Base:        opts.Base,
		MaxStack:    cfg.MaxStack,
		ForceAuthor: opts.ForceAuthor || cfg.ForceAuthor,
		ForceDetach: opts.ForceDetach || cfg.ForceDetach,
	}, ctx.Splog)
	if err != nil {
		return Outcome{}, err
	}

	staged, err := repo.StagedHunks()
	if err != nil {
		return Outcome{}, err
	}

	autoStaged := false
	if len(staged) == 0 {
		if !cfg.AutoStageIfNothingStaged {
			ctx.Splog.Warn("nothing staged to absorb")
			return Outcome{Candidates: candidates}, nil
		}
		if err := repo.StageAllTracked(); err != nil {
			return Outcome{}, err
		}
		autoStaged = true
		if staged, err = repo.StagedHunks(); err != nil {
			return Outcome{}, err
		}
		if len(staged) == 0 {
			ctx.Splog.Warn("nothing staged to absorb")
			return Outcome{Candidates: candidates}, nil
		}
	}

	attrResult := attribution.Attribute(candidates, staged, repo, attribution.Options{
		WholeFile:   opts.WholeFile,
		Concurrency: attributionConcurrency,
	}, ctx.Splog)

	emitResult, err := fixup.Emit(repo, candidates, attrResult.Intents, fixup.Options{
		Squash:               opts.Squash || cfg.CreateSquashCommits,
		MessageBody:          opts.MessageBody,
		FixupTargetAlwaysSHA: cfg.FixupTargetAlwaysSHA,
		OneFixupPerCommit:    opts.OneFixupPerCommit || cfg.OneFixupPerCommit,
		DryRun:               opts.DryRun,
	}, ctx.Splog)
	if err != nil {
		return Outcome{}, err
	}

	if autoStaged {
		residual := attrResult.Unabsorbed
		if opts.DryRun {
			// Nothing was written, so every auto-staged path goes back.
			residual = nil
			for _, hunks := range staged {
				residual = append(residual, hunks...)
			}
		}
		if err := repo.UnstagePaths(unabsorbedPaths(residual)); err != nil {
			return Outcome{}, err
		}
	}

	outcome := Outcome{
		Candidates: candidates,
		Plans:      emitResult.Plans,
		Unabsorbed: attrResult.Unabsorbed,
		Hint:       emitResult.ManualRebaseHint,
	}

	printOutcome(ctx.Splog, opts.DryRun, outcome)

	if opts.DryRun || len(emitResult.Plans) == 0 {
		return outcome, nil
	}

	if !opts.AndRebase {
		ctx.Splog.Tip("run `%s` to fold these in", emitResult.ManualRebaseHint)
		return outcome, nil
	}

	if err := rebase.Run(rebase.AutosquashOptions{
		Dir:   repo.Root(),
		Base:  emitResult.RebaseBase,
		Extra: opts.RebaseArgs,
	}); err != nil {
		return outcome, fmt.Errorf("autosquash rebase: %w", err)
	}
	return outcome, nil
}

func unabsorbedPaths(hunks []hunkmodel.Hunk) []string {
	seen := map[string]bool{}
	var paths []string
	for _, h := range hunks {
		if !seen[h.Path] {
			seen[h.Path] = true
			paths = append(paths, h.Path)
		}
	}
	return paths
}
