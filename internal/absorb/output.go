package absorb

import (
	"github.com/tummychow/git-absorb/internal/output"
)

// printOutcome reports what absorb did (or, under dry-run, would do):
// one line per emitted (or planned) fixup, then a warning block for any
// hunk that never found a home.
func printOutcome(splog *output.Splog, dryRun bool, o Outcome) {
	if len(o.Plans) == 0 && len(o.Unabsorbed) == 0 {
		return
	}

	if dryRun {
		splog.Info("Would absorb the following changes:")
	} else if len(o.Plans) > 0 {
		splog.Info("Absorbed the following changes:")
	}

	for _, p := range o.Plans {
		target := splog.ColorTarget(p.TargetSummary)
		if dryRun {
			splog.Info("  %s", target)
		} else {
			splog.Info("  %s -> %s", target, p.Message)
		}
	}

	if len(o.Unabsorbed) > 0 {
		splog.Newline()
		splog.Warn("the following hunks were left unabsorbed:")
		for _, h := range o.Unabsorbed {
			splog.Info("  %s:%d", h.Path, h.NewRange.Start)
		}
	}
}
