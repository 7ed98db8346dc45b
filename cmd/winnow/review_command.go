package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"winnow/internal/catalog"
	"winnow/internal/review"
	"winnow/internal/services"
	"winnow/internal/tui"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var assume string
	var reset bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Decide what happens to each scanned file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if reset {
				cleared, err := store.ClearDecisions(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", plural(int(cleared), "decision"))
				return nil
			}

			return runReview(cmd, ctx, store, assume)
		},
	}

	cmd.Flags().StringVar(&assume, "assume", "", "Decide non-interactively: keep or auto")
	cmd.Flags().BoolVar(&reset, "reset", false, "Clear every recorded decision and exit")
	return cmd
}

// runReview is shared by `winnow review` and `winnow run`.
func runReview(cmd *cobra.Command, ctx *commandContext, store *catalog.Store, assume string) error {
	sess, err := review.NewSession(cmd.Context(), store, ctx.ensureLogger())
	if err != nil {
		return err
	}

	if assume != "" {
		return assumeDecisions(cmd, sess, assume)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return services.WithHint(
			services.Wrap(services.ErrValidation, "review", "launch",
				"interactive review needs a terminal", nil),
			"run from a terminal, or use --assume keep|auto to decide non-interactively")
	}

	finished, err := tui.Run(sess)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if finished {
		fmt.Fprintf(out, "Review finished. %s marked for relocation (%s).\n",
			plural(countActionable(sess), "file"),
			humanize.Bytes(uint64(sess.FreedBytes())))
		fmt.Fprintln(out, "Next: winnow execute")
	}
	return nil
}

// assumeDecisions applies a blanket policy instead of the TUI. "keep"
// leaves everything in place; "auto" mirrors the review gating: remove what
// the library already has, import-then-remove the rest.
func assumeDecisions(cmd *cobra.Command, sess *review.Session, assume string) error {
	switch assume {
	case "keep":
		if err := sess.FinishReview(cmd.Context(), true); err != nil {
			return err
		}
	case "auto":
		if err := autoDecide(cmd.Context(), sess); err != nil {
			return err
		}
	default:
		return services.Wrap(services.ErrValidation, "review", "assume",
			"unknown policy "+assume+" (want keep or auto)", nil)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied --assume %s: %s marked for relocation (%s)\n",
		assume,
		plural(countActionable(sess), "file"),
		humanize.Bytes(uint64(sess.FreedBytes())))
	return nil
}

func autoDecide(ctx context.Context, sess *review.Session) error {
	for !sess.Done() {
		rec := sess.Current()
		decision := catalog.DecisionImportRemove
		if rec.InLibrary {
			decision = catalog.DecisionRemove
		}
		if err := sess.Mark(ctx, decision); err != nil {
			return err
		}
	}
	return nil
}

func countActionable(sess *review.Session) int {
	n := 0
	for _, rec := range sess.Records() {
		if rec.Decision.IsActionable() {
			n++
		}
	}
	return n
}
