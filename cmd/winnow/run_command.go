package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"winnow/internal/services"
)

// newRunCommand chains scan, review, execute, and report into one pass.
func newRunCommand(ctx *commandContext) *cobra.Command {
	var assume string
	var dryRun bool
	var top int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan, review, execute, and report in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			scan, err := runScan(cmd.Context(), ctx, store)
			if err != nil {
				return err
			}
			printScanSummary(cmd, scan)
			if scan.candidates == 0 {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout())

			if err := runReview(cmd, ctx, store, assume); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())

			result, err := runExecute(cmd, ctx, store, dryRun)
			switch {
			case errors.Is(err, services.ErrNotFound):
				// Everything was kept; nothing to move.
				fmt.Fprintln(cmd.OutOrStdout(), "No files marked for relocation")
			case err != nil:
				return err
			default:
				printExecuteSummary(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout())

			return runReport(cmd, store, top)
		},
	}

	cmd.Flags().StringVar(&assume, "assume", "", "Decide non-interactively: keep or auto")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended actions without touching files")
	cmd.Flags().IntVar(&top, "top", 10, "How many of the largest files to list (0 disables)")
	return cmd
}
