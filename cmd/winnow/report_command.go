package main

import (
	"github.com/spf13/cobra"

	"winnow/internal/catalog"
	"winnow/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the catalog by decision, category, and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				top = cfg.Scan.TopLargest
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return runReport(cmd, store, top)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "How many of the largest files to list (0 disables)")
	return cmd
}

// runReport is shared by `winnow report` and `winnow run`.
func runReport(cmd *cobra.Command, store *catalog.Store, top int) error {
	summary, err := report.Build(cmd.Context(), store, top)
	if err != nil {
		return err
	}
	report.Render(cmd.OutOrStdout(), summary)
	return nil
}
