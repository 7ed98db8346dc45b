package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"winnow/internal/audit"
	"winnow/internal/catalog"
	"winnow/internal/executor"
	"winnow/internal/photos"
)

func newExecuteCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Move decided files into quarantine, importing first where asked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Import.BatchSize = batchSize
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := runExecute(cmd, ctx, store, dryRun)
			if err != nil {
				return err
			}
			printExecuteSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended actions without touching files")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override the import batch size")
	return cmd
}

// runExecute is shared by `winnow execute` and `winnow run`.
func runExecute(cmd *cobra.Command, ctx *commandContext, store *catalog.Store, dryRun bool) (*executor.Result, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := ctx.ensureLogger()

	index, err := photos.OpenIndex(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	auditLog, err := audit.Open(cfg.AuditLogPath())
	if err != nil {
		return nil, err
	}
	defer auditLog.Close()

	importer := photos.NewImporter(cfg, logger)
	exec := executor.New(cfg, store, index, importer, auditLog, logger)
	return exec.Run(cmd.Context(), dryRun)
}

func printExecuteSummary(cmd *cobra.Command, result *executor.Result) {
	out := cmd.OutOrStdout()
	verb := "Moved"
	if result.DryRun {
		verb = "Would move"
	}
	fmt.Fprintf(out, "%s %s, reclaiming %s\n",
		verb,
		plural(result.Moved, "file"),
		humanize.Bytes(uint64(result.FreedBytes)))
	if result.Imported > 0 {
		fmt.Fprintf(out, "Imported %s into Photos\n", plural(result.Imported, "file"))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %s (already handled)\n", plural(result.Skipped, "file"))
	}
	if result.Failed > 0 {
		fmt.Fprintf(out, "%s failed; decisions retained, re-run to retry\n", plural(result.Failed, "file"))
	}
}
