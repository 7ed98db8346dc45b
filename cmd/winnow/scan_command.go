package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"winnow/internal/catalog"
	"winnow/internal/photos"
	"winnow/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var minSizeMB int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Discover large attachments and check them against Photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min-size-mb") {
				cfg.Scan.MinSizeMB = minSizeMB
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := runScan(cmd.Context(), ctx, store)
			if err != nil {
				return err
			}
			printScanSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVar(&minSizeMB, "min-size-mb", 0, "Override the minimum file size in MB")
	return cmd
}

type scanResult struct {
	candidates int
	inLibrary  int
	vanished   int
	totalBytes int64
	indexUp    bool
	inventory  string
}

// runScan is shared by `winnow scan` and `winnow run`.
func runScan(cmdCtx context.Context, ctx *commandContext, store *catalog.Store) (*scanResult, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := ctx.ensureLogger()

	records, err := scanner.New(cfg, logger).Scan(cmdCtx)
	if err != nil {
		return nil, err
	}
	if err := scanner.HashRecords(cmdCtx, records, logger); err != nil {
		return nil, err
	}

	index, err := photos.OpenIndex(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer index.Close()
	if err := index.Annotate(cmdCtx, records); err != nil {
		return nil, err
	}

	result := &scanResult{candidates: len(records), indexUp: index.Available()}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if err := store.UpsertRecord(cmdCtx, rec); err != nil {
			return nil, err
		}
		seen[rec.Path] = struct{}{}
		result.totalBytes += rec.Size
		if rec.InLibrary {
			result.inLibrary++
		}
	}
	vanished, err := store.MarkMissingExcept(cmdCtx, seen)
	if err != nil {
		return nil, err
	}
	result.vanished = vanished

	result.inventory = cfg.InventoryPath()
	if err := store.ExportInventory(cmdCtx, result.inventory); err != nil {
		return nil, err
	}
	return result, nil
}

func printScanSummary(cmd *cobra.Command, result *scanResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned %s totalling %s\n",
		plural(result.candidates, "candidate"),
		humanize.Bytes(uint64(result.totalBytes)))
	if result.indexUp {
		fmt.Fprintf(out, "%s already in the Photos library\n", plural(result.inLibrary, "file"))
	} else {
		fmt.Fprintln(out, "Photos library not found; duplicate checks were skipped")
	}
	if result.vanished > 0 {
		fmt.Fprintf(out, "%s from earlier scans no longer exist\n", plural(result.vanished, "path"))
	}
	fmt.Fprintf(out, "Inventory written to %s\n", result.inventory)
	fmt.Fprintln(out, "Next: winnow review")
}
