// Package executor replays finalized review decisions against the
// filesystem. Nothing is ever deleted: files leave the attachments tree only
// by moving into the review root's quarantine subdirectories, and every
// action lands in the audit log before the run moves on. Re-running after an
// interruption is safe; already-moved sources are recognized as missing and
// skipped.
package executor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"winnow/internal/audit"
	"winnow/internal/catalog"
	"winnow/internal/config"
	"winnow/internal/fileutil"
	"winnow/internal/logging"
	"winnow/internal/photos"
	"winnow/internal/services"
)

// Quarantine subdirectory names under the review root.
const (
	DirAlreadyInLibrary = "already-in-library"
	DirNewlyImported    = "newly-imported"
)

// LibraryIndex is the slice of the photos index the executor needs for
// post-import verification.
type LibraryIndex interface {
	Available() bool
	Refresh() error
	Lookup(ctx context.Context, filename string, size int64) (*catalog.MatchInfo, error)
}

// FileImporter sends one file to the Photos application.
type FileImporter interface {
	Import(ctx context.Context, path string) (photos.ImportOutcome, error)
}

// Result summarizes one executor run.
type Result struct {
	Moved      int
	Imported   int
	Skipped    int
	Failed     int
	FreedBytes int64
	DryRun     bool
}

// Executor applies remove and import+remove decisions.
type Executor struct {
	cfg      *config.Config
	store    *catalog.Store
	index    LibraryIndex
	importer FileImporter
	audit    *audit.Log
	logger   *slog.Logger

	// sleep is swapped out in tests so batch pacing and settle delays do
	// not slow the suite down.
	sleep func(time.Duration)
}

// New wires an executor. index may be nil when the Photos database is
// unavailable; imports then cannot be confirmed, and with verify enabled
// they are treated as failed so the files stay in place.
func New(cfg *config.Config, store *catalog.Store, index LibraryIndex, importer FileImporter, auditLog *audit.Log, logger *slog.Logger) *Executor {
	return &Executor{
		cfg:      cfg,
		store:    store,
		index:    index,
		importer: importer,
		audit:    auditLog,
		logger:   logging.NewComponentLogger(logger, "executor"),
		sleep:    time.Sleep,
	}
}

// Run applies every actionable decision in stable path order. dryRun logs
// and audits intended actions without touching any file.
func (e *Executor) Run(ctx context.Context, dryRun bool) (*Result, error) {
	records, err := e.store.ListPresent(ctx)
	if err != nil {
		return nil, err
	}
	var actionable []*catalog.Record
	for _, rec := range records {
		if rec.Decision.IsActionable() {
			actionable = append(actionable, rec)
		}
	}
	if len(actionable) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "execute", "load",
			"no remove or import decisions to apply; run a review first", nil)
	}

	result := &Result{DryRun: dryRun}
	e.auditEntry("run started",
		audit.F("dry_run", boolString(dryRun)),
		audit.Int64("actionable", int64(len(actionable))),
	)

	batchSize := e.cfg.Import.BatchSize
	if batchSize <= 0 {
		batchSize = len(actionable)
	}
	for i, rec := range actionable {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if i > 0 && i%batchSize == 0 {
			// Pacing between batches keeps Photos responsive during long
			// import runs.
			e.sleep(e.cfg.BatchPause())
		}
		e.apply(ctx, rec, dryRun, result)
	}

	e.auditEntry("run finished",
		audit.Int64("moved", int64(result.Moved)),
		audit.Int64("imported", int64(result.Imported)),
		audit.Int64("skipped", int64(result.Skipped)),
		audit.Int64("failed", int64(result.Failed)),
		audit.Int64("freed_bytes", result.FreedBytes),
	)
	return result, nil
}

func (e *Executor) apply(ctx context.Context, rec *catalog.Record, dryRun bool, result *Result) {
	if _, err := os.Stat(rec.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			e.auditEntry("source missing", audit.F("path", rec.Path))
			e.logger.Info("source already gone, skipping", logging.String("path", rec.Path))
			result.Skipped++
			return
		}
		e.auditEntry("source unreadable", audit.F("path", rec.Path), audit.F("error", err.Error()))
		result.Failed++
		return
	}

	destDir := DirAlreadyInLibrary
	if rec.Decision == catalog.DecisionImportRemove {
		destDir = DirNewlyImported
	}

	if dryRun {
		e.auditEntry("would move",
			audit.F("path", rec.Path),
			audit.F("dest_dir", destDir),
			audit.F("decision", string(rec.Decision)),
		)
		e.logger.Info("dry run: would move",
			logging.String("path", rec.Path),
			logging.String("dest_dir", destDir),
		)
		result.Moved++
		result.FreedBytes += rec.Size
		return
	}

	if rec.Decision == catalog.DecisionImportRemove {
		if !e.importAndVerify(ctx, rec, result) {
			return
		}
	}

	e.move(rec, destDir, result)
}

// importAndVerify runs the import step for an import+remove record and
// reports whether the file is now safe to relocate. On any doubt the file
// stays where it is and the decision is retained for a later run.
func (e *Executor) importAndVerify(ctx context.Context, rec *catalog.Record, result *Result) bool {
	outcome, err := e.importer.Import(ctx, rec.Path)
	switch outcome {
	case photos.OutcomeImported:
		result.Imported++
		e.auditEntry("imported", audit.F("path", rec.Path))
	case photos.OutcomeDuplicate:
		e.auditEntry("import duplicate", audit.F("path", rec.Path))
	default:
		e.auditEntry("import failed",
			audit.F("path", rec.Path),
			audit.F("error", errString(err)),
		)
		e.logger.Warn("import failed, file untouched",
			logging.String("path", rec.Path),
			logging.Error(err),
		)
		result.Failed++
		return false
	}

	if !e.cfg.Import.Verify {
		return true
	}
	if e.index == nil || !e.index.Available() {
		// Verification was asked for but the library database cannot be
		// read; without it the import is unconfirmed, so the file stays.
		// Set import.verify = false to trust the importer instead.
		e.auditEntry("verify unavailable", audit.F("path", rec.Path))
		e.logger.Warn("library index unavailable, import unconfirmed, file untouched",
			logging.String("path", rec.Path),
		)
		result.Failed++
		return false
	}

	// Photos needs a moment to commit the new asset to its database.
	e.sleep(e.cfg.SettleDelay())
	if err := e.index.Refresh(); err != nil {
		e.auditEntry("verify refresh failed", audit.F("path", rec.Path), audit.F("error", err.Error()))
		result.Failed++
		return false
	}
	match, err := e.index.Lookup(ctx, rec.Name, rec.Size)
	if err != nil {
		e.auditEntry("verify lookup failed", audit.F("path", rec.Path), audit.F("error", err.Error()))
		result.Failed++
		return false
	}
	if match == nil {
		e.auditEntry("verify unconfirmed", audit.F("path", rec.Path))
		e.logger.Warn("import not confirmed in library, file untouched",
			logging.String("path", rec.Path),
		)
		result.Failed++
		return false
	}
	e.auditEntry("verified", audit.F("path", rec.Path))
	return true
}

func (e *Executor) move(rec *catalog.Record, destDir string, result *Result) {
	dir := filepath.Join(e.cfg.Paths.ReviewDir, destDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.auditEntry("quarantine dir failed", audit.F("dir", dir), audit.F("error", err.Error()))
		result.Failed++
		return
	}
	dest, err := fileutil.NextAvailablePath(dir, rec.Name)
	if err != nil {
		e.auditEntry("destination failed", audit.F("path", rec.Path), audit.F("error", err.Error()))
		result.Failed++
		return
	}
	if err := fileutil.MoveFile(rec.Path, dest); err != nil {
		e.auditEntry("move failed",
			audit.F("src", rec.Path),
			audit.F("dst", dest),
			audit.F("error", err.Error()),
		)
		e.logger.Warn("move failed, continuing",
			logging.String("src", rec.Path),
			logging.Error(err),
		)
		result.Failed++
		return
	}

	e.auditEntry("moved",
		audit.F("src", rec.Path),
		audit.F("dst", dest),
		audit.Int64("bytes", rec.Size),
	)
	e.logger.Info("moved to quarantine",
		logging.String("src", rec.Path),
		logging.String("dst", dest),
	)
	result.Moved++
	result.FreedBytes += rec.Size
}

func (e *Executor) auditEntry(event string, fields ...audit.Field) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Record(event, fields...); err != nil {
		e.logger.Warn("audit write failed", logging.Error(err))
	}
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
