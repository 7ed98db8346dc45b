package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"winnow/internal/audit"
	"winnow/internal/catalog"
	"winnow/internal/config"
	"winnow/internal/logging"
	"winnow/internal/photos"
	"winnow/internal/services"
	"winnow/internal/testsupport"
)

type fakeImporter struct {
	outcome photos.ImportOutcome
	err     error
	calls   []string
}

func (f *fakeImporter) Import(_ context.Context, path string) (photos.ImportOutcome, error) {
	f.calls = append(f.calls, path)
	return f.outcome, f.err
}

type fakeIndex struct {
	available bool
	confirm   bool
	refreshes int
}

func (f *fakeIndex) Available() bool { return f.available }

func (f *fakeIndex) Refresh() error { f.refreshes++; return nil }

func (f *fakeIndex) Lookup(context.Context, string, int64) (*catalog.MatchInfo, error) {
	if !f.confirm {
		return nil, nil
	}
	return &catalog.MatchInfo{Matches: 1}, nil
}

type harness struct {
	cfg      *config.Config
	store    *catalog.Store
	importer *fakeImporter
	index    *fakeIndex
	exec     *Executor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.AttachmentsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	auditLog, err := audit.Open(cfg.AuditLogPath())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { auditLog.Close() })

	importer := &fakeImporter{outcome: photos.OutcomeImported}
	index := &fakeIndex{available: true, confirm: true}
	exec := New(cfg, store, index, importer, auditLog, logging.NewNop())
	exec.sleep = func(time.Duration) {}
	return &harness{cfg: cfg, store: store, importer: importer, index: index, exec: exec}
}

func (h *harness) addDecided(t *testing.T, name string, size int64, d catalog.Decision) string {
	t.Helper()
	path := filepath.Join(h.cfg.Paths.AttachmentsDir, name)
	testsupport.WriteFile(t, path, size)
	testsupport.NewRecord(t, h.store, path, size, d == catalog.DecisionRemove)
	if err := h.store.SetDecision(context.Background(), path, d); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunMovesByDecision(t *testing.T) {
	h := newHarness(t)
	removed := h.addDecided(t, "a.mov", 100, catalog.DecisionRemove)
	imported := h.addDecided(t, "b.mov", 200, catalog.DecisionImportRemove)
	kept := h.addDecided(t, "c.mov", 300, catalog.DecisionKeep)

	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Moved != 2 || result.Imported != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.FreedBytes != 300 {
		t.Errorf("freed bytes = %d, want 300", result.FreedBytes)
	}

	if _, err := os.Stat(removed); !errors.Is(err, os.ErrNotExist) {
		t.Error("removed file should have left the attachments dir")
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Paths.ReviewDir, DirAlreadyInLibrary, "a.mov")); err != nil {
		t.Error("removed file should land in already-in-library")
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Paths.ReviewDir, DirNewlyImported, "b.mov")); err != nil {
		t.Error("imported file should land in newly-imported")
	}
	if _, err := os.Stat(imported); !errors.Is(err, os.ErrNotExist) {
		t.Error("imported file should have left the attachments dir")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Error("kept file must stay untouched")
	}
	if len(h.importer.calls) != 1 || h.importer.calls[0] != imported {
		t.Errorf("importer calls = %v", h.importer.calls)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.addDecided(t, "a.mov", 100, catalog.DecisionRemove)

	if _, err := h.exec.Run(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Moved != 0 || result.Skipped != 1 || result.Failed != 0 {
		t.Fatalf("second run should skip cleanly: %+v", result)
	}

	entries, err := os.ReadDir(filepath.Join(h.cfg.Paths.ReviewDir, DirAlreadyInLibrary))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("quarantine should hold exactly one copy, got %d", len(entries))
	}
}

func TestRunResolvesNameCollisions(t *testing.T) {
	h := newHarness(t)
	h.addDecided(t, "clip.mov", 100, catalog.DecisionRemove)

	occupied := filepath.Join(h.cfg.Paths.ReviewDir, DirAlreadyInLibrary, "clip.mov")
	testsupport.WriteFile(t, occupied, 10)

	if _, err := h.exec.Run(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Paths.ReviewDir, DirAlreadyInLibrary, "clip-1.mov")); err != nil {
		t.Error("collision should produce clip-1.mov")
	}
	info, err := os.Stat(occupied)
	if err != nil || info.Size() != 10 {
		t.Error("pre-existing quarantine file must not be overwritten")
	}
}

func TestImportFailureLeavesFile(t *testing.T) {
	h := newHarness(t)
	path := h.addDecided(t, "b.mov", 200, catalog.DecisionImportRemove)
	h.importer.outcome = photos.OutcomeFailed
	h.importer.err = services.Wrap(services.ErrExternalTool, "import", "osascript", "boom", nil)

	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 || result.Moved != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("failed import must leave the file in place")
	}

	rec, err := h.store.GetByPath(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Decision != catalog.DecisionImportRemove {
		t.Error("decision must be retained for a later run")
	}
}

func TestUnverifiedImportLeavesFile(t *testing.T) {
	h := newHarness(t)
	path := h.addDecided(t, "b.mov", 200, catalog.DecisionImportRemove)
	h.index.confirm = false

	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 {
		t.Fatalf("unconfirmed import should count as failed: %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("unconfirmed import must leave the file in place")
	}
	if h.index.refreshes != 1 {
		t.Errorf("verification should refresh the index once, got %d", h.index.refreshes)
	}
}

func TestDegradedIndexLeavesFileWhenVerifying(t *testing.T) {
	h := newHarness(t)
	path := h.addDecided(t, "b.mov", 200, catalog.DecisionImportRemove)
	h.index.available = false

	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 || result.Moved != 0 {
		t.Fatalf("unverifiable import must not move: %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("file must stay in place when the index cannot confirm the import")
	}
	rec, err := h.store.GetByPath(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Decision != catalog.DecisionImportRemove {
		t.Error("decision must be retained for a later run")
	}
}

func TestNilIndexLeavesFileWhenVerifying(t *testing.T) {
	h := newHarness(t)
	path := h.addDecided(t, "b.mov", 200, catalog.DecisionImportRemove)
	h.exec = New(h.cfg, h.store, nil, h.importer, nil, logging.NewNop())
	h.exec.sleep = func(time.Duration) {}

	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 || result.Moved != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("file must stay in place without an index to verify against")
	}
}

func TestVerificationCanBeDisabled(t *testing.T) {
	h := newHarness(t)
	h.addDecided(t, "b.mov", 200, catalog.DecisionImportRemove)
	h.cfg.Import.Verify = false
	h.index.confirm = false

	result, err := h.exec.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Moved != 1 || result.Failed != 0 {
		t.Fatalf("verify=false should trust the importer: %+v", result)
	}
}

func TestDryRunTouchesNothing(t *testing.T) {
	h := newHarness(t)
	path := h.addDecided(t, "a.mov", 100, catalog.DecisionRemove)

	result, err := h.exec.Run(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if !result.DryRun || result.Moved != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("dry run must not move files")
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Paths.ReviewDir, DirAlreadyInLibrary)); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run must not create quarantine dirs")
	}
	if len(h.importer.calls) != 0 {
		t.Error("dry run must not import")
	}
}

func TestNoActionableDecisions(t *testing.T) {
	h := newHarness(t)
	h.addDecided(t, "c.mov", 300, catalog.DecisionKeep)

	_, err := h.exec.Run(context.Background(), false)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBatchPacing(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"a.mov", "b.mov", "c.mov"} {
		h.addDecided(t, name, 10, catalog.DecisionRemove)
	}
	h.cfg.Import.BatchSize = 2
	h.cfg.Import.BatchPauseSeconds = 1

	pauses := 0
	h.exec.sleep = func(time.Duration) { pauses++ }

	if _, err := h.exec.Run(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if pauses != 1 {
		t.Errorf("expected 1 batch pause for 3 records in batches of 2, got %d", pauses)
	}
}
