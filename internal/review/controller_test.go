package review

import (
	"context"
	"errors"
	"testing"

	"winnow/internal/catalog"
	"winnow/internal/logging"
	"winnow/internal/services"
	"winnow/internal/testsupport"
)

func seedSession(t *testing.T) (*catalog.Store, *Session) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewRecord(t, store, "/att/a.mov", 100, true)
	testsupport.NewRecord(t, store, "/att/b.mov", 200, false)
	testsupport.NewRecord(t, store, "/att/c.jpg", 300, true)

	sess, err := NewSession(context.Background(), store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return store, sess
}

func TestOfferGating(t *testing.T) {
	_, sess := seedSession(t)

	// a.mov is in the library: remove allowed, import blocked.
	if !sess.Allowed(catalog.DecisionRemove) {
		t.Error("remove should be offered for a library match")
	}
	if sess.Allowed(catalog.DecisionImportRemove) {
		t.Error("import should not be offered for a library match")
	}
	if !sess.Allowed(catalog.DecisionKeep) {
		t.Error("keep should always be offered")
	}

	if err := sess.Mark(context.Background(), catalog.DecisionRemove); err != nil {
		t.Fatal(err)
	}

	// b.mov is not in the library: the gate flips.
	if sess.Allowed(catalog.DecisionRemove) {
		t.Error("remove should not be offered without a library match")
	}
	if !sess.Allowed(catalog.DecisionImportRemove) {
		t.Error("import should be offered without a library match")
	}

	err := sess.Mark(context.Background(), catalog.DecisionRemove)
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("disallowed mark should be a validation error, got %v", err)
	}
}

func TestMarkPersistsAndResumes(t *testing.T) {
	store, sess := seedSession(t)

	if err := sess.Mark(context.Background(), catalog.DecisionRemove); err != nil {
		t.Fatal(err)
	}
	if err := sess.Mark(context.Background(), catalog.DecisionKeep); err != nil {
		t.Fatal(err)
	}
	if got := sess.Current().Path; got != "/att/c.jpg" {
		t.Fatalf("cursor at %s, want /att/c.jpg", got)
	}

	// A fresh session resumes at the first undecided record.
	resumed, err := NewSession(context.Background(), store, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Done() {
		t.Fatal("resumed session should not be done")
	}
	if got := resumed.Current().Path; got != "/att/c.jpg" {
		t.Errorf("resume cursor at %s, want /att/c.jpg", got)
	}
	if resumed.DecidedCount() != 2 {
		t.Errorf("decided = %d, want 2", resumed.DecidedCount())
	}
}

func TestSkipLeavesRecordUndecided(t *testing.T) {
	_, sess := seedSession(t)

	first := sess.Current().Path
	sess.Skip()
	if sess.Current().Path == first {
		t.Fatal("skip did not advance")
	}
	if sess.UndecidedCount() != 3 {
		t.Errorf("undecided = %d, want 3", sess.UndecidedCount())
	}
}

func TestRewindRevisitsFirstUndecided(t *testing.T) {
	_, sess := seedSession(t)

	if err := sess.Mark(context.Background(), catalog.DecisionRemove); err != nil {
		t.Fatal(err)
	}
	sess.Skip()
	sess.Skip()
	if !sess.Done() {
		t.Fatal("skipping every record should exhaust the cursor")
	}

	sess.Rewind()
	if sess.Done() {
		t.Fatal("rewind should reopen the session")
	}
	if got := sess.Current().Path; got != "/att/b.mov" {
		t.Errorf("rewind landed on %s, want first undecided /att/b.mov", got)
	}
}

func TestFinishReviewRequiresConfirmation(t *testing.T) {
	store, sess := seedSession(t)

	if err := sess.Mark(context.Background(), catalog.DecisionRemove); err != nil {
		t.Fatal(err)
	}

	err := sess.FinishReview(context.Background(), false)
	if !errors.Is(err, ErrUndecidedRemain) {
		t.Fatalf("expected ErrUndecidedRemain, got %v", err)
	}

	if err := sess.FinishReview(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if sess.UndecidedCount() != 0 {
		t.Error("bulk keep left undecided records")
	}

	records, err := store.ListPresent(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if rec.Undecided() {
			t.Errorf("record %s not persisted", rec.Path)
		}
	}
}

func TestFreedBytesCountsActionableOnly(t *testing.T) {
	_, sess := seedSession(t)

	if err := sess.Mark(context.Background(), catalog.DecisionRemove); err != nil { // a.mov, 100
		t.Fatal(err)
	}
	if err := sess.Mark(context.Background(), catalog.DecisionImportRemove); err != nil { // b.mov, 200
		t.Fatal(err)
	}
	if err := sess.Mark(context.Background(), catalog.DecisionKeep); err != nil { // c.jpg, 300
		t.Fatal(err)
	}
	if got := sess.FreedBytes(); got != 300 {
		t.Errorf("freed bytes = %d, want 300", got)
	}
}

func TestEmptyStoreErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := NewSession(context.Background(), store, logging.NewNop())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
