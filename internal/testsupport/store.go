package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"winnow/internal/catalog"
	"winnow/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRecord upserts a record for tests using the provided store.
func NewRecord(t testing.TB, store *catalog.Store, path string, size int64, inLibrary bool) *catalog.Record {
	t.Helper()

	rec := &catalog.Record{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      size,
		ModTime:   time.Now().UTC(),
		Category:  catalog.CategoryForPath(path),
		InLibrary: inLibrary,
	}
	if inLibrary {
		rec.Match = &catalog.MatchInfo{Filename: rec.Name, Size: size, Matches: 1}
	}
	if err := store.UpsertRecord(context.Background(), rec); err != nil {
		t.Fatalf("store.UpsertRecord: %v", err)
	}
	return rec
}
