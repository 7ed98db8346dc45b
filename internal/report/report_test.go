package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"winnow/internal/catalog"
	"winnow/internal/testsupport"
)

func seedCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewRecord(t, store, "/att/a.mov", 600, true)
	testsupport.NewRecord(t, store, "/att/b.mov", 300, false)
	testsupport.NewRecord(t, store, "/att/c.jpg", 100, true)
	if err := store.SetDecision(context.Background(), "/att/a.mov", catalog.DecisionRemove); err != nil {
		t.Fatal(err)
	}
	if err := store.SetDecision(context.Background(), "/att/c.jpg", catalog.DecisionKeep); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestBuildAggregates(t *testing.T) {
	store := seedCatalog(t)

	s, err := Build(context.Background(), store, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Records != 3 || s.TotalBytes != 1000 {
		t.Fatalf("totals wrong: %+v", s)
	}
	if s.InLibrary != 2 || s.Undecided != 1 {
		t.Errorf("counts wrong: in_library=%d undecided=%d", s.InLibrary, s.Undecided)
	}
	if s.Reclaimable != 600 {
		t.Errorf("reclaimable = %d, want 600", s.Reclaimable)
	}

	if len(s.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(s.Categories))
	}
	if s.Categories[0].Category != catalog.CategoryVideo || s.Categories[0].Bytes != 900 {
		t.Errorf("video category wrong: %+v", s.Categories[0])
	}
	if got := s.Categories[0].Percent; got < 89.9 || got > 90.1 {
		t.Errorf("video share = %f, want 90", got)
	}

	if len(s.Largest) != 2 {
		t.Fatalf("top-N not bounded: %d", len(s.Largest))
	}
	if s.Largest[0].Path != "/att/a.mov" || s.Largest[1].Path != "/att/b.mov" {
		t.Errorf("largest order wrong: %s, %s", s.Largest[0].Path, s.Largest[1].Path)
	}
}

func TestBuildWithoutTopN(t *testing.T) {
	store := seedCatalog(t)

	s, err := Build(context.Background(), store, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Largest != nil {
		t.Errorf("topN<=0 should disable the largest list, got %d entries", len(s.Largest))
	}
}

func TestRenderMentionsEverySection(t *testing.T) {
	store := seedCatalog(t)

	s, err := Build(context.Background(), store, 3)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	Render(&buf, s)
	out := buf.String()

	for _, want := range []string{
		"3 files",
		"Remove",
		"Undecided",
		"Video",
		"Image",
		"a.mov",
		"in Photos",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
}
