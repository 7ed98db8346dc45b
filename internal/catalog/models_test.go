package catalog_test

import (
	"testing"

	"winnow/internal/catalog"
)

func TestParseDecision(t *testing.T) {
	cases := []struct {
		input string
		want  catalog.Decision
		ok    bool
	}{
		{"remove", catalog.DecisionRemove, true},
		{" Import_Remove ", catalog.DecisionImportRemove, true},
		{"KEEP", catalog.DecisionKeep, true},
		{"", catalog.DecisionNone, true},
		{"delete", "", false},
	}
	for _, tc := range cases {
		got, ok := catalog.ParseDecision(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseDecision(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDecisionIsActionable(t *testing.T) {
	if !catalog.DecisionRemove.IsActionable() {
		t.Fatal("remove should be actionable")
	}
	if !catalog.DecisionImportRemove.IsActionable() {
		t.Fatal("import_remove should be actionable")
	}
	if catalog.DecisionKeep.IsActionable() {
		t.Fatal("keep should not be actionable")
	}
	if catalog.DecisionNone.IsActionable() {
		t.Fatal("undecided should not be actionable")
	}
}

func TestCategoryForPath(t *testing.T) {
	cases := map[string]catalog.Category{
		"/a/b/clip.MOV":    catalog.CategoryVideo,
		"/a/b/photo.heic":  catalog.CategoryImage,
		"/a/b/song.m4a":    catalog.CategoryAudio,
		"/a/b/notes.pdf":   catalog.CategoryDocument,
		"/a/b/bundle.zip":  catalog.CategoryArchive,
		"/a/b/mystery.xyz": catalog.CategoryOther,
		"/a/b/noext":       catalog.CategoryOther,
	}
	for path, want := range cases {
		if got := catalog.CategoryForPath(path); got != want {
			t.Fatalf("CategoryForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
