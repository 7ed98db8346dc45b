package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecordAppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Record("moved", F("src", "/a/clip.mov"), F("dst", "/r/clip.mov")); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Record("skipped", F("reason", "source missing")); err != nil {
		t.Fatal(err)
	}
	if err := second.Close(); err != nil {
		t.Fatal(err)
	}

	if first.Session() == second.Session() {
		t.Error("sessions should get distinct identifiers")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "event=moved") || !strings.Contains(lines[0], "src=/a/clip.mov") {
		t.Errorf("first entry malformed: %s", lines[0])
	}
	if !strings.Contains(lines[1], `reason="source missing"`) {
		t.Errorf("quoting missing on second entry: %s", lines[1])
	}
	if !strings.Contains(lines[0], "session="+first.Session()) {
		t.Errorf("session tag missing: %s", lines[0])
	}
}

func TestOpenRejectsUnwritableDir(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "audit.log"))
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
