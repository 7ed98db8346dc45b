package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"winnow/internal/catalog"
	"winnow/internal/logging"
)

func TestHashFileMatchesStdlib(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mov")
	payload := make([]byte, hashBlockSize*2+137)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(context.Background(), path)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	sum := sha256.Sum256(payload)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("digest = %s, want %s", got, want)
	}
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(context.Background(), filepath.Join(t.TempDir(), "gone.mov"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHashRecordsSkipsUnreadableAndExisting(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.mov")
	if err := os.WriteFile(present, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	records := []*catalog.Record{
		{Path: present, Name: "a.mov"},
		{Path: filepath.Join(dir, "missing.mov"), Name: "missing.mov"},
		{Path: filepath.Join(dir, "done.mov"), Name: "done.mov", Digest: "cafe"},
	}

	if err := HashRecords(context.Background(), records, logging.NewNop()); err != nil {
		t.Fatalf("hash records failed: %v", err)
	}
	if records[0].Digest == "" {
		t.Error("readable file not hashed")
	}
	if records[1].Digest != "" {
		t.Error("unreadable file should keep empty digest")
	}
	if records[2].Digest != "cafe" {
		t.Error("existing digest should be preserved")
	}
}
