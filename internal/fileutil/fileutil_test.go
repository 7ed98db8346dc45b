package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"winnow/internal/fileutil"
)

func TestMoveFileSameFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mov")
	dst := filepath.Join(dir, "b.mov")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source gone, stat err=%v", err)
	}
	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(content) != "payload" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestNextAvailablePathAppendsSuffix(t *testing.T) {
	dir := t.TempDir()

	first, err := fileutil.NextAvailablePath(dir, "clip.mov")
	if err != nil {
		t.Fatalf("NextAvailablePath: %v", err)
	}
	if first != filepath.Join(dir, "clip.mov") {
		t.Fatalf("unexpected first path %q", first)
	}

	if err := os.WriteFile(first, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	second, err := fileutil.NextAvailablePath(dir, "clip.mov")
	if err != nil {
		t.Fatalf("NextAvailablePath: %v", err)
	}
	if second != filepath.Join(dir, "clip-1.mov") {
		t.Fatalf("unexpected second path %q", second)
	}

	if err := os.WriteFile(second, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	third, err := fileutil.NextAvailablePath(dir, "clip.mov")
	if err != nil {
		t.Fatalf("NextAvailablePath: %v", err)
	}
	if third != filepath.Join(dir, "clip-2.mov") {
		t.Fatalf("unexpected third path %q", third)
	}
}

func TestCopyFilePreservesContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := make([]byte, 128*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("size mismatch: %d != %d", len(got), len(payload))
	}
}
