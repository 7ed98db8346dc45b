package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"winnow/internal/logging"
)

func TestConsoleHandlerWritesPrefixedLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "winnow.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "scanner")
	component.Info("scan complete", logging.Int("files", 3))
	component.Debug("suppressed at info level")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "INFO scanner: scan complete files=3") {
		t.Fatalf("unexpected log line: %q", text)
	}
	if strings.Contains(text, "suppressed") {
		t.Fatalf("debug line should be filtered: %q", text)
	}
}

func TestJSONHandlerLowercasesLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "winnow.json")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("degraded", logging.String("reason", "index unavailable"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, fragment := range []string{`"level":"warn"`, `"msg":"degraded"`, `"reason":"index unavailable"`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in %q", fragment, text)
		}
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("never rendered", logging.Error(os.ErrNotExist))
}
