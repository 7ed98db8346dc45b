package testsupport

import (
	"path/filepath"
	"testing"

	"winnow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AttachmentsDir = filepath.Join(base, "attachments")
	cfg.Paths.ReviewDir = filepath.Join(base, "review")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.PhotosLibrary = filepath.Join(base, "Photos Library.photoslibrary")
	cfg.Import.SettleSeconds = 0
	cfg.Import.BatchPauseSeconds = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMinSizeMB overrides the scan size threshold on the test config.
func WithMinSizeMB(mb int) ConfigOption {
	return func(c *config.Config) {
		c.Scan.MinSizeMB = mb
	}
}

// WithExtensions overrides the scan allow-list on the test config.
func WithExtensions(exts ...string) ConfigOption {
	return func(c *config.Config) {
		c.Scan.Extensions = exts
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
