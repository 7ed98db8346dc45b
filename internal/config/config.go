package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"winnow/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AttachmentsDir string `toml:"attachments_dir"`
	ReviewDir      string `toml:"review_dir"`
	StateDir       string `toml:"state_dir"`
	LogDir         string `toml:"log_dir"`
	PhotosLibrary  string `toml:"photos_library"`
}

// Scan contains candidate-selection configuration.
type Scan struct {
	Extensions []string `toml:"extensions"`
	MinSizeMB  int      `toml:"min_size_mb"`
	TopLargest int      `toml:"top_largest"`
}

// Import contains configuration for the Photos import bridge.
type Import struct {
	TimeoutSeconds    int  `toml:"timeout_seconds"`
	SettleSeconds     int  `toml:"settle_seconds"`
	Verify            bool `toml:"verify"`
	BatchSize         int  `toml:"batch_size"`
	BatchPauseSeconds int  `toml:"batch_pause_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for winnow.
//
// Sections by subsystem:
//   - Paths: attachments root, quarantine/review tree, state and log dirs,
//     and the Photos library location
//   - Scan: extension allow-list and size threshold
//   - Import: osascript timeout, post-import settle/verify, batch pacing
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scan    Scan    `toml:"scan"`
	Import  Import  `toml:"import"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/winnow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "normalize", resolvedPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "validate", resolvedPath, err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("winnow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories winnow owns. The attachments
// root is deliberately excluded: it must already exist and is never created
// on the operator's behalf.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, c.Paths.ReviewDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the catalog store location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "winnow.db")
}

// InventoryPath returns the human-inspectable inventory export location.
func (c *Config) InventoryPath() string {
	return filepath.Join(c.Paths.StateDir, "inventory.json")
}

// AuditLogPath returns the append-only audit log location.
func (c *Config) AuditLogPath() string {
	return filepath.Join(c.Paths.StateDir, "audit.log")
}

// PhotosDatabasePath returns the sqlite index inside the Photos library bundle.
func (c *Config) PhotosDatabasePath() string {
	return filepath.Join(c.Paths.PhotosLibrary, "database", "Photos.sqlite")
}

// MinSizeBytes converts the configured scan threshold to bytes.
func (c *Config) MinSizeBytes() int64 {
	return int64(c.Scan.MinSizeMB) * 1024 * 1024
}

// ImportTimeout returns the per-file osascript deadline.
func (c *Config) ImportTimeout() time.Duration {
	return time.Duration(c.Import.TimeoutSeconds) * time.Second
}

// SettleDelay returns how long to wait after an import before verification.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Import.SettleSeconds) * time.Second
}

// BatchPause returns the pause between import batches.
func (c *Config) BatchPause() time.Duration {
	return time.Duration(c.Import.BatchPauseSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
