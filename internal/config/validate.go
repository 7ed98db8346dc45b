package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.AttachmentsDir == "" {
		return errors.New("paths.attachments_dir must be set")
	}
	if c.Paths.ReviewDir == "" {
		return errors.New("paths.review_dir must be set")
	}
	if c.Paths.AttachmentsDir == c.Paths.ReviewDir {
		return errors.New("paths.review_dir must not equal paths.attachments_dir")
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	if c.Scan.MinSizeMB < 0 {
		return errors.New("scan.min_size_mb must not be negative")
	}
	return nil
}

func (c *Config) validateImport() error {
	if err := ensurePositiveMap(map[string]int{
		"import.timeout_seconds": c.Import.TimeoutSeconds,
		"import.batch_size":      c.Import.BatchSize,
	}); err != nil {
		return err
	}
	if c.Import.SettleSeconds < 0 {
		return errors.New("import.settle_seconds must not be negative")
	}
	if c.Import.BatchPauseSeconds < 0 {
		return errors.New("import.batch_pause_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
