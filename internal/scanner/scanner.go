package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"winnow/internal/catalog"
	"winnow/internal/config"
	"winnow/internal/logging"
	"winnow/internal/services"
)

// FullDiskAccessHint is the remediation shown when macOS denies traversal of
// the attachments directory.
const FullDiskAccessHint = "grant your terminal Full Disk Access in System Settings > Privacy & Security > Full Disk Access, then re-run the scan"

// Scanner walks the attachments root and yields catalog records.
type Scanner struct {
	root       string
	minSize    int64
	extensions map[string]struct{}
	logger     *slog.Logger
}

// New builds a scanner from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Scanner {
	extensions := make(map[string]struct{}, len(cfg.Scan.Extensions))
	for _, ext := range cfg.Scan.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		root:       cfg.Paths.AttachmentsDir,
		minSize:    cfg.MinSizeBytes(),
		extensions: extensions,
		logger:     logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan walks the root and returns one record per candidate file, in walk
// order. The scan never aborts on a single bad entry; per-entry failures are
// logged and skipped.
func (s *Scanner) Scan(ctx context.Context) ([]*catalog.Record, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "scan", "stat root",
				"attachments directory not found: "+s.root, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, s.permissionDenied("stat root", err)
		}
		return nil, services.Wrap(services.ErrTransient, "scan", "stat root", s.root, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "scan", "stat root",
			s.root+" is not a directory", nil)
	}

	var records []*catalog.Record
	walkErr := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if errors.Is(err, fs.ErrPermission) && path == s.root {
				return s.permissionDenied("walk root", err)
			}
			s.logger.Warn("skipping unreadable entry",
				logging.String("path", path),
				logging.Error(err),
			)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := s.extensions[ext]; !ok {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("skipping file that cannot be stat'd",
				logging.String("path", path),
				logging.Error(err),
			)
			return nil
		}
		if info.Size() < s.minSize {
			return nil
		}
		records = append(records, &catalog.Record{
			Path:     path,
			Name:     entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime().UTC(),
			Category: catalog.CategoryForPath(path),
		})
		return nil
	})
	if walkErr != nil {
		if services.IsFatal(walkErr) || errors.Is(walkErr, context.Canceled) {
			return nil, walkErr
		}
		if errors.Is(walkErr, fs.ErrPermission) {
			return nil, s.permissionDenied("walk", walkErr)
		}
		return nil, services.Wrap(services.ErrTransient, "scan", "walk", s.root, walkErr)
	}

	s.logger.Info("scan complete",
		logging.String("root", s.root),
		logging.Int("candidates", len(records)),
		logging.Int64("min_size_bytes", s.minSize),
	)
	return records, nil
}

func (s *Scanner) permissionDenied(operation string, err error) error {
	wrapped := services.Wrap(services.ErrPermission, "scan", operation,
		"traversal of "+s.root+" was denied by the OS", err)
	return services.WithHint(wrapped, FullDiskAccessHint)
}
