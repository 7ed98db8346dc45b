package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"winnow/internal/config"
	"winnow/internal/logging"
	"winnow/internal/services"
)

// commandContext builds the osascript invocation. Tests swap it out to avoid
// talking to a real Photos application.
var commandContext = exec.CommandContext

// ImportOutcome classifies a single import attempt.
type ImportOutcome string

const (
	// OutcomeImported means Photos accepted the file as a new asset.
	OutcomeImported ImportOutcome = "imported"
	// OutcomeDuplicate means Photos recognized the file as already present.
	OutcomeDuplicate ImportOutcome = "duplicate"
	// OutcomeFailed means the import did not complete.
	OutcomeFailed ImportOutcome = "failed"
)

// Importer hands files to the Photos application over osascript.
type Importer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewImporter builds an importer from configuration.
func NewImporter(cfg *config.Config, logger *slog.Logger) *Importer {
	return &Importer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "importer"),
	}
}

// importScript asks Photos to import a single file. Duplicate checking stays
// on so Photos refuses files it already holds rather than duplicating them.
const importScript = `tell application "Photos"
	import (POSIX file %q) skip check duplicates false
end tell`

// Import sends one file to Photos and classifies the result. A timeout or a
// non-zero osascript exit is a failure, never a silent success; the caller
// must not relocate the file on OutcomeFailed.
func (im *Importer) Import(ctx context.Context, path string) (ImportOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, im.cfg.ImportTimeout())
	defer cancel()

	script := fmt.Sprintf(importScript, path)
	cmd := commandContext(ctx, "osascript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return OutcomeFailed, services.Wrap(services.ErrTimeout, "import", "osascript",
				"Photos did not finish importing "+path+" within "+im.cfg.ImportTimeout().String(), ctx.Err())
		}
		message := strings.TrimSpace(stderr.String())
		if isDuplicateRefusal(message) {
			im.logger.Info("photos refused duplicate", logging.String("path", path))
			return OutcomeDuplicate, nil
		}
		if message == "" {
			message = err.Error()
		}
		return OutcomeFailed, services.Wrap(services.ErrExternalTool, "import", "osascript",
			"Photos import failed for "+path+": "+message, err)
	}

	im.logger.Info("imported into photos",
		logging.String("path", path),
		logging.String("result", strings.TrimSpace(stdout.String())),
	)
	return OutcomeImported, nil
}

// Photos reports refused duplicates through AppleScript error text rather
// than an exit-code convention.
func isDuplicateRefusal(stderr string) bool {
	lowered := strings.ToLower(stderr)
	return strings.Contains(lowered, "duplicate")
}
