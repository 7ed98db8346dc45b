// Package review drives the keep/remove/import walk over scanned records.
// The controller owns every state transition and persists each verdict the
// moment it is made; any front end (the terminal UI, a future batch mode) is
// a thin adapter over Session. Quitting at any point loses nothing.
package review

import (
	"context"
	"errors"
	"log/slog"

	"winnow/internal/catalog"
	"winnow/internal/logging"
	"winnow/internal/services"
)

// ErrUndecidedRemain is returned by FinishReview when records are still
// undecided and the caller has not confirmed the bulk-keep default.
var ErrUndecidedRemain = errors.New("undecided records remain")

// Session is a resumable pass over the record list. Records are visited in
// stable path order; the cursor fast-forwards past anything already decided
// so a restarted review lands on the first open record.
type Session struct {
	store   *catalog.Store
	records []*catalog.Record
	cursor  int
	logger  *slog.Logger
}

// NewSession loads all present records from the store and positions the
// cursor on the first undecided one.
func NewSession(ctx context.Context, store *catalog.Store, logger *slog.Logger) (*Session, error) {
	records, err := store.ListPresent(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "review", "load",
			"no records to review; run a scan first", nil)
	}
	s := &Session{
		store:   store,
		records: records,
		logger:  logging.NewComponentLogger(logger, "review"),
	}
	s.SkipDecided()
	return s, nil
}

// Len returns the total number of records in the session.
func (s *Session) Len() int { return len(s.records) }

// Position returns the zero-based cursor index, clamped to Len.
func (s *Session) Position() int {
	if s.cursor > len(s.records) {
		return len(s.records)
	}
	return s.cursor
}

// Done reports whether the cursor has moved past the last record.
func (s *Session) Done() bool { return s.cursor >= len(s.records) }

// Current returns the record under the cursor, or nil when done.
func (s *Session) Current() *catalog.Record {
	if s.Done() {
		return nil
	}
	return s.records[s.cursor]
}

// Records exposes the session's record slice in visit order.
func (s *Session) Records() []*catalog.Record { return s.records }

// Allowed reports whether a decision may be offered for the current record.
// Remove requires a library match; import-and-remove requires the absence of
// one. Keep is always allowed. A decision that skips the import step for an
// unmatched file would lose data, so the gate is hard, not advisory.
func (s *Session) Allowed(d catalog.Decision) bool {
	rec := s.Current()
	if rec == nil {
		return false
	}
	switch d {
	case catalog.DecisionKeep:
		return true
	case catalog.DecisionRemove:
		return rec.InLibrary
	case catalog.DecisionImportRemove:
		return !rec.InLibrary
	default:
		return false
	}
}

// Mark persists the decision for the current record, then advances the
// cursor past any already-decided records. The write happens before the
// advance: a crash between the two re-presents at the next open record.
func (s *Session) Mark(ctx context.Context, d catalog.Decision) error {
	rec := s.Current()
	if rec == nil {
		return services.Wrap(services.ErrValidation, "review", "mark", "no current record", nil)
	}
	if !s.Allowed(d) {
		return services.Wrap(services.ErrValidation, "review", "mark",
			"decision "+string(d)+" is not offered for "+rec.Name, nil)
	}
	if err := s.store.SetDecision(ctx, rec.Path, d); err != nil {
		return err
	}
	rec.Decision = d
	s.logger.Info("decision recorded",
		logging.String("path", rec.Path),
		logging.String("decision", string(d)),
	)
	s.cursor++
	s.SkipDecided()
	return nil
}

// SkipDecided advances the cursor past records that already carry a verdict.
func (s *Session) SkipDecided() {
	for s.cursor < len(s.records) && !s.records[s.cursor].Undecided() {
		s.cursor++
	}
}

// Rewind seeks back to the first undecided record so a pass that skipped
// records can revisit them without restarting the session.
func (s *Session) Rewind() {
	s.cursor = 0
	s.SkipDecided()
}

// Skip moves past the current record without deciding it. It stays undecided
// and will be revisited on the next session.
func (s *Session) Skip() {
	if s.Done() {
		return
	}
	s.cursor++
	s.SkipDecided()
}

// UndecidedCount counts records in this session still awaiting a verdict.
func (s *Session) UndecidedCount() int {
	n := 0
	for _, rec := range s.records {
		if rec.Undecided() {
			n++
		}
	}
	return n
}

// FreedBytes sums the sizes of records marked for relocation.
func (s *Session) FreedBytes() int64 {
	var total int64
	for _, rec := range s.records {
		if rec.Decision.IsActionable() {
			total += rec.Size
		}
	}
	return total
}

// DecidedCount counts records carrying any verdict.
func (s *Session) DecidedCount() int {
	return len(s.records) - s.UndecidedCount()
}

// SaveAndExit is the explicit stopping point for a partial review. Every
// mark is already durable, so this only logs where the session left off.
func (s *Session) SaveAndExit() {
	s.logger.Info("review suspended",
		logging.Int("decided", s.DecidedCount()),
		logging.Int("remaining", s.UndecidedCount()),
	)
}

// FinishReview closes out the session. If undecided records remain it
// refuses with ErrUndecidedRemain unless confirmBulkKeep is set, in which
// case every open record is marked keep, each persisted individually.
func (s *Session) FinishReview(ctx context.Context, confirmBulkKeep bool) error {
	remaining := s.UndecidedCount()
	if remaining > 0 && !confirmBulkKeep {
		return ErrUndecidedRemain
	}
	for _, rec := range s.records {
		if !rec.Undecided() {
			continue
		}
		if err := s.store.SetDecision(ctx, rec.Path, catalog.DecisionKeep); err != nil {
			return err
		}
		rec.Decision = catalog.DecisionKeep
	}
	if remaining > 0 {
		s.logger.Info("bulk keep applied", logging.Int("records", remaining))
	}
	s.logger.Info("review finished",
		logging.Int("records", len(s.records)),
		logging.Int64("freed_bytes_planned", s.FreedBytes()),
	)
	return nil
}
