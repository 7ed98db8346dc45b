package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const recordColumns = "path, name, size_bytes, modified_at, category, digest, in_library, match_json, decision, decided_at, missing, created_at, updated_at"

// UpsertRecord inserts or refreshes a scanned record. An existing decision
// for the same path is preserved: re-scans never undo review work.
func (s *Store) UpsertRecord(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil record")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var matchJSON any
	if rec.Match != nil {
		encoded, err := json.Marshal(rec.Match)
		if err != nil {
			return fmt.Errorf("marshal match info: %w", err)
		}
		matchJSON = string(encoded)
	}

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO records (
            path, name, size_bytes, modified_at, category, digest,
            in_library, match_json, missing, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            name = excluded.name,
            size_bytes = excluded.size_bytes,
            modified_at = excluded.modified_at,
            category = excluded.category,
            digest = excluded.digest,
            in_library = excluded.in_library,
            match_json = excluded.match_json,
            missing = 0,
            updated_at = excluded.updated_at`,
		rec.Path,
		rec.Name,
		rec.Size,
		rec.ModTime.UTC().Format(time.RFC3339Nano),
		string(rec.Category),
		nullableString(rec.Digest),
		boolToInt(rec.InLibrary),
		matchJSON,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// SetDecision durably records a verdict for one path. This is the
// resumability guarantee: a crash after SetDecision loses nothing.
func (s *Store) SetDecision(ctx context.Context, path string, decision Decision) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE records SET decision = ?, decided_at = ?, updated_at = ? WHERE path = ?`,
		string(decision),
		now,
		now,
		path,
	)
	if err != nil {
		return fmt.Errorf("set decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set decision rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set decision: no record for path %s", path)
	}
	return nil
}

// ClearDecisions resets every record to undecided.
func (s *Store) ClearDecisions(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE records SET decision = '', decided_at = NULL, updated_at = ? WHERE decision != ''`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("clear decisions: %w", err)
	}
	return res.RowsAffected()
}

// GetByPath fetches a record by its path, or nil when absent.
func (s *Store) GetByPath(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE path = ?`, path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns all records in stable path order.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListPresent returns records whose files were seen by the most recent scan.
func (s *Store) ListPresent(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records WHERE missing = 0 ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list present records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UndecidedCount returns the number of present records without a decision.
func (s *Store) UndecidedCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM records WHERE decision = '' AND missing = 0`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count undecided: %w", err)
	}
	return count, nil
}

// MarkMissingExcept flags every record whose path is not in seen. Rows are
// kept, never deleted, so decision history survives narrower re-scans.
func (s *Store) MarkMissingExcept(ctx context.Context, seen map[string]struct{}) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	marked := 0
	for _, rec := range records {
		_, present := seen[rec.Path]
		if present == !rec.Missing {
			continue
		}
		if _, err := s.execWithRetry(
			ctx,
			`UPDATE records SET missing = ?, updated_at = ? WHERE path = ?`,
			boolToInt(!present),
			now,
			rec.Path,
		); err != nil {
			return marked, fmt.Errorf("mark missing: %w", err)
		}
		if !present {
			marked++
		}
	}
	return marked, nil
}

// DecisionTally aggregates present records per decision.
type DecisionTally struct {
	Decision Decision
	Count    int
	Bytes    int64
}

// SummarizeDecisions returns per-decision counts and byte totals for present
// records, including the undecided bucket.
func (s *Store) SummarizeDecisions(ctx context.Context) ([]DecisionTally, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT decision, COUNT(1), COALESCE(SUM(size_bytes), 0)
         FROM records WHERE missing = 0 GROUP BY decision ORDER BY decision`,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize decisions: %w", err)
	}
	defer rows.Close()

	var tallies []DecisionTally
	for rows.Next() {
		var tally DecisionTally
		var raw string
		if err := rows.Scan(&raw, &tally.Count, &tally.Bytes); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		tally.Decision = Decision(raw)
		tallies = append(tallies, tally)
	}
	return tallies, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		path       string
		name       string
		size       int64
		modifiedAt string
		category   string
		digest     sql.NullString
		inLibrary  int
		matchJSON  sql.NullString
		decision   string
		decidedAt  sql.NullString
		missing    int
		createdAt  string
		updatedAt  string
	)

	if err := scanner.Scan(
		&path,
		&name,
		&size,
		&modifiedAt,
		&category,
		&digest,
		&inLibrary,
		&matchJSON,
		&decision,
		&decidedAt,
		&missing,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		Path:      path,
		Name:      name,
		Size:      size,
		Category:  Category(category),
		Digest:    digest.String,
		InLibrary: inLibrary != 0,
		Decision:  Decision(decision),
		Missing:   missing != 0,
	}

	var err error
	if rec.ModTime, err = parseTime(modifiedAt); err != nil {
		return nil, fmt.Errorf("parse modified_at: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if decidedAt.Valid && decidedAt.String != "" {
		parsed, err := parseTime(decidedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse decided_at: %w", err)
		}
		rec.DecidedAt = &parsed
	}
	if matchJSON.Valid && matchJSON.String != "" {
		var info MatchInfo
		if err := json.Unmarshal([]byte(matchJSON.String), &info); err != nil {
			return nil, fmt.Errorf("decode match info: %w", err)
		}
		rec.Match = &info
	}

	return rec, nil
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
