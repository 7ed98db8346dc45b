// Package audit appends a permanent line-per-action trail of everything the
// executor does to the user's files. The log is append-only and survives
// crashes mid-run; each run is tagged with a session ID so interleaved runs
// can be told apart after the fact.
package audit

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"winnow/internal/services"
)

// Log writes timestamped audit entries to a single append-only file.
type Log struct {
	mu      sync.Mutex
	file    *os.File
	session string
}

// Open creates or appends to the audit file at path and starts a new session.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, services.Wrap(services.ErrPermission, "audit", "open", path, err)
	}
	return &Log{file: f, session: uuid.NewString()}, nil
}

// Session returns the identifier stamped on every entry of this log.
func (l *Log) Session() string {
	return l.session
}

// Record appends one entry. Fields are flattened into key=value pairs after
// the event name; values containing spaces are quoted.
func (l *Log) Record(event string, fields ...Field) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" session=")
	b.WriteString(l.session)
	b.WriteString(" event=")
	b.WriteString(event)
	for _, field := range fields {
		b.WriteByte(' ')
		b.WriteString(field.Key)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(field.Value))
	}
	b.WriteByte('\n')

	if _, err := l.file.WriteString(b.String()); err != nil {
		return services.Wrap(services.ErrTransient, "audit", "write", event, err)
	}
	return nil
}

// Close syncs and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Field is one key=value pair on an audit entry.
type Field struct {
	Key   string
	Value string
}

func F(key, value string) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: fmt.Sprintf("%d", value)}
}

func quoteIfNeeded(value string) string {
	if value == "" || strings.ContainsAny(value, " \t\"") {
		return fmt.Sprintf("%q", value)
	}
	return value
}
