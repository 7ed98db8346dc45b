package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// inventoryEntry is the human-inspectable export form of a Record.
type inventoryEntry struct {
	Path      string     `json:"path"`
	Name      string     `json:"name"`
	SizeBytes int64      `json:"size_bytes"`
	Modified  time.Time  `json:"modified"`
	Category  Category   `json:"category"`
	Digest    string     `json:"digest,omitempty"`
	InLibrary bool       `json:"in_library"`
	Match     *MatchInfo `json:"match,omitempty"`
	Decision  Decision   `json:"decision,omitempty"`
	Missing   bool       `json:"missing,omitempty"`
}

type inventoryDocument struct {
	GeneratedAt time.Time        `json:"generated_at"`
	RecordCount int              `json:"record_count"`
	TotalBytes  int64            `json:"total_bytes"`
	Records     []inventoryEntry `json:"records"`
}

// ExportInventory writes the full record list as indented JSON. The export
// is informational: deleting it costs nothing, the catalog database remains
// the source of truth.
func (s *Store) ExportInventory(ctx context.Context, path string) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}

	doc := inventoryDocument{
		GeneratedAt: time.Now().UTC(),
		RecordCount: len(records),
		Records:     make([]inventoryEntry, 0, len(records)),
	}
	for _, rec := range records {
		doc.TotalBytes += rec.Size
		doc.Records = append(doc.Records, inventoryEntry{
			Path:      rec.Path,
			Name:      rec.Name,
			SizeBytes: rec.Size,
			Modified:  rec.ModTime,
			Category:  rec.Category,
			Digest:    rec.Digest,
			InLibrary: rec.InLibrary,
			Match:     rec.Match,
			Decision:  rec.Decision,
			Missing:   rec.Missing,
		})
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return nil
}
