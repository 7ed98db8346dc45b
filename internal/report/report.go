// Package report aggregates the catalog into human-readable summaries:
// per-decision and per-category totals plus the largest individual files.
// It only reads; rendering is separate from aggregation so the CLI can reuse
// the numbers.
package report

import (
	"context"
	"sort"

	"winnow/internal/catalog"
)

// CategoryTotal is one per-category aggregation row.
type CategoryTotal struct {
	Category catalog.Category
	Count    int
	Bytes    int64
	Percent  float64
}

// Summary is a full catalog aggregation.
type Summary struct {
	Records     int
	TotalBytes  int64
	InLibrary   int
	Undecided   int
	Reclaimable int64

	Decisions  []catalog.DecisionTally
	Categories []CategoryTotal
	Largest    []*catalog.Record
}

// Build aggregates present records. topN bounds the largest-files list; a
// non-positive value disables it.
func Build(ctx context.Context, store *catalog.Store, topN int) (*Summary, error) {
	records, err := store.ListPresent(ctx)
	if err != nil {
		return nil, err
	}
	tallies, err := store.SummarizeDecisions(ctx)
	if err != nil {
		return nil, err
	}

	s := &Summary{Decisions: tallies}
	byCategory := map[catalog.Category]*CategoryTotal{}
	for _, rec := range records {
		s.Records++
		s.TotalBytes += rec.Size
		if rec.InLibrary {
			s.InLibrary++
		}
		if rec.Undecided() {
			s.Undecided++
		}
		if rec.Decision.IsActionable() {
			s.Reclaimable += rec.Size
		}
		total, ok := byCategory[rec.Category]
		if !ok {
			total = &CategoryTotal{Category: rec.Category}
			byCategory[rec.Category] = total
		}
		total.Count++
		total.Bytes += rec.Size
	}

	for _, total := range byCategory {
		if s.TotalBytes > 0 {
			total.Percent = float64(total.Bytes) / float64(s.TotalBytes) * 100
		}
		s.Categories = append(s.Categories, *total)
	}
	// Largest share of the footprint first.
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Bytes != s.Categories[j].Bytes {
			return s.Categories[i].Bytes > s.Categories[j].Bytes
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	if topN > 0 {
		largest := make([]*catalog.Record, len(records))
		copy(largest, records)
		sort.Slice(largest, func(i, j int) bool {
			if largest[i].Size != largest[j].Size {
				return largest[i].Size > largest[j].Size
			}
			return largest[i].Path < largest[j].Path
		})
		if len(largest) > topN {
			largest = largest[:topN]
		}
		s.Largest = largest
	}
	return s, nil
}
