package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"winnow/internal/catalog"
)

var titleCaser = cases.Title(language.English)

func decisionLabel(d catalog.Decision) string {
	switch d {
	case catalog.DecisionNone:
		return "Undecided"
	case catalog.DecisionImportRemove:
		return "Import & Remove"
	default:
		return titleCaser.String(string(d))
	}
}

// Render writes the summary tables to w.
func Render(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "Catalog: %d files, %s total, %d already in Photos\n",
		s.Records, humanize.Bytes(uint64(s.TotalBytes)), s.InLibrary)
	if s.Reclaimable > 0 {
		fmt.Fprintf(w, "Reclaimable once executed: %s\n", humanize.Bytes(uint64(s.Reclaimable)))
	}
	fmt.Fprintln(w)

	renderDecisions(w, s)
	fmt.Fprintln(w)
	renderCategories(w, s)
	if len(s.Largest) > 0 {
		fmt.Fprintln(w)
		renderLargest(w, s)
	}
}

func renderDecisions(w io.Writer, s *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Decision", "Files", "Size"})
	for _, tally := range s.Decisions {
		t.AppendRow(table.Row{
			decisionLabel(tally.Decision),
			tally.Count,
			humanize.Bytes(uint64(tally.Bytes)),
		})
	}
	t.Render()
}

func renderCategories(w io.Writer, s *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Category", "Files", "Size", "Share"})
	for _, total := range s.Categories {
		t.AppendRow(table.Row{
			titleCaser.String(string(total.Category)),
			total.Count,
			humanize.Bytes(uint64(total.Bytes)),
			fmt.Sprintf("%.1f%%", total.Percent),
		})
	}
	t.Render()
}

func renderLargest(w io.Writer, s *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Size", "Name", "Status"})
	for i, rec := range s.Largest {
		status := "not in Photos"
		if rec.InLibrary {
			status = "in Photos"
		}
		t.AppendRow(table.Row{i + 1, humanize.Bytes(uint64(rec.Size)), rec.Name, status})
	}
	t.Render()
}
