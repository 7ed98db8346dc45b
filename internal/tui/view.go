package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"winnow/internal/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	foundStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("34")).
			Padding(0, 1)

	notFoundStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("208")).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Faint(true)
	pathStyle     = lipgloss.NewStyle().Faint(true)
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	keyStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

func (m Model) View() string {
	if m.err != nil {
		return "review aborted: " + m.err.Error() + "\n"
	}
	if m.quitting {
		return fmt.Sprintf("Review saved. %d decided, %d remaining. Run `winnow review` to resume.\n",
			m.session.DecidedCount(), m.session.UndecidedCount())
	}
	if m.finished {
		return fmt.Sprintf("Review complete: %d files, %s to reclaim. Run `winnow execute` to apply.\n",
			m.session.Len(), humanize.Bytes(uint64(m.session.FreedBytes())))
	}
	if m.confirming {
		return m.confirmView()
	}

	rec := m.session.Current()
	if rec == nil {
		return "nothing left to review\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("winnow review"))
	b.WriteString("\n\n")

	percent := float64(m.session.Position()) / float64(m.session.Len())
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString(fmt.Sprintf("  %d / %d", m.session.Position()+1, m.session.Len()))
	if freed := m.session.FreedBytes(); freed > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  ·  %s to reclaim", humanize.Bytes(uint64(freed)))))
	}
	b.WriteString("\n\n")

	if rec.InLibrary {
		b.WriteString(foundStyle.Render("FOUND IN PHOTOS"))
		if rec.Match != nil && rec.Match.Matches > 1 {
			b.WriteString(labelStyle.Render(fmt.Sprintf("  %d matching assets", rec.Match.Matches)))
		}
	} else {
		b.WriteString(notFoundStyle.Render("NOT FOUND IN PHOTOS"))
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(rec.Name))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("size     ") + humanize.Bytes(uint64(rec.Size)) + "\n")
	b.WriteString(labelStyle.Render("modified ") + rec.ModTime.Format("2006-01-02 15:04") + "\n")
	b.WriteString(labelStyle.Render("category ") + string(rec.Category) + "\n")
	b.WriteString(pathStyle.Render(rec.Path))
	b.WriteString("\n\n")

	b.WriteString(m.action("r", "remove (already in Photos)", catalog.DecisionRemove))
	b.WriteString(m.action("i", "import to Photos, then remove", catalog.DecisionImportRemove))
	b.WriteString(m.action("k", "keep in place", catalog.DecisionKeep))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s skip · f finish · q save and quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) action(key, label string, d catalog.Decision) string {
	line := keyStyle.Render(key) + "  " + label
	if !m.session.Allowed(d) {
		line = disabledStyle.Render(key + "  " + label)
	}
	return line + "\n"
}

func (m Model) confirmView() string {
	remaining := m.session.UndecidedCount()
	body := fmt.Sprintf("Finish review?\n\n%d records are still undecided and will be kept.\n\n", remaining)
	if remaining == 0 {
		body = "Finish review?\n\nEvery record has a decision.\n\n"
	}
	body += keyStyle.Render("y") + " finish   " + keyStyle.Render("n") + " go back"
	return modalStyle.Render(body) + "\n"
}
