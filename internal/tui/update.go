package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"winnow/internal/catalog"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 8; w > 0 && w < 72 {
			m.progress.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.session.SaveAndExit()
		m.quitting = true
		return m, tea.Quit

	case "r":
		return m.mark(catalog.DecisionRemove)

	case "i":
		return m.mark(catalog.DecisionImportRemove)

	case "k":
		return m.mark(catalog.DecisionKeep)

	case "s":
		m.session.Skip()
		return m.maybeFinishPrompt()

	case "f":
		m.confirming = true
		return m, nil
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if err := m.session.FinishReview(context.Background(), true); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.finished = true
		return m, tea.Quit

	case "n", "esc":
		m.confirming = false
		// Reaching the prompt by skipping past the end leaves the cursor
		// exhausted; going back means revisiting the skipped records.
		if m.session.Done() {
			m.session.Rewind()
		}
		return m, nil

	case "ctrl+c":
		m.session.SaveAndExit()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) mark(d catalog.Decision) (tea.Model, tea.Cmd) {
	if !m.session.Allowed(d) {
		// Disabled actions are shown dimmed; pressing them is a no-op.
		return m, nil
	}
	if err := m.session.Mark(context.Background(), d); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m.maybeFinishPrompt()
}

// maybeFinishPrompt closes the session automatically once every record has a
// verdict; otherwise, reaching the end offers the finish confirmation so the
// user can bulk-keep what they skipped.
func (m Model) maybeFinishPrompt() (tea.Model, tea.Cmd) {
	if !m.session.Done() {
		return m, nil
	}
	if m.session.UndecidedCount() == 0 {
		if err := m.session.FinishReview(context.Background(), false); err != nil {
			m.err = err
		} else {
			m.finished = true
		}
		return m, tea.Quit
	}
	m.confirming = true
	return m, nil
}
