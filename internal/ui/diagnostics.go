package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.view = ViewList
		if !m.session.IsAuthenticated() {
			m.view = ViewLogin
		}
		m.diagLines = nil
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Diagnostics):
		// Re-read the tail.
		return m.openDiagnostics()
	}
	return m, nil
}

func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.Title.Render("Diagnostics") + "  " +
		styles.FaintText.Render(m.cfg.LogPath) + "\n\n")

	if len(m.diagLines) == 0 {
		b.WriteString("  " + styles.MutedText.Render("The log is empty.") + "\n")
		return m.fillHeight(b.String())
	}

	// Show the newest lines that fit.
	avail := m.contentHeight() - 4
	if avail < 1 {
		avail = 1
	}
	lines := m.diagLines
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	for _, line := range lines {
		b.WriteString("  " + styles.MutedText.Render(truncate(line, m.width-4)) + "\n")
	}
	return m.fillHeight(b.String())
}
