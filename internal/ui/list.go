package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

// workingSet is the list as displayed: the loaded page filtered by the
// search term, sorted by the active key, and reversed when the table's
// direction toggle calls for it. The server already applied the search
// term; filtering again here keeps typed-but-not-yet-fetched
// keystrokes responsive.
func (m Model) workingSet() []learning.Learning {
	if !m.snapshot.HasPage {
		return nil
	}
	entries := learning.Filter(m.snapshot.Page.Learnings, m.searchInput.Value())
	entries = learning.Sort(entries, m.sortKey)
	if m.viewMode == "table" && m.reversed() {
		entries = learning.Reverse(entries)
	}
	return entries
}

// reversed reports whether the working set should be flipped. The date
// column's natural order is newest-first, so its ascending toggle is
// the reversal; for category and title the descending toggle is.
func (m Model) reversed() bool {
	if m.sortKey == learning.SortByDate {
		return m.sortAsc
	}
	return !m.sortAsc
}

// toggleColumn handles a table column header toggle: the active column
// flips direction, a new column becomes active in its natural order.
func (m *Model) toggleColumn(k learning.SortKey) {
	if m.sortKey == k {
		m.sortAsc = !m.sortAsc
		return
	}
	m.sortKey = k
	m.sortAsc = true
}

func (m *Model) clampSelection() {
	n := len(m.workingSet())
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A focused search box owns everything except escape and enter.
	if m.searching {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.searching = false
			m.searchInput.Blur()
			if m.searchInput.Value() != "" {
				m.searchInput.SetValue("")
				m.searchSeq++
				m.page = 0
				return m, m.fetchPageCmd(0, "")
			}
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			before := m.searchInput.Value()
			m.searchInput, cmd = m.searchInput.Update(msg)
			if m.searchInput.Value() != before {
				m.searchSeq++
				m.selected = 0
				return m, tea.Batch(cmd, m.debounceCmd(m.searchSeq))
			}
			return m, cmd
		}
	}

	entries := m.workingSet()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		return m.openDiagnostics()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(entries)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(entries) > 0 {
			m.selected = len(entries) - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.View):
		if m.selected < len(entries) {
			m.detail = newDetailModel(entries[m.selected], m.width, m.height)
			m.view = ViewDetail
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.form = newFormModel(nil, m.categories(), m.width)
		m.view = ViewForm
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if m.selected < len(entries) {
			entry := entries[m.selected]
			m.form = newFormModel(&entry, m.categories(), m.width)
			m.view = ViewForm
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selected < len(entries) {
			entry := entries[m.selected]
			m.modal = newConfirmModal(
				fmt.Sprintf("Delete %q?", entry.Title),
				"This cannot be undone.",
				m.deleteCmd(entry.ID),
			)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleMode):
		m.viewMode = ternary(m.viewMode == "tiles", "table", "tiles")
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		switch m.sortKey {
		case learning.SortByDate:
			m.sortKey = learning.SortByCategory
		case learning.SortByCategory:
			m.sortKey = learning.SortByTitle
		default:
			m.sortKey = learning.SortByDate
		}
		m.sortAsc = true
		return m, nil

	case key.Matches(msg, m.keys.SortCat):
		if m.viewMode == "table" {
			m.toggleColumn(learning.SortByCategory)
		}
		return m, nil

	case key.Matches(msg, m.keys.SortTitle):
		if m.viewMode == "table" {
			m.toggleColumn(learning.SortByTitle)
		}
		return m, nil

	case key.Matches(msg, m.keys.SortDate):
		if m.viewMode == "table" {
			m.toggleColumn(learning.SortByDate)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.snapshot.HasPage && m.snapshot.Page.HasPrevious {
			m.selected = 0
			return m, m.fetchPageCmd(m.page-1, m.searchInput.Value())
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.snapshot.HasPage && m.snapshot.Page.HasNext {
			m.selected = 0
			return m, m.fetchPageCmd(m.page+1, m.searchInput.Value())
		}
		return m, nil

	case key.Matches(msg, m.keys.JumpPage):
		if m.snapshot.HasPage && m.snapshot.Page.TotalPages > 1 {
			m.modal = newJumpModal(m.snapshot.Page.TotalPages, func(page int) tea.Cmd {
				return m.fetchPageCmd(page, m.searchInput.Value())
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		m.modal = newConfirmModal("Log out?", "Your saved session will be cleared.", m.logoutCmd())
		return m, nil
	}

	return m, nil
}

// categories derives the pick list for the form from the loaded page.
func (m Model) categories() []string {
	if !m.snapshot.HasPage {
		return learning.DefaultCategories
	}
	return learning.Categories(m.snapshot.Page.Learnings)
}

// Rendering

func (m Model) renderList() string {
	styles := m.theme.Styles()
	entries := m.workingSet()

	var b strings.Builder
	if m.searching || m.searchInput.Value() != "" {
		b.WriteString("  " + m.searchInput.View() + "\n\n")
	}

	if len(entries) == 0 {
		var msg string
		switch {
		case !m.snapshot.HasPage:
			msg = "Loading learnings..."
		case m.searchInput.Value() != "":
			msg = fmt.Sprintf("No learnings match %q.", m.searchInput.Value())
		default:
			msg = "No learnings yet. Press <a> to add your first one."
		}
		b.WriteString("\n  " + styles.MutedText.Render(msg) + "\n")
		return m.fillHeight(b.String())
	}

	if m.viewMode == "table" {
		b.WriteString(m.renderTable(entries))
	} else {
		b.WriteString(m.renderTiles(entries))
	}
	return m.fillHeight(b.String())
}

func (m Model) renderTiles(entries []learning.Learning) string {
	styles := m.theme.Styles()
	var b strings.Builder

	for i, e := range entries {
		card := styles.Card
		if i == m.selected {
			card = styles.CardFocus
		}
		cat := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.CategoryColor(e.Category))).Bold(true)

		width := m.width - 8
		if width < 20 {
			width = 20
		}
		var lines []string
		lines = append(lines,
			styles.Title.Render(truncate(e.Title, width))+"  "+cat.Render(e.Category))
		lines = append(lines,
			styles.FaintText.Render(learning.FormatDate(e.Date)))
		if desc := firstLine(e.Description); desc != "" {
			lines = append(lines, styles.MutedText.Render(truncate(desc, width)))
		}
		if e.Tags != "" {
			var chips []string
			for _, t := range learning.SplitTags(e.Tags) {
				chips = append(chips, styles.TagChip.Render(t))
			}
			lines = append(lines, strings.Join(chips, " "))
		}
		if n := len(e.Attachments); n > 0 {
			lines = append(lines, styles.FaintText.Render(fmt.Sprintf("📎 %d attachment%s", n, ternary(n == 1, "", "s"))))
		}

		b.WriteString(card.Width(width + 4).Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTable(entries []learning.Learning) string {
	styles := m.theme.Styles()

	titleW := m.width - 14 - 12 - 16 - 8
	if titleW < 16 {
		titleW = 16
	}

	indicator := func(k learning.SortKey) string {
		if m.sortKey != k {
			return ""
		}
		return ternary(m.sortAsc, " ↑", " ↓")
	}

	var b strings.Builder
	header := fmt.Sprintf("  %s %s %s %s",
		padRight("Date"+indicator(learning.SortByDate), 12),
		padRight("Category"+indicator(learning.SortByCategory), 12),
		padRight("Title"+indicator(learning.SortByTitle), titleW),
		"Tags")
	b.WriteString(styles.Header.Render(header) + "\n")

	for i, e := range entries {
		line := fmt.Sprintf("  %s %s %s %s",
			padRight(learning.FormatDate(e.Date), 12),
			padRight(truncate(e.Category, 11), 12),
			padRight(truncate(e.Title, titleW-1), titleW),
			truncate(e.Tags, 16))
		if i == m.selected {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// fillHeight pads the content area so the command bar stays anchored.
func (m Model) fillHeight(s string) string {
	lines := strings.Count(s, "\n") + 1
	want := m.contentHeight()
	if lines >= want {
		return s
	}
	return s + strings.Repeat("\n", want-lines)
}
