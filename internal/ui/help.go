package ui

import (
	"strings"
)

type helpEntry struct {
	keys string
	desc string
}

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{
		title: "List",
		entries: []helpEntry{
			{"j/k, ↑/↓", "move selection"},
			{"g / G", "jump to top / bottom"},
			{"enter", "open entry"},
			{"a", "add entry"},
			{"e", "edit entry"},
			{"x", "delete entry"},
			{"/", "search (esc clears)"},
			{"v", "toggle tiles / table"},
			{"s", "cycle sort key"},
			{"c / t / d", "table column sort (toggle direction)"},
			{"←/→, h/l", "previous / next page"},
			{"J", "jump to page"},
		},
	},
	{
		title: "Form",
		entries: []helpEntry{
			{"tab / shift+tab", "next / previous field"},
			{"ctrl+n", "add custom property row"},
			{"ctrl+d", "remove property or attachment row"},
			{"ctrl+s", "save"},
			{"esc", "cancel (or revert new category)"},
		},
	},
	{
		title: "General",
		entries: []helpEntry{
			{"T", "cycle color theme"},
			{"D", "diagnostics log"},
			{"L", "log out"},
			{"?", "this help"},
			{"q, ctrl+c", "quit"},
		},
	},
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.Title.Render("Keyboard reference") + "\n")
	for _, section := range helpSections {
		b.WriteString("\n  " + styles.Header.Render(section.title) + "\n")
		for _, e := range section.entries {
			b.WriteString("    " + styles.AccentText.Render(padRight(e.keys, 18)) +
				styles.MutedText.Render(e.desc) + "\n")
		}
	}
	b.WriteString("\n  " + styles.FaintText.Render("press any key to close") + "\n")
	return b.String()
}
