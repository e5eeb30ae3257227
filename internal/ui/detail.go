package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

// detailModel is the read-only view of a single entry.
type detailModel struct {
	entry learning.Learning
	vp    viewport.Model
	ready bool
}

func newDetailModel(entry learning.Learning, width, height int) detailModel {
	d := detailModel{entry: entry}
	d.resize(width, height)
	return d
}

func (d *detailModel) resize(width, height int) {
	h := height - 3
	if h < 3 {
		h = 3
	}
	if !d.ready {
		d.vp = viewport.New(width, h)
		d.ready = true
	} else {
		d.vp.Width = width
		d.vp.Height = h
	}
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.view = ViewList
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Edit):
		entry := m.detail.entry
		m.form = newFormModel(&entry, m.categories(), m.width)
		m.view = ViewForm
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.vp, cmd = m.detail.vp.Update(msg)
	return m, cmd
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	e := m.detail.entry

	catStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.CategoryColor(e.Category))).Bold(true)

	var b strings.Builder
	b.WriteString("  " + styles.Title.Render(e.Title) + "\n")
	b.WriteString("  " + catStyle.Render(e.Category) + styles.FaintText.Render("  ·  "+learning.FormatDate(e.Date)) + "\n\n")

	if e.Description != "" {
		b.WriteString(indent(styles.Text.Render(e.Description), 2) + "\n\n")
	}

	if e.Tags != "" {
		var chips []string
		for _, t := range learning.SplitTags(e.Tags) {
			chips = append(chips, styles.TagChip.Render(t))
		}
		b.WriteString("  " + strings.Join(chips, " ") + "\n\n")
	}

	if len(e.CustomProperties) > 0 {
		b.WriteString("  " + styles.FieldName.Render("Properties") + "\n")
		for _, row := range learning.PropertyRows(e.CustomProperties) {
			valStyle := styles.Text
			if learning.IsURL(row.Value) {
				valStyle = styles.Info.Underline(true)
			}
			b.WriteString(fmt.Sprintf("    %s %s\n",
				styles.MutedText.Render(padRight(row.Key, 20)),
				valStyle.Render(row.Value)))
		}
		b.WriteString("\n")
	}

	if len(e.Attachments) > 0 {
		b.WriteString("  " + styles.FieldName.Render("Attachments") + "\n")
		for _, a := range e.Attachments {
			icon := ternary(learning.IsImageFilename(a.Filename), "🖼 ", "📄 ")
			line := "    " + icon + styles.Text.Render(a.Filename)
			if learning.IsURL(a.URL) {
				line += "  " + styles.Info.Render(a.URL)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if e.ImageURL != "" && learning.IsURL(e.ImageURL) {
		b.WriteString("  " + styles.FieldName.Render("Image") + "  " + styles.Info.Render(e.ImageURL) + "\n")
	}

	d := m.detail
	d.vp.SetContent(b.String())
	return m.fillHeight(d.vp.View())
}
