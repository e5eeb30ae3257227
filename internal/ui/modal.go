package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is a blocking overlay. Update returns the replacement modal, a
// command to run, and whether the modal should close.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme) string
}

// confirmModal asks a yes/no question before running its command.
type confirmModal struct {
	title string
	body  string
	onYes tea.Cmd
	yes   bool
}

func newConfirmModal(title, body string, onYes tea.Cmd) *confirmModal {
	return &confirmModal{title: title, body: body, onYes: onYes}
}

func (c *confirmModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return c, nil, true
	case key.Matches(msg, keys.Confirm):
		if c.yes {
			return c, c.onYes, true
		}
		return c, nil, true
	}
	switch msg.String() {
	case "left", "right", "h", "l", "tab":
		c.yes = !c.yes
	case "y", "Y":
		return c, c.onYes, true
	case "n", "N":
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme) string {
	styles := theme.Styles()
	yes := ternary(c.yes, styles.Selected, styles.MutedText).Render(" Yes ")
	no := ternary(!c.yes, styles.Selected, styles.MutedText).Render(" No ")

	content := styles.Title.Render(c.title) + "\n" +
		styles.MutedText.Render(c.body) + "\n\n" +
		yes + "  " + no
	return styles.CardFocus.Padding(1, 2).Render(content)
}

// jumpModal prompts for a page number.
type jumpModal struct {
	input      textinput.Model
	totalPages int
	onJump     func(page int) tea.Cmd
	errMsg     string
}

func newJumpModal(totalPages int, onJump func(page int) tea.Cmd) *jumpModal {
	in := textinput.New()
	in.Placeholder = fmt.Sprintf("1-%d", totalPages)
	in.Prompt = ""
	in.CharLimit = 6
	in.Width = 10
	in.Focus()
	return &jumpModal{input: in, totalPages: totalPages, onJump: onJump}
}

func (j *jumpModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return j, nil, true
	case key.Matches(msg, keys.Confirm):
		n, err := strconv.Atoi(strings.TrimSpace(j.input.Value()))
		if err != nil || n < 1 || n > j.totalPages {
			j.errMsg = fmt.Sprintf("Enter a page between 1 and %d", j.totalPages)
			return j, nil, false
		}
		// Pages are 1-based on screen, 0-based on the wire.
		return j, j.onJump(n - 1), true
	}
	var cmd tea.Cmd
	j.input, cmd = j.input.Update(msg)
	return j, cmd, false
}

func (j *jumpModal) View(theme Theme) string {
	styles := theme.Styles()
	content := styles.Title.Render("Go to page") + "\n\n" + j.input.View()
	if j.errMsg != "" {
		content += "\n" + styles.Danger.Render(j.errMsg)
	}
	return styles.CardFocus.Padding(1, 2).Render(content)
}

// overlayModal centers the active modal. Terminal cells have no real
// compositing, so the modal replaces the frame rather than floating
// over it.
func (m Model) overlayModal(_ string) string {
	modal := m.modal.View(m.theme)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
