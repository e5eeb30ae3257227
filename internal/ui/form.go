package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

// newCategoryOption is the picklist entry that switches the category
// field to free-text entry.
const newCategoryOption = "+ New..."

type stopKind int

const (
	stopTitle stopKind = iota
	stopCategory
	stopDate
	stopDesc
	stopTags
	stopPropKey
	stopPropValue
	stopAttachInput
	stopAttachRow
	stopSave
	stopCancel
)

// stop is one position in the form's focus order. index addresses the
// row for the repeated kinds.
type stop struct {
	kind  stopKind
	index int
}

// propRow is one editable key/value pair. The id identifies the row
// across insertions and removals so the cursor can follow a specific
// row rather than whatever index it happens to occupy.
type propRow struct {
	id    uuid.UUID
	key   textinput.Model
	value textinput.Model
}

// formModel is the add/edit form. The description field holds the
// stored markup verbatim; the form never interprets it.
type formModel struct {
	editingID int64

	title        textinput.Model
	categories   []string
	catIndex     int
	customCat    textinput.Model
	customMode   bool
	date         textinput.Model
	desc         textarea.Model
	tags         textinput.Model
	props        []propRow
	attach       textinput.Model
	attachments  []learning.Attachment
	attachTarget int // -1 appends, otherwise replaces that row

	focus      int
	errMsg     string
	submitting bool
	uploading  bool
	width      int
}

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

func newFormModel(entry *learning.Learning, categories []string, width int) formModel {
	f := formModel{
		categories:   categories,
		attachTarget: -1,
		width:        width,
	}

	f.title = newTextInput("What did you learn?", 200)
	f.customCat = newTextInput("New category", 60)
	f.date = newTextInput(learning.DateLayout, 10)
	f.tags = newTextInput("comma, separated, tags", 200)
	f.attach = newTextInput("path/to/file (comma-separate for several)", 400)

	f.desc = textarea.New()
	f.desc.Placeholder = "Describe it..."
	f.desc.CharLimit = 0
	f.desc.SetHeight(6)

	if entry != nil {
		f.editingID = entry.ID
		f.title.SetValue(entry.Title)
		f.date.SetValue(learning.FormatDate(entry.Date))
		f.desc.SetValue(entry.Description)
		f.tags.SetValue(entry.Tags)
		f.attachments = append([]learning.Attachment(nil), entry.Attachments...)
		for _, row := range learning.PropertyRows(entry.CustomProperties) {
			f.props = append(f.props, f.newPropRow(row.Key, row.Value))
		}
		f.catIndex = 0
		for i, c := range categories {
			if c == entry.Category {
				f.catIndex = i
				break
			}
		}
		if entry.Category != "" && !contains(categories, entry.Category) {
			f.customMode = true
			f.customCat.SetValue(entry.Category)
		}
	} else {
		f.date.SetValue(learning.FormatDate(time.Now()))
	}

	f.resize(width)
	f.focusStop()
	return f
}

func (f *formModel) newPropRow(k, v string) propRow {
	row := propRow{
		id:    uuid.New(),
		key:   newTextInput("key", 100),
		value: newTextInput("value", 400),
	}
	row.key.SetValue(k)
	row.value.SetValue(v)
	return row
}

func (f *formModel) resize(width int) {
	f.width = width
	w := width - 16
	if w < 24 {
		w = 24
	}
	f.title.Width = w
	f.customCat.Width = w
	f.tags.Width = w
	f.attach.Width = w
	f.desc.SetWidth(w)
}

// stops returns the focus order for the form's current shape.
func (f *formModel) stops() []stop {
	s := []stop{
		{kind: stopTitle},
		{kind: stopCategory},
		{kind: stopDate},
		{kind: stopDesc},
		{kind: stopTags},
	}
	for i := range f.props {
		s = append(s, stop{kind: stopPropKey, index: i}, stop{kind: stopPropValue, index: i})
	}
	s = append(s, stop{kind: stopAttachInput})
	for i := range f.attachments {
		s = append(s, stop{kind: stopAttachRow, index: i})
	}
	s = append(s, stop{kind: stopSave}, stop{kind: stopCancel})
	return s
}

func (f *formModel) current() stop {
	s := f.stops()
	if f.focus >= len(s) {
		f.focus = len(s) - 1
	}
	if f.focus < 0 {
		f.focus = 0
	}
	return s[f.focus]
}

func (f *formModel) move(delta int) {
	n := len(f.stops())
	f.focus = ((f.focus+delta)%n + n) % n
	f.focusStop()
}

// focusStop blurs every input and focuses the one under the cursor.
func (f *formModel) focusStop() {
	f.title.Blur()
	f.customCat.Blur()
	f.date.Blur()
	f.desc.Blur()
	f.tags.Blur()
	f.attach.Blur()
	for i := range f.props {
		f.props[i].key.Blur()
		f.props[i].value.Blur()
	}

	switch cur := f.current(); cur.kind {
	case stopTitle:
		f.title.Focus()
	case stopCategory:
		if f.customMode {
			f.customCat.Focus()
		}
	case stopDate:
		f.date.Focus()
	case stopDesc:
		f.desc.Focus()
	case stopTags:
		f.tags.Focus()
	case stopPropKey:
		f.props[cur.index].key.Focus()
	case stopPropValue:
		f.props[cur.index].value.Focus()
	case stopAttachInput:
		f.attach.Focus()
	}
}

// focusRow places the cursor on the given field of the row with the
// given id. Reports whether the row still exists.
func (f *formModel) focusRow(id uuid.UUID, kind stopKind) bool {
	for i, s := range f.stops() {
		if s.kind != kind {
			continue
		}
		if f.props[s.index].id == id {
			f.focus = i
			f.focusStop()
			return true
		}
	}
	return false
}

// category returns the effective category value.
func (f *formModel) category() string {
	if f.customMode {
		return strings.TrimSpace(f.customCat.Value())
	}
	if len(f.categories) == 0 {
		return ""
	}
	return f.categories[f.catIndex]
}

// draft validates the form and builds the entry to send.
func (f *formModel) draft() (learning.Learning, error) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return learning.Learning{}, fmt.Errorf("title is required")
	}
	date, err := learning.ParseDate(strings.TrimSpace(f.date.Value()))
	if err != nil {
		return learning.Learning{}, fmt.Errorf("date must be %s", learning.DateLayout)
	}
	category := f.category()
	if category == "" {
		return learning.Learning{}, fmt.Errorf("category is required")
	}

	var rows []learning.PropertyRow
	for _, row := range f.props {
		rows = append(rows, learning.PropertyRow{Key: row.key.Value(), Value: row.value.Value()})
	}

	return learning.Learning{
		ID:               f.editingID,
		Title:            title,
		Description:      f.desc.Value(),
		Category:         category,
		Date:             date,
		Tags:             strings.TrimSpace(f.tags.Value()),
		Attachments:      append([]learning.Attachment(nil), f.attachments...),
		CustomProperties: learning.FoldProperties(rows),
	}, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.form

	switch {
	case key.Matches(msg, m.keys.Escape):
		if f.customMode {
			// Revert the free-text category back to the pick list.
			f.customMode = false
			f.customCat.SetValue("")
			f.catIndex = 0
			f.focusStop()
			return m, nil
		}
		m.view = ViewList
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if f.submitting {
			return m, nil
		}
		draft, err := f.draft()
		if err != nil {
			f.errMsg = err.Error()
			return m, nil
		}
		f.errMsg = ""
		f.submitting = true
		return m, m.saveCmd(draft, f.editingID)

	case key.Matches(msg, m.keys.NextField):
		f.move(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		f.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.AddProp):
		row := f.newPropRow("", "")
		f.props = append(f.props, row)
		f.focusRow(row.id, stopPropKey)
		return m, nil

	case key.Matches(msg, m.keys.RemoveRow):
		switch cur := f.current(); cur.kind {
		case stopPropKey, stopPropValue:
			// Hand the cursor to the row after the removed one, or the
			// one before when removing the last row.
			follow := uuid.Nil
			if cur.index+1 < len(f.props) {
				follow = f.props[cur.index+1].id
			} else if cur.index > 0 {
				follow = f.props[cur.index-1].id
			}
			f.props = append(f.props[:cur.index], f.props[cur.index+1:]...)
			if follow == uuid.Nil || !f.focusRow(follow, stopPropKey) {
				f.focusStop()
			}
		case stopAttachRow:
			f.attachments = append(f.attachments[:cur.index], f.attachments[cur.index+1:]...)
			if f.attachTarget == cur.index {
				f.attachTarget = -1
			}
			f.focusStop()
		}
		return m, nil
	}

	cur := f.current()

	if cur.kind == stopCategory && !f.customMode {
		switch msg.String() {
		case "left", "up", "k", "h":
			f.catIndex--
			if f.catIndex < 0 {
				f.catIndex = len(f.categories) // wraps to "+ New..."
			}
			return m, nil
		case "right", "down", "j", "l", " ":
			f.catIndex++
			if f.catIndex > len(f.categories) {
				f.catIndex = 0
			}
			return m, nil
		case "enter":
			if f.catIndex == len(f.categories) {
				f.customMode = true
				f.focusStop()
			}
			return m, nil
		}
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		switch cur.kind {
		case stopSave:
			draft, err := f.draft()
			if err != nil {
				f.errMsg = err.Error()
				return m, nil
			}
			f.errMsg = ""
			f.submitting = true
			return m, m.saveCmd(draft, f.editingID)
		case stopCancel:
			m.view = ViewList
			return m, nil
		case stopAttachInput:
			return m.startUpload()
		case stopAttachRow:
			// Replace this attachment: the next upload lands here.
			f.attachTarget = cur.index
			for i, s := range f.stops() {
				if s.kind == stopAttachInput {
					f.focus = i
					break
				}
			}
			f.focusStop()
			return m, nil
		}
	}

	// Everything else goes to the focused input.
	var cmd tea.Cmd
	switch cur.kind {
	case stopTitle:
		f.title, cmd = f.title.Update(msg)
	case stopCategory:
		f.customCat, cmd = f.customCat.Update(msg)
	case stopDate:
		f.date, cmd = f.date.Update(msg)
	case stopDesc:
		f.desc, cmd = f.desc.Update(msg)
	case stopTags:
		f.tags, cmd = f.tags.Update(msg)
	case stopPropKey:
		f.props[cur.index].key, cmd = f.props[cur.index].key.Update(msg)
	case stopPropValue:
		f.props[cur.index].value, cmd = f.props[cur.index].value.Update(msg)
	case stopAttachInput:
		f.attach, cmd = f.attach.Update(msg)
	}
	return m, cmd
}

// startUpload sends the paths in the attach input to the server. A
// replace target takes a single file; otherwise every listed file is
// uploaded and appended.
func (m Model) startUpload() (tea.Model, tea.Cmd) {
	f := &m.form
	raw := strings.TrimSpace(f.attach.Value())
	if raw == "" || f.uploading {
		return m, nil
	}
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return m, nil
	}
	if f.attachTarget >= 0 {
		paths = paths[:1]
	}
	f.uploading = true
	f.errMsg = ""
	return m, m.uploadCmd(paths, f.attachTarget)
}

type uploadedMsg struct {
	target      int
	attachments []learning.Attachment
	err         error
}

func (m Model) uploadCmd(paths []string, target int) tea.Cmd {
	repo, log, ctx := m.repo, m.log, m.ctx
	return func() tea.Msg {
		if target >= 0 {
			url, err := repo.UploadFile(ctx, paths[0])
			if err != nil {
				log.Error("upload file", zap.String("path", paths[0]), zap.Error(err))
				return uploadedMsg{target: target, err: err}
			}
			att := learning.Attachment{Filename: filepath.Base(paths[0]), URL: url}
			return uploadedMsg{target: target, attachments: []learning.Attachment{att}}
		}
		atts, err := repo.UploadFiles(ctx, paths)
		if err != nil {
			log.Error("upload files", zap.Int("count", len(paths)), zap.Error(err))
			return uploadedMsg{target: -1, err: err}
		}
		return uploadedMsg{target: -1, attachments: atts}
	}
}

func (m Model) handleUploaded(msg uploadedMsg) (tea.Model, tea.Cmd) {
	f := &m.form
	f.uploading = false
	if msg.err != nil {
		f.errMsg = "Upload failed — details in the diagnostics log"
		return m, nil
	}
	if msg.target >= 0 && msg.target < len(f.attachments) && len(msg.attachments) > 0 {
		f.attachments[msg.target] = msg.attachments[0]
	} else {
		f.attachments = append(f.attachments, msg.attachments...)
	}
	f.attach.SetValue("")
	f.attachTarget = -1
	return m, nil
}

// Rendering

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form
	cur := f.current()

	label := func(name string, focused bool) string {
		s := styles.FieldName
		if focused {
			s = styles.AccentText
		}
		return s.Render(padRight(name, 12))
	}

	var b strings.Builder
	heading := "Add Learning"
	if f.editingID > 0 {
		heading = "Edit Learning"
	}
	b.WriteString("  " + styles.Title.Render(heading) + "\n\n")

	b.WriteString("  " + label("Title", cur.kind == stopTitle) + f.title.View() + "\n")

	b.WriteString("  " + label("Category", cur.kind == stopCategory))
	if f.customMode {
		b.WriteString(f.customCat.View() + styles.FaintText.Render("  (esc reverts)"))
	} else {
		var opts []string
		for i, c := range f.categories {
			if i == f.catIndex {
				opts = append(opts, styles.Selected.Render(" "+c+" "))
			} else {
				opts = append(opts, styles.MutedText.Render(c))
			}
		}
		if f.catIndex == len(f.categories) {
			opts = append(opts, styles.Selected.Render(" "+newCategoryOption+" "))
		} else {
			opts = append(opts, styles.MutedText.Render(newCategoryOption))
		}
		b.WriteString(strings.Join(opts, "  "))
	}
	b.WriteString("\n")

	b.WriteString("  " + label("Date", cur.kind == stopDate) + f.date.View() + "\n")
	b.WriteString("  " + label("Description", cur.kind == stopDesc) + "\n")
	b.WriteString(indent(f.desc.View(), 4) + "\n")
	b.WriteString("  " + label("Tags", cur.kind == stopTags) + f.tags.View() + "\n")

	if len(f.props) > 0 {
		b.WriteString("\n  " + styles.FieldName.Render("Properties") + "\n")
		for i, row := range f.props {
			keyFocused := cur.kind == stopPropKey && cur.index == i
			valFocused := cur.kind == stopPropValue && cur.index == i
			b.WriteString(fmt.Sprintf("    %s = %s",
				ternary(keyFocused, styles.AccentText, styles.Text).Render(row.key.View()),
				ternary(valFocused, styles.AccentText, styles.Text).Render(row.value.View())))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  " + label("Attach", cur.kind == stopAttachInput) + f.attach.View())
	if f.uploading {
		b.WriteString(styles.Warning.Render("  uploading..."))
	}
	b.WriteString("\n")
	for i, a := range f.attachments {
		line := "    " + ternary(learning.IsImageFilename(a.Filename), "🖼 ", "📄 ") + a.Filename
		if f.attachTarget == i {
			line += "  (replacing)"
		}
		if cur.kind == stopAttachRow && cur.index == i {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.MutedText.Render(line))
		}
		b.WriteString("\n")
	}

	save := ternary(cur.kind == stopSave, styles.Selected, styles.MutedText).Render(" Save ")
	cancel := ternary(cur.kind == stopCancel, styles.Selected, styles.MutedText).Render(" Cancel ")
	b.WriteString("\n  " + save + "  " + cancel + "\n")

	if f.errMsg != "" {
		b.WriteString("\n  " + styles.Danger.Render(f.errMsg) + "\n")
	}
	if f.submitting {
		b.WriteString("\n  " + styles.Warning.Render("Saving...") + "\n")
	}

	return m.fillHeight(b.String())
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
