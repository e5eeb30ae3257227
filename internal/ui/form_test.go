package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

func TestNewFormDefaultsDateToToday(t *testing.T) {
	f := newFormModel(nil, learning.DefaultCategories, 100)
	assert.Equal(t, learning.FormatDate(time.Now()), f.date.Value())
	assert.Zero(t, f.editingID)
}

func TestNewFormPrefillsFromEntry(t *testing.T) {
	d, _ := learning.ParseDate("2024-03-15")
	entry := learning.Learning{
		ID:          9,
		Title:       "Channels",
		Description: "<p>buffered vs unbuffered</p>",
		Category:    "Job",
		Date:        d,
		Tags:        "go,concurrency",
		Attachments: []learning.Attachment{{Filename: "a.png", URL: "http://host/a.png"}},
		CustomProperties: map[string]string{
			"source": "talk",
		},
	}
	f := newFormModel(&entry, learning.DefaultCategories, 100)

	assert.Equal(t, int64(9), f.editingID)
	assert.Equal(t, "Channels", f.title.Value())
	assert.Equal(t, "<p>buffered vs unbuffered</p>", f.desc.Value(),
		"description markup rides through untouched")
	assert.Equal(t, "2024-03-15", f.date.Value())
	assert.Equal(t, "go,concurrency", f.tags.Value())
	assert.Len(t, f.attachments, 1)
	require.Len(t, f.props, 1)
	assert.Equal(t, "source", f.props[0].key.Value())
	assert.Equal(t, "Job", f.category())
}

func TestNewFormUnknownCategoryGoesCustom(t *testing.T) {
	entry := learning.Learning{ID: 1, Title: "x", Category: "Gardening"}
	f := newFormModel(&entry, learning.DefaultCategories, 100)
	assert.True(t, f.customMode)
	assert.Equal(t, "Gardening", f.category())
}

func TestDraftValidation(t *testing.T) {
	f := newFormModel(nil, learning.DefaultCategories, 100)

	_, err := f.draft()
	require.Error(t, err, "title is required")

	f.title.SetValue("  Something  ")
	f.date.SetValue("not-a-date")
	_, err = f.draft()
	require.Error(t, err, "date must parse")

	f.date.SetValue("2024-06-01")
	draft, err := f.draft()
	require.NoError(t, err)
	assert.Equal(t, "Something", draft.Title, "title is trimmed")
	assert.Equal(t, "Job", draft.Category, "first pick list entry by default")
}

func TestDraftFoldsPropertyRows(t *testing.T) {
	f := newFormModel(nil, learning.DefaultCategories, 100)
	f.title.SetValue("x")
	f.date.SetValue("2024-06-01")
	f.props = []propRow{
		f.newPropRow(" source ", "book"),
		f.newPropRow("", "dropped"),
		f.newPropRow("source", "podcast"),
	}

	draft, err := f.draft()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"source": "podcast"}, draft.CustomProperties)
}

func TestPropRowIdsAreUnique(t *testing.T) {
	f := newFormModel(nil, learning.DefaultCategories, 100)
	a := f.newPropRow("", "")
	b := f.newPropRow("", "")
	assert.NotEqual(t, a.id, b.id)
}

func TestRemoveMiddleRowCursorFollowsNextRow(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)
	m.form.props = []propRow{
		m.form.newPropRow("a", "1"),
		m.form.newPropRow("b", "2"),
		m.form.newPropRow("c", "3"),
	}
	next := m.form.props[2].id
	require.True(t, m.form.focusRow(m.form.props[1].id, stopPropKey))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.Len(t, m.form.props, 2)
	cur := m.form.current()
	require.Equal(t, stopPropKey, cur.kind)
	assert.Equal(t, next, m.form.props[cur.index].id,
		"cursor lands on the row that followed the removed one")
	assert.Equal(t, "c", m.form.props[cur.index].key.Value())
}

func TestRemoveLastRowCursorFallsBackToPrevious(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)
	m.form.props = []propRow{
		m.form.newPropRow("a", "1"),
		m.form.newPropRow("b", "2"),
	}
	prev := m.form.props[0].id
	require.True(t, m.form.focusRow(m.form.props[1].id, stopPropValue))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.Len(t, m.form.props, 1)
	cur := m.form.current()
	require.Equal(t, stopPropKey, cur.kind)
	assert.Equal(t, prev, m.form.props[cur.index].id)
}

func TestAddPropCursorLandsOnNewRow(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)
	m.form.props = []propRow{m.form.newPropRow("existing", "x")}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Len(t, m.form.props, 2)
	cur := m.form.current()
	require.Equal(t, stopPropKey, cur.kind)
	assert.Equal(t, m.form.props[1].id, m.form.props[cur.index].id)
	assert.Empty(t, m.form.props[cur.index].key.Value())
}

func TestEscapeRevertsCustomCategory(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, []string{"Job", "Life"}, 100)
	m.form.customMode = true
	m.form.customCat.SetValue("Half-typed")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ViewForm, m.view, "first escape only reverts the category")
	assert.False(t, m.form.customMode)
	assert.Equal(t, "Job", m.form.category())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ViewList, m.view, "second escape cancels the form")
}

func TestSubmitInvalidDraftShowsError(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.form.errMsg)
	assert.False(t, m.form.submitting)
}

func TestSubmitValidDraftCreates(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)
	m.form.title.SetValue("Generics")
	m.form.date.SetValue("2024-06-01")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.form.submitting)
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(savedMsg)
	require.True(t, ok)
	assert.NoError(t, saved.err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Generics", repo.created[0].Title)
	assert.Empty(t, repo.updated)
}

func TestSubmitExistingEntryUpdates(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m.view = ViewForm
	entry := learning.Learning{ID: 5, Title: "Old", Category: "Job"}
	m.form = newFormModel(&entry, learning.DefaultCategories, 100)
	m.form.date.SetValue("2024-06-01")

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []int64{5}, repo.updated)
	assert.Empty(t, repo.created)
}

func TestAddAndRemovePropertyRows(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Len(t, m.form.props, 1)
	assert.Equal(t, stopPropKey, m.form.current().kind, "focus lands on the new key field")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Empty(t, m.form.props)
}

func TestUploadResultAppends(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)

	m, _ = press(t, m, uploadedMsg{
		target:      -1,
		attachments: []learning.Attachment{{Filename: "a.png", URL: "http://host/a.png"}},
	})
	require.Len(t, m.form.attachments, 1)
	assert.Equal(t, -1, m.form.attachTarget)
	assert.Empty(t, m.form.attach.Value())
}

func TestUploadResultReplacesTarget(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)
	m.form.attachments = []learning.Attachment{
		{Filename: "old.png", URL: "http://host/old.png"},
		{Filename: "keep.pdf", URL: "http://host/keep.pdf"},
	}

	m, _ = press(t, m, uploadedMsg{
		target:      0,
		attachments: []learning.Attachment{{Filename: "new.png", URL: "http://host/new.png"}},
	})
	require.Len(t, m.form.attachments, 2)
	assert.Equal(t, "new.png", m.form.attachments[0].Filename)
	assert.Equal(t, "keep.pdf", m.form.attachments[1].Filename)
}

func TestUploadFailureKeepsInput(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)
	m.form.attach.SetValue("/tmp/x.png")
	m.form.uploading = true

	m, _ = press(t, m, uploadedMsg{target: -1, err: assert.AnError})
	assert.False(t, m.form.uploading)
	assert.Equal(t, "/tmp/x.png", m.form.attach.Value(), "path stays for retry")
	assert.NotEmpty(t, m.form.errMsg)
}
