package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohdsalimkhatib/Gravity/internal/api"
	"github.com/mohdsalimkhatib/Gravity/internal/config"
	"github.com/mohdsalimkhatib/Gravity/internal/learning"
	"github.com/mohdsalimkhatib/Gravity/internal/prefs"
	"github.com/mohdsalimkhatib/Gravity/internal/session"
	"github.com/mohdsalimkhatib/Gravity/internal/state"
)

// fakeRepo satisfies api.Repository and session.Authenticator, and
// records the calls the model issues.
type fakeRepo struct {
	page      api.Page
	listCalls []api.ListQuery
	deleted   []int64
	created   []learning.Learning
	updated   []int64
}

func (f *fakeRepo) ListLearnings(_ context.Context, q api.ListQuery) (api.Page, error) {
	f.listCalls = append(f.listCalls, q)
	return f.page, nil
}

func (f *fakeRepo) CreateLearning(_ context.Context, l learning.Learning) (learning.Learning, error) {
	f.created = append(f.created, l)
	l.ID = 1000
	return l, nil
}

func (f *fakeRepo) UpdateLearning(_ context.Context, id int64, l learning.Learning) (learning.Learning, error) {
	f.updated = append(f.updated, id)
	return l, nil
}

func (f *fakeRepo) DeleteLearning(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) UploadFile(_ context.Context, path string) (string, error) {
	return "http://host/files/" + filepath.Base(path), nil
}

func (f *fakeRepo) UploadFiles(_ context.Context, paths []string) ([]learning.Attachment, error) {
	var out []learning.Attachment
	for _, p := range paths {
		out = append(out, learning.Attachment{
			Filename: filepath.Base(p),
			URL:      "http://host/files/" + filepath.Base(p),
		})
	}
	return out, nil
}

func (f *fakeRepo) Login(context.Context, string, string, bool) (api.LoginResponse, error) {
	return api.LoginResponse{Token: "tok", Username: "sam"}, nil
}

func (f *fakeRepo) Register(context.Context, string, string, string) error { return nil }
func (f *fakeRepo) SetToken(string)                                        {}
func (f *fakeRepo) ClearToken()                                            {}

func entry(id int64, title, category, day string) learning.Learning {
	d, err := learning.ParseDate(day)
	if err != nil {
		panic(err)
	}
	return learning.Learning{ID: id, Title: title, Category: category, Date: d}
}

func newTestModel(t *testing.T, repo *fakeRepo) Model {
	t.Helper()
	sess := session.New(repo, filepath.Join(t.TempDir(), "session.toml"), nil)
	m := New(Options{
		Repo:      repo,
		Session:   sess,
		Store:     &state.Store{},
		Config:    config.Config{PageSize: 10, SearchDebounce: 5 * time.Millisecond},
		Prefs:     prefs.Prefs{Theme: "Dracula", ViewMode: "tiles"},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m.view = ViewList
	m.width, m.height, m.ready = 100, 30, true
	return m
}

func loadPage(m Model, entries ...learning.Learning) Model {
	m.snapshot = state.Snapshot{
		Page:    api.Page{Learnings: entries, TotalItems: int64(len(entries)), TotalPages: 1, PageSize: 10},
		HasPage: true,
	}
	return m
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok, "Update must return ui.Model")
	return next, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func titles(entries []learning.Learning) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestWorkingSetDefaultSort(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m = loadPage(m,
		entry(1, "old", "Job", "2023-01-01"),
		entry(2, "new", "Job", "2024-06-01"),
		entry(3, "mid", "Job", "2024-01-01"),
	)

	assert.Equal(t, []string{"new", "mid", "old"}, titles(m.workingSet()),
		"date sort is newest first")
}

func TestWorkingSetFiltersBySearchTerm(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m = loadPage(m,
		entry(1, "Goroutines", "Job", "2024-01-01"),
		entry(2, "Sourdough", "Life", "2024-01-02"),
	)
	m.searchInput.SetValue("gorout")

	assert.Equal(t, []string{"Goroutines"}, titles(m.workingSet()))
}

func TestReversedQuirk(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})

	// Date: ascending toggle reverses the newest-first default.
	m.sortKey = learning.SortByDate
	m.sortAsc = true
	assert.True(t, m.reversed())
	m.sortAsc = false
	assert.False(t, m.reversed())

	// Title and category: descending toggle reverses.
	m.sortKey = learning.SortByTitle
	m.sortAsc = true
	assert.False(t, m.reversed())
	m.sortAsc = false
	assert.True(t, m.reversed())
}

func TestWorkingSetReversalOnlyInTableMode(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m = loadPage(m,
		entry(1, "alpha", "Job", "2024-01-01"),
		entry(2, "beta", "Job", "2024-01-02"),
	)
	m.sortKey = learning.SortByTitle
	m.sortAsc = false // reversed for title

	m.viewMode = "tiles"
	assert.Equal(t, []string{"alpha", "beta"}, titles(m.workingSet()),
		"tiles never reverse")

	m.viewMode = "table"
	assert.Equal(t, []string{"beta", "alpha"}, titles(m.workingSet()))
}

func TestToggleColumn(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.sortKey = learning.SortByDate
	m.sortAsc = true

	m.toggleColumn(learning.SortByTitle)
	assert.Equal(t, learning.SortByTitle, m.sortKey)
	assert.True(t, m.sortAsc, "new column starts in natural order")

	m.toggleColumn(learning.SortByTitle)
	assert.False(t, m.sortAsc, "same column flips direction")

	m.toggleColumn(learning.SortByTitle)
	assert.True(t, m.sortAsc)
}

func TestSearchDebounceFetchesOncePerBurst(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m = loadPage(m)

	// Focus the search box, then type a burst of three keystrokes.
	m, _ = press(t, m, runes("/"))
	require.True(t, m.searching)

	m, _ = press(t, m, runes("g"))
	m, _ = press(t, m, runes("o"))
	m, cmd := press(t, m, runes("s"))
	require.NotNil(t, cmd)
	seqAfterBurst := m.searchSeq
	assert.Equal(t, 3, seqAfterBurst, "each keystroke bumps the sequence")

	// The two earlier timers arrive stale and must not fetch.
	var fetch tea.Cmd
	m, fetch = press(t, m, searchDebounceMsg{seq: 1})
	assert.Nil(t, fetch)
	m, fetch = press(t, m, searchDebounceMsg{seq: 2})
	assert.Nil(t, fetch)
	assert.Empty(t, repo.listCalls)

	// The trailing timer fetches exactly once, with the full term.
	m, fetch = press(t, m, searchDebounceMsg{seq: seqAfterBurst})
	require.NotNil(t, fetch)
	fetch()
	require.Len(t, repo.listCalls, 1)
	assert.Equal(t, "gos", repo.listCalls[0].Search)
	assert.Equal(t, 0, repo.listCalls[0].Page, "a new search starts at page zero")
}

func TestEscapeClearsSearchAndRefetches(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m = loadPage(m)
	m, _ = press(t, m, runes("/"))
	m, _ = press(t, m, runes("x"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.searching)
	assert.Empty(t, m.searchInput.Value())
	require.NotNil(t, cmd, "clearing the term refetches the unfiltered page")
	cmd()
	require.Len(t, repo.listCalls, 1)
	assert.Empty(t, repo.listCalls[0].Search)
}

func TestDeleteRefetchesCurrentPage(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m = loadPage(m, entry(7, "doomed", "Job", "2024-01-01"))
	m.page = 3
	m.searchInput.SetValue("doo")

	// x opens the confirmation modal.
	m, _ = press(t, m, runes("x"))
	require.NotNil(t, m.modal)

	// Confirm with y; the returned command performs the delete.
	m, cmd := press(t, m, runes("y"))
	assert.Nil(t, m.modal)
	require.NotNil(t, cmd)
	msg := cmd()
	deleted, ok := msg.(deletedMsg)
	require.True(t, ok)
	assert.Equal(t, []int64{7}, repo.deleted)

	// The deletion result triggers a refetch of the same page and term.
	m, cmd = press(t, m, deleted)
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, repo.listCalls, 1)
	assert.Equal(t, 3, repo.listCalls[0].Page)
	assert.Equal(t, "doo", repo.listCalls[0].Search)
}

func TestSaveResultReturnsToListAndRefetches(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m = loadPage(m)
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)

	m, cmd := press(t, m, savedMsg{err: nil})
	assert.Equal(t, ViewList, m.view)
	require.NotNil(t, cmd)
	cmd()
	assert.Len(t, repo.listCalls, 1)
}

func TestSaveFailureStaysInForm(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m.view = ViewForm
	m.form = newFormModel(nil, learning.DefaultCategories, 100)

	m, cmd := press(t, m, savedMsg{err: assert.AnError})
	assert.Equal(t, ViewForm, m.view, "the draft survives a failed save")
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.statusMsg)
}

func TestPageMsgClampsSelection(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m = loadPage(m,
		entry(1, "a", "Job", "2024-01-01"),
		entry(2, "b", "Job", "2024-01-02"),
		entry(3, "c", "Job", "2024-01-03"),
	)
	m.selected = 2

	snap := state.Snapshot{
		Page:    api.Page{Learnings: []learning.Learning{entry(1, "a", "Job", "2024-01-01")}},
		HasPage: true,
	}
	m, _ = press(t, m, pageMsg{snapshot: snap})
	assert.Equal(t, 0, m.selected)
}

func TestViewModeToggleSavesPrefs(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m = loadPage(m)

	m, _ = press(t, m, runes("v"))
	assert.Equal(t, "table", m.viewMode)
	saved := prefs.Load(m.prefsPath)
	assert.Equal(t, "table", saved.ViewMode)

	m, _ = press(t, m, runes("v"))
	assert.Equal(t, "tiles", m.viewMode)
}

func TestHeaderShowsFetchedSearchTerm(t *testing.T) {
	m := newTestModel(t, &fakeRepo{})
	m = loadPage(m, entry(1, "a", "Job", "2024-01-01"))

	m.snapshot.Search = "go"
	assert.Contains(t, m.renderHeader(), `for "go"`)

	m.snapshot.Search = ""
	assert.NotContains(t, m.renderHeader(), "for")
}

func TestPagingGuards(t *testing.T) {
	repo := &fakeRepo{}
	m := newTestModel(t, repo)
	m = loadPage(m, entry(1, "a", "Job", "2024-01-01"))
	m.snapshot.Page.HasNext = false
	m.snapshot.Page.HasPrevious = false

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd, "no fetch past the last page")
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "no fetch before the first page")
}
