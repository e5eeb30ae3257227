// Package ui implements the Bubble Tea terminal interface: the login
// and registration screens, the paginated learning list in tile and
// table form, the add/edit form, the read-only detail view, and the
// diagnostics log tail. The root Model owns the active view and routes
// messages to the sub-views.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mohdsalimkhatib/Gravity/internal/api"
	"github.com/mohdsalimkhatib/Gravity/internal/config"
	"github.com/mohdsalimkhatib/Gravity/internal/learning"
	"github.com/mohdsalimkhatib/Gravity/internal/logtail"
	"github.com/mohdsalimkhatib/Gravity/internal/prefs"
	"github.com/mohdsalimkhatib/Gravity/internal/session"
	"github.com/mohdsalimkhatib/Gravity/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewList
	ViewForm
	ViewDetail
	ViewDiagnostics
)

const diagTailLines = 400

// Options configures the UI.
type Options struct {
	Context   context.Context
	Repo      api.Repository
	Session   *session.Store
	Store     *state.Store
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
}

// Model is the root application state: it owns the active view, the
// loaded page, the search and sort state, and wires the sub-views
// together.
type Model struct {
	ctx       context.Context
	repo      api.Repository
	session   *session.Store
	store     *state.Store
	log       *zap.Logger
	cfg       config.Config
	prefsPath string

	keys  keyMap
	theme Theme

	width  int
	height int
	ready  bool

	view     View
	snapshot state.Snapshot

	// List state.
	selected    int
	viewMode    string // "tiles" or "table"
	sortKey     learning.SortKey
	sortAsc     bool // table direction toggle; applied as a reversal
	page        int
	searchInput textinput.Model
	searching   bool
	searchSeq   int

	// Sub-views.
	login    loginModel
	register registerModel
	form     formModel
	detail   detailModel

	// Overlays.
	modal    Modal
	showHelp bool

	// Diagnostics view.
	diagLines []string

	statusMsg string
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	search := textinput.New()
	search.Placeholder = "Search learnings..."
	search.Prompt = "/ "
	search.CharLimit = 120

	view := ViewLogin
	if opts.Session != nil && opts.Session.IsAuthenticated() {
		view = ViewList
	}

	return Model{
		ctx:         ctx,
		repo:        opts.Repo,
		session:     opts.Session,
		store:       opts.Store,
		log:         log,
		cfg:         opts.Config,
		prefsPath:   opts.PrefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		view:        view,
		viewMode:    opts.Prefs.ViewMode,
		sortKey:     learning.SortByDate,
		searchInput: search,
		login:       newLoginModel(),
		register:    newRegisterModel(),
	}
}

// Init implements tea.Model. An authenticated session fetches its first
// page immediately, before any debounce applies.
func (m Model) Init() tea.Cmd {
	if m.view == ViewList {
		return m.fetchPageCmd(0, "")
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.detail.ready {
			m.detail.resize(msg.Width, msg.Height)
		}
		if m.view == ViewForm {
			m.form.resize(msg.Width)
		}
		return m, nil

	case pageMsg:
		m.snapshot = msg.snapshot
		if m.snapshot.HasPage {
			m.page = m.snapshot.Page.CurrentPage
		}
		m.clampSelection()
		return m, nil

	case searchDebounceMsg:
		// Only the trailing timer after the last keystroke fetches.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.page = 0
		return m, m.fetchPageCmd(0, m.searchInput.Value())

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case savedMsg:
		m.form.submitting = false
		if msg.err != nil {
			m.statusMsg = "Save failed — details in the diagnostics log"
			return m, nil
		}
		m.view = ViewList
		m.statusMsg = ""
		return m, m.refetchCmd()

	case deletedMsg:
		if msg.err != nil {
			m.statusMsg = "Delete failed — details in the diagnostics log"
			return m, nil
		}
		m.statusMsg = ""
		return m, m.refetchCmd()

	case uploadedMsg:
		return m.handleUploaded(msg)

	case loggedOutMsg:
		m.view = ViewLogin
		m.login = newLoginModel()
		m.snapshot = state.Snapshot{}
		m.searchInput.SetValue("")
		m.page = 0
		m.selected = 0
		m.statusMsg = ""
		return m, nil

	case diagMsg:
		m.diagLines = msg.lines
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	var content string
	switch m.view {
	case ViewLogin:
		content = m.renderLogin()
	case ViewRegister:
		content = m.renderRegister()
	case ViewList:
		content = m.renderList()
	case ViewForm:
		content = m.renderForm()
	case ViewDetail:
		content = m.renderDetail()
	case ViewDiagnostics:
		content = m.renderDiagnostics()
	}
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	out := b.String()
	if m.modal != nil {
		return m.overlayModal(out)
	}
	return out
}

// handleKey dispatches keyboard input to the modal, then to the active
// view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal != nil {
		updated, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = updated
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRegister:
		return m.handleRegisterKey(msg)
	case ViewList:
		return m.handleListKey(msg)
	case ViewForm:
		return m.handleFormKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewDiagnostics:
		return m.handleDiagnosticsKey(msg)
	}
	return m, nil
}

// openDiagnostics switches to the log tail view.
func (m Model) openDiagnostics() (tea.Model, tea.Cmd) {
	m.view = ViewDiagnostics
	logPath := m.cfg.LogPath
	log := m.log
	return m, func() tea.Msg {
		lines, err := logtail.Read(logPath, diagTailLines)
		if err != nil {
			log.Warn("read diagnostics log", zap.Error(err))
		}
		return diagMsg{lines: lines}
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.savePrefs()
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, ViewMode: m.viewMode}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs", zap.Error(err))
	}
}

// Messages

type pageMsg struct{ snapshot state.Snapshot }

type searchDebounceMsg struct{ seq int }

type savedMsg struct{ err error }

type deletedMsg struct {
	id  int64
	err error
}

type diagMsg struct{ lines []string }

// Commands

// fetchPageCmd loads one page into the store and delivers a fresh
// snapshot. In-flight fetches are never cancelled; a stale response
// still lands, which is why search results are sequence-stamped
// upstream of this call.
func (m Model) fetchPageCmd(page int, search string) tea.Cmd {
	repo, store, log := m.repo, m.store, m.log
	size := m.cfg.PageSize
	ctx := m.ctx
	return func() tea.Msg {
		p, err := repo.ListLearnings(ctx, api.ListQuery{Page: page, Size: size, Search: search})
		if err != nil {
			log.Error("list learnings", zap.Int("page", page), zap.Error(err))
			store.Update(nil, search, err)
		} else {
			store.Update(&p, search, nil)
		}
		return pageMsg{snapshot: store.Snapshot()}
	}
}

// refetchCmd reloads the current page with the current search term so
// the visible list reflects server state after every mutation.
func (m Model) refetchCmd() tea.Cmd {
	return m.fetchPageCmd(m.page, m.searchInput.Value())
}

// debounceCmd schedules the trailing search fetch. Each keystroke bumps
// the sequence, so earlier timers arrive stale and are ignored.
func (m Model) debounceCmd(seq int) tea.Cmd {
	wait := m.cfg.SearchDebounce
	if wait <= 0 {
		wait = 300 * time.Millisecond
	}
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func (m Model) saveCmd(draft learning.Learning, editingID int64) tea.Cmd {
	repo, log, ctx := m.repo, m.log, m.ctx
	return func() tea.Msg {
		var err error
		if editingID > 0 {
			_, err = repo.UpdateLearning(ctx, editingID, draft)
		} else {
			_, err = repo.CreateLearning(ctx, draft)
		}
		if err != nil {
			log.Error("save learning", zap.Int64("id", editingID), zap.Error(err))
		}
		return savedMsg{err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	repo, log, ctx := m.repo, m.log, m.ctx
	return func() tea.Msg {
		err := repo.DeleteLearning(ctx, id)
		if err != nil {
			log.Error("delete learning", zap.Int64("id", id), zap.Error(err))
		}
		return deletedMsg{id: id, err: err}
	}
}

// Header and command bar

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	left := styles.Logo.Render("GRAVITY") + styles.FaintText.Render("  Document your journey.")

	var parts []string
	if user := m.session.User(); user != nil {
		parts = append(parts, styles.MutedText.Render(user.Username))
	}
	if m.snapshot.HasPage {
		page := m.snapshot.Page
		info := fmt.Sprintf("page %d/%d · %d entries", page.CurrentPage+1, max(page.TotalPages, 1), page.TotalItems)
		// Label the page with the term it was actually fetched for,
		// which can trail the search box while a debounce is pending.
		if term := m.snapshot.Search; term != "" {
			info += fmt.Sprintf(" for %q", term)
		}
		parts = append(parts, styles.MutedText.Render(info))
	}
	if m.snapshot.IsOffline() {
		parts = append(parts, styles.Danger.Render("OFFLINE"))
	}
	if m.statusMsg != "" {
		parts = append(parts, styles.Warning.Render(m.statusMsg))
	}
	right := strings.Join(parts, styles.FaintText.Render("  •  "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	hint := func(b string, desc string) string {
		return styles.AccentText.Render("<"+b+">") + " " + styles.MutedText.Render(desc)
	}

	var hints []string
	switch m.view {
	case ViewLogin:
		hints = []string{hint("tab", "next"), hint("enter", "log in"), hint("ctrl+r", "register"), hint("ctrl+c", "quit")}
	case ViewRegister:
		hints = []string{hint("tab", "next"), hint("enter", "register"), hint("ctrl+r", "log in"), hint("ctrl+c", "quit")}
	case ViewList:
		hints = []string{
			hint("a", "add"), hint("enter", "view"), hint("e", "edit"), hint("x", "delete"),
			hint("/", "search"), hint("v", ternary(m.viewMode == "tiles", "table", "tiles")),
			hint("s", "sort:"+string(m.sortKey)),
		}
		if m.viewMode == "table" {
			hints = append(hints, hint("c/t/d", "columns"))
		}
		hints = append(hints, hint("←/→", "page"), hint("?", "help"))
	case ViewForm:
		hints = []string{
			hint("tab", "next field"), hint("ctrl+n", "+property"), hint("ctrl+d", "remove row"),
			hint("ctrl+s", "save"), hint("esc", "cancel"),
		}
	case ViewDetail:
		hints = []string{hint("e", "edit"), hint("j/k", "scroll"), hint("esc", "close")}
	case ViewDiagnostics:
		hints = []string{hint("esc", "back")}
	}
	return styles.Footer.Width(m.width).Render(strings.Join(hints, "  "))
}

func (m Model) contentHeight() int {
	// Header and command bar each take one line.
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// Run starts the Bubble Tea program and blocks until the user quits or
// the context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if opts.Context != nil {
		go func() {
			<-opts.Context.Done()
			p.Quit()
		}()
	}
	_, err := p.Run()
	return err
}
