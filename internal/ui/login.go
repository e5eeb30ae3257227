package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohdsalimkhatib/Gravity/internal/session"
)

type loginModel struct {
	username   textinput.Model
	password   textinput.Model
	rememberMe bool
	focus      int // 0 username, 1 password, 2 remember, 3 submit
	busy       bool
	errMsg     string
	infoMsg    string
}

type registerModel struct {
	username textinput.Model
	email    textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    int // fields then submit
	busy     bool
	errMsg   string
}

type loginResultMsg struct{ result session.Result }

type registerResultMsg struct{ result session.Result }

func newLoginModel() loginModel {
	l := loginModel{}
	l.username = newTextInput("username", 100)
	l.password = newTextInput("password", 200)
	l.password.EchoMode = textinput.EchoPassword
	l.username.Focus()
	return l
}

func newRegisterModel() registerModel {
	r := registerModel{}
	r.username = newTextInput("username", 100)
	r.email = newTextInput("email", 200)
	r.password = newTextInput("password", 200)
	r.password.EchoMode = textinput.EchoPassword
	r.confirm = newTextInput("repeat password", 200)
	r.confirm.EchoMode = textinput.EchoPassword
	r.username.Focus()
	return r
}

func (l *loginModel) focusField() {
	l.username.Blur()
	l.password.Blur()
	switch l.focus {
	case 0:
		l.username.Focus()
	case 1:
		l.password.Focus()
	}
}

func (r *registerModel) focusField() {
	inputs := []*textinput.Model{&r.username, &r.email, &r.password, &r.confirm}
	for i, in := range inputs {
		if i == r.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.login

	switch {
	case key.Matches(msg, m.keys.SwitchAuth):
		m.view = ViewRegister
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		l.focus = (l.focus + 1) % 4
		l.focusField()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		l.focus = (l.focus + 3) % 4
		l.focusField()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if l.focus == 2 {
			l.rememberMe = !l.rememberMe
			return m, nil
		}
		if l.busy {
			return m, nil
		}
		username := strings.TrimSpace(l.username.Value())
		password := l.password.Value()
		if username == "" || password == "" {
			l.errMsg = "Username and password are required"
			return m, nil
		}
		l.busy = true
		l.errMsg = ""
		return m, m.loginCmd(username, password, l.rememberMe)
	}

	if msg.String() == " " && l.focus == 2 {
		l.rememberMe = !l.rememberMe
		return m, nil
	}

	var cmd tea.Cmd
	switch l.focus {
	case 0:
		l.username, cmd = l.username.Update(msg)
	case 1:
		l.password, cmd = l.password.Update(msg)
	}
	return m, cmd
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := &m.register

	switch {
	case key.Matches(msg, m.keys.SwitchAuth), key.Matches(msg, m.keys.Escape):
		m.view = ViewLogin
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		r.focus = (r.focus + 1) % 5
		r.focusField()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		r.focus = (r.focus + 4) % 5
		r.focusField()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if r.busy {
			return m, nil
		}
		username := strings.TrimSpace(r.username.Value())
		email := strings.TrimSpace(r.email.Value())
		password := r.password.Value()
		switch {
		case username == "" || email == "" || password == "":
			r.errMsg = "All fields are required"
			return m, nil
		case !strings.Contains(email, "@"):
			r.errMsg = "That doesn't look like an email address"
			return m, nil
		case password != r.confirm.Value():
			r.errMsg = "Passwords don't match"
			return m, nil
		}
		r.busy = true
		r.errMsg = ""
		return m, m.registerCmd(username, email, password)
	}

	var cmd tea.Cmd
	switch r.focus {
	case 0:
		r.username, cmd = r.username.Update(msg)
	case 1:
		r.email, cmd = r.email.Update(msg)
	case 2:
		r.password, cmd = r.password.Update(msg)
	case 3:
		r.confirm, cmd = r.confirm.Update(msg)
	}
	return m, cmd
}

func (m Model) loginCmd(username, password string, rememberMe bool) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return loginResultMsg{result: sess.Login(ctx, username, password, rememberMe)}
	}
}

func (m Model) registerCmd(username, email, password string) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return registerResultMsg{result: sess.Register(ctx, username, email, password)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		sess.Logout()
		return loggedOutMsg{}
	}
}

type loggedOutMsg struct{}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if !msg.result.Success {
		m.login.errMsg = msg.result.Error
		return m, nil
	}
	m.login.password.SetValue("")
	m.login.errMsg = ""
	m.view = ViewList
	m.page = 0
	return m, m.fetchPageCmd(0, "")
}

func (m Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.register.busy = false
	if !msg.result.Success {
		m.register.errMsg = msg.result.Error
		return m, nil
	}
	// Registration does not log in; hand the new credentials to the
	// login form.
	m.login = newLoginModel()
	m.login.username.SetValue(m.register.username.Value())
	m.register = newRegisterModel()
	m.view = ViewLogin
	m.login.errMsg = ""
	m.statusMsg = ""
	m.login.infoMsg = "Account created. Log in to continue."
	return m, nil
}

// Rendering

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	l := m.login

	field := func(name string, view string, focused bool) string {
		s := styles.FieldName
		if focused {
			s = styles.AccentText
		}
		return "  " + s.Render(padRight(name, 10)) + view
	}

	var b strings.Builder
	b.WriteString("\n  " + styles.Logo.Render("GRAVITY") + "\n")
	b.WriteString("  " + styles.FaintText.Render("Document your journey.") + "\n\n")
	b.WriteString(field("Username", l.username.View(), l.focus == 0) + "\n")
	b.WriteString(field("Password", l.password.View(), l.focus == 1) + "\n")

	check := ternary(l.rememberMe, "[x]", "[ ]")
	remember := check + " Remember me"
	b.WriteString("  " + ternary(l.focus == 2, styles.AccentText, styles.MutedText).Render(remember) + "\n\n")

	b.WriteString("  " + ternary(l.focus == 3, styles.Selected, styles.MutedText).Render(" Log in ") + "\n")

	if l.busy {
		b.WriteString("\n  " + styles.Warning.Render("Signing in...") + "\n")
	}
	if l.errMsg != "" {
		b.WriteString("\n  " + styles.Danger.Render(l.errMsg) + "\n")
	}
	if l.infoMsg != "" {
		b.WriteString("\n  " + styles.Success.Render(l.infoMsg) + "\n")
	}
	b.WriteString("\n  " + styles.FaintText.Render("ctrl+r to create an account") + "\n")
	return m.fillHeight(b.String())
}

func (m Model) renderRegister() string {
	styles := m.theme.Styles()
	r := m.register

	field := func(name string, view string, focused bool) string {
		s := styles.FieldName
		if focused {
			s = styles.AccentText
		}
		return "  " + s.Render(padRight(name, 10)) + view
	}

	var b strings.Builder
	b.WriteString("\n  " + styles.Title.Render("Create account") + "\n\n")
	b.WriteString(field("Username", r.username.View(), r.focus == 0) + "\n")
	b.WriteString(field("Email", r.email.View(), r.focus == 1) + "\n")
	b.WriteString(field("Password", r.password.View(), r.focus == 2) + "\n")
	b.WriteString(field("Repeat", r.confirm.View(), r.focus == 3) + "\n\n")
	b.WriteString("  " + ternary(r.focus == 4, styles.Selected, styles.MutedText).Render(" Register ") + "\n")

	if r.busy {
		b.WriteString("\n  " + styles.Warning.Render("Creating account...") + "\n")
	}
	if r.errMsg != "" {
		b.WriteString("\n  " + styles.Danger.Render(r.errMsg) + "\n")
	}
	b.WriteString("\n  " + styles.FaintText.Render("ctrl+r to go back to login") + "\n")
	return m.fillHeight(b.String())
}
