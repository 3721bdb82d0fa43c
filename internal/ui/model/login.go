package model

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/auth"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/ui/form"
)

const (
	loginWidth   = 48
	rolePickerID = "role"
)

type (
	// signedInMsg is the outcome of a sign in, or of restoring a stored
	// token when restored is set.
	signedInMsg struct {
		fetchStatus
		token    string
		profile  api.Profile
		restored bool
	}
	// noStoredTokenMsg ends the startup check when no usable token is kept.
	noStoredTokenMsg struct{}
)

// loginModel is the sign in screen.
type loginModel struct {
	com     *common.Common
	keyMap  *KeyMap
	form    *form.Form
	busy    bool
	message string
}

func newLoginModel(com *common.Common, km *KeyMap) *loginModel {
	f := form.New(com.Styles, loginSchema,
		form.Text("email", "Email", "you@example.com"),
		form.Password("password", "Password"),
	)
	if com.Config != nil && com.Config.Options.LastEmail != "" {
		f.SetValues(form.Values{"email": com.Config.Options.LastEmail})
	}
	return &loginModel{com: com, keyMap: km, form: f}
}

func (l *loginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if l.busy {
			return nil
		}
		if key.Matches(msg, l.keyMap.Login.Submit) {
			values, ok := l.form.Validate()
			if !ok {
				return nil
			}
			l.busy = true
			l.message = ""
			return signIn(l.com, strings.TrimSpace(values["email"]), values["password"])
		}
		return l.form.Update(msg)
	case tea.PasteMsg:
		return l.form.Update(msg)
	}
	return nil
}

// Fail shows a sign in error and allows another attempt.
func (l *loginModel) Fail(message string) {
	l.busy = false
	l.message = message
}

// Reset clears the password and any message.
func (l *loginModel) Reset() {
	email := l.form.Values()["email"]
	l.form.Reset()
	l.form.SetValues(form.Values{"email": email})
	l.busy = false
	l.message = ""
}

func (l *loginModel) View() string {
	t := l.com.Styles
	width := loginWidth - t.Login.View.GetHorizontalFrameSize()

	parts := []string{
		t.Login.Title.Render("Sign in to " + brand),
		t.Login.Subtitle.Render("Property management dashboard"),
		"",
		l.form.View(width),
	}
	if l.message != "" {
		parts = append(parts, "", t.Form.Error.Width(width).Render(l.message))
	}
	label := "Sign in"
	if l.busy {
		label = "Signing in..."
	}
	parts = append(parts, "", dialog.RenderButtons(t, dialog.Button{Label: label, Focused: !l.busy, Disabled: l.busy, Underline: -1}))
	return t.Login.View.Width(loginWidth).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (l *loginModel) ShortHelp() []key.Binding {
	return append(l.form.ShortHelp(), l.keyMap.Login.Submit)
}

func (l *loginModel) FullHelp() [][]key.Binding {
	return append(l.form.FullHelp(), []key.Binding{l.keyMap.Login.Submit})
}

func requestTimeout(com *common.Common) time.Duration {
	if com.Config == nil {
		return 30 * time.Second
	}
	return 2 * com.Config.Timeout()
}

// signIn exchanges the credentials for a token and loads the profile with
// it. The session is only changed once the result reaches the UI.
func signIn(com *common.Common, email, password string) tea.Cmd {
	client := com.Client
	timeout := requestTimeout(com)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := client.Login(ctx, email, password)
		if err != nil {
			return signedInMsg{fetchStatus: statusOf(err)}
		}
		profile, err := client.WithToken(res.Token).Profile(ctx)
		if err != nil {
			return signedInMsg{fetchStatus: statusOf(err)}
		}
		return signedInMsg{token: res.Token, profile: profile}
	}
}

// restoreSession signs in with a stored, unexpired token.
func restoreSession(com *common.Common) tea.Cmd {
	client, store := com.Client, com.Tokens
	timeout := requestTimeout(com)
	return func() tea.Msg {
		if store == nil {
			return noStoredTokenMsg{}
		}
		token, err := store.Load()
		if err != nil {
			if !errors.Is(err, auth.ErrNotFound) {
				slog.Warn("Failed to load stored token", "error", err)
			}
			return noStoredTokenMsg{}
		}
		if auth.Expired(token, time.Now(), time.Minute) {
			slog.Info("Stored token expired")
			if err := store.Clear(); err != nil {
				slog.Warn("Failed to clear expired token", "error", err)
			}
			return noStoredTokenMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		profile, err := client.WithToken(token).Profile(ctx)
		if err != nil {
			slog.Warn("Failed to restore session", "error", err)
			return noStoredTokenMsg{}
		}
		return signedInMsg{token: token, profile: profile, restored: true}
	}
}

// newRolePicker lists the roles of the signed in user.
func newRolePicker(com *common.Common) *dialog.Picker {
	roles := com.Session.Roles()
	items := make([]dialog.PickerItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, dialog.PickerItem{ID: r.Name, Title: r.Label()})
	}
	return dialog.NewPicker(com, rolePickerID, "Continue as", items, com.Session.Role())
}
