package model

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/ultraviolet/screen"
	"github.com/charmbracelet/x/ansi"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/uiutil"
)

type uiState uint8

// Possible uiState values.
const (
	uiRestore uiState = iota
	uiLogin
	uiSelectRole
	uiDashboard
)

const (
	// bannerTTL is how long "Back online" stays in the header.
	bannerTTL = 3 * time.Second

	logoutID = "logout"

	minWidth  = 60
	minHeight = 16
)

type (
	statusExpiredMsg struct{ gen uint64 }
	bannerExpiredMsg struct{ gen uint64 }
	// logoutMsg is the confirmation of a sign out.
	logoutMsg struct{}
)

// UI represents the main user interface model.
type UI struct {
	com *common.Common

	// The width and height of the terminal in cells.
	width  int
	height int
	layout layout

	state uiState

	keyMap KeyMap
	dialog *dialog.Overlay
	help   help.Model

	login   *loginModel
	sidebar *SidebarModel
	pages   []page
	active  pageID

	status    *uiutil.InfoMsg
	statusGen uint64

	// online is false after a request failed to reach the API.
	online    bool
	banner    bool
	bannerGen uint64
}

// New creates a new instance of the [UI] model.
func New(com *common.Common) *UI {
	m := &UI{
		com:     com,
		dialog:  dialog.NewOverlay(),
		keyMap:  DefaultKeyMap(),
		help:    help.New(),
		state:   uiRestore,
		sidebar: NewSidebarModel(com),
		online:  true,
	}
	m.login = newLoginModel(com, &m.keyMap)
	m.help.Styles = com.Styles.Help
	return m
}

// Init initializes the UI model.
func (m *UI) Init() tea.Cmd {
	return restoreSession(m.com)
}

// Update handles updates to the UI model.
func (m *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if r, ok := msg.(apiResult); ok {
		if cmd := m.handleConnectivity(r.status()); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.updateLayoutAndSize()
		return m, tea.Batch(cmds...)
	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKeyPressMsg(msg))
		return m, tea.Batch(cmds...)
	case tea.PasteMsg:
		cmds = append(cmds, m.handlePasteMsg(msg))
		return m, tea.Batch(cmds...)
	case uiutil.InfoMsg:
		m.status = &msg
		m.statusGen++
		gen := m.statusGen
		ttl := msg.TTL
		if ttl <= 0 {
			ttl = uiutil.DefaultTTL
		}
		cmds = append(cmds, tea.Tick(ttl, func(time.Time) tea.Msg {
			return statusExpiredMsg{gen: gen}
		}))
		return m, tea.Batch(cmds...)
	case statusExpiredMsg:
		if msg.gen == m.statusGen {
			m.status = nil
		}
		return m, nil
	case bannerExpiredMsg:
		if msg.gen == m.bannerGen {
			m.banner = false
		}
		return m, nil
	case signedInMsg:
		cmds = append(cmds, m.handleSignedIn(msg))
		return m, tea.Batch(cmds...)
	case noStoredTokenMsg:
		m.state = uiLogin
		m.updateLayoutAndSize()
		return m, nil
	}

	if m.dialog.HasDialogs() {
		cmds = append(cmds, m.handleDialogAction(m.dialog.Update(msg)))
	}
	switch m.state {
	case uiLogin:
		cmds = append(cmds, m.login.Update(msg))
	case uiDashboard:
		for _, p := range m.pages {
			cmds = append(cmds, p.Update(msg))
		}
	}
	return m, tea.Batch(cmds...)
}

// handleConnectivity tracks whether the API is reachable and signs out when
// the token was rejected.
func (m *UI) handleConnectivity(st fetchStatus) tea.Cmd {
	switch {
	case errors.Is(st.err, api.ErrUnauthorized) && m.state == uiDashboard:
		slog.Info("Session rejected by the API")
		return m.signOut("Your session has expired. Please sign in again.")
	case st.offline:
		m.online = false
		m.banner = false
	case st.err == nil && !m.online:
		m.online = true
		m.banner = true
		m.bannerGen++
		gen := m.bannerGen
		return tea.Tick(bannerTTL, func(time.Time) tea.Msg {
			return bannerExpiredMsg{gen: gen}
		})
	}
	return nil
}

func (m *UI) handleKeyPressMsg(msg tea.KeyPressMsg) tea.Cmd {
	if key.Matches(msg, m.keyMap.Quit) && !m.dialog.ContainsDialog(dialog.QuitID) {
		// Always handle quit keys first
		return m.openQuitDialog()
	}
	if key.Matches(msg, m.keyMap.Suspend) {
		return tea.Suspend
	}

	// Route all messages to dialog if one is open.
	if m.dialog.HasDialogs() {
		return m.handleDialogAction(m.dialog.Update(msg))
	}

	if key.Matches(msg, m.keyMap.Help) {
		m.help.ShowAll = !m.help.ShowAll
		m.updateLayoutAndSize()
		return nil
	}

	switch m.state {
	case uiLogin:
		return m.login.Update(msg)
	case uiDashboard:
		p := m.page()
		switch {
		case key.Matches(msg, m.keyMap.Refresh):
			return p.Load()
		case key.Matches(msg, m.keyMap.Logout):
			m.dialog.OpenDialog(dialog.NewConfirm(m.com, logoutID, "Sign out of "+brand+"?", logoutMsg{}))
			return nil
		case !p.Capturing() && key.Matches(msg, m.keyMap.Sidebar.Next):
			return m.selectPage(m.sidebar.Move(1))
		case !p.Capturing() && key.Matches(msg, m.keyMap.Sidebar.Prev):
			return m.selectPage(m.sidebar.Move(-1))
		}
		return p.Update(msg)
	}
	return nil
}

// handlePasteMsg handles a paste message.
func (m *UI) handlePasteMsg(msg tea.PasteMsg) tea.Cmd {
	if m.dialog.HasDialogs() {
		return m.handleDialogAction(m.dialog.Update(msg))
	}
	switch m.state {
	case uiLogin:
		return m.login.Update(msg)
	case uiDashboard:
		return m.page().Update(msg)
	}
	return nil
}

// handleDialogAction applies what a dialog asked for. Actions the root does
// not know go to the page that opened the dialog.
func (m *UI) handleDialogAction(action dialog.Action) tea.Cmd {
	switch action := action.(type) {
	case nil:
		return nil
	case dialog.ActionClose:
		front := m.dialog.Front()
		m.dialog.CloseFrontDialog()
		if front != nil && front.ID() == rolePickerID {
			return m.signOut("")
		}
		return nil
	case dialog.ActionQuit:
		return tea.Quit
	case dialog.ActionCmd:
		return action.Cmd
	case logoutMsg:
		m.dialog.CloseDialog(logoutID)
		return m.signOut("")
	case dialog.ActionPick:
		if action.DialogID == rolePickerID {
			m.dialog.CloseDialog(rolePickerID)
			return m.enterDashboard(action.Item.ID)
		}
	}
	if p := m.page(); p != nil {
		return p.HandleAction(action)
	}
	return nil
}

func (m *UI) handleSignedIn(msg signedInMsg) tea.Cmd {
	if msg.err != nil {
		m.state = uiLogin
		m.login.Fail(uiutil.ErrorText(msg.err))
		return nil
	}

	sess := m.com.Session
	sess.SignIn(msg.token)
	sess.SetProfile(msg.profile)
	if m.com.Cache != nil {
		m.com.Cache.SetOwner(msg.profile.User.ID)
	}

	var cmds []tea.Cmd
	if !msg.restored {
		cmds = append(cmds, m.persistLogin(msg.token, msg.profile.User.Email))
	}

	roles := sess.Roles()
	switch len(roles) {
	case 0:
		return m.signOut("Your account has no role assigned.")
	case 1:
		cmds = append(cmds, m.enterDashboard(roles[0].Name))
	default:
		m.state = uiSelectRole
		m.login.busy = false
		m.dialog.OpenDialog(newRolePicker(m.com))
	}
	return tea.Batch(cmds...)
}

// persistLogin stores the token and remembers the email for the next sign
// in.
func (m *UI) persistLogin(token, email string) tea.Cmd {
	store, cfg := m.com.Tokens, m.com.Config
	return func() tea.Msg {
		if store != nil {
			if err := store.Save(token); err != nil {
				slog.Warn("Failed to store token", "error", err)
				return uiutil.InfoMsg{Type: uiutil.InfoTypeWarn, Msg: "You will need to sign in again next time"}
			}
		}
		if cfg != nil && email != "" {
			if err := cfg.SetConfigField("options.last_email", email); err != nil {
				slog.Warn("Failed to remember email", "error", err)
			}
		}
		return nil
	}
}

func (m *UI) enterDashboard(role string) tea.Cmd {
	m.com.Session.SetRole(role)
	m.state = uiDashboard

	ctx := &pageCtx{com: m.com, keyMap: &m.keyMap, dialog: m.dialog}
	m.pages = []page{
		newHomePage(ctx),
		newTenantsPage(ctx),
		newUnitsPage(ctx),
	}
	m.updateLayoutAndSize()
	return tea.Batch(
		m.selectPage(pageHome),
		uiutil.ReportInfo("Welcome, "+m.com.Session.Profile().User.FirstName),
	)
}

func (m *UI) selectPage(id pageID) tea.Cmd {
	m.active = id
	m.sidebar.Select(id)
	if p := m.page(); p != nil {
		return p.Load()
	}
	return nil
}

// page returns the active page, nil outside of the dashboard.
func (m *UI) page() page {
	for _, p := range m.pages {
		if p.ID() == m.active {
			return p
		}
	}
	return nil
}

// signOut forgets the session and returns to the sign in screen.
func (m *UI) signOut(reason string) tea.Cmd {
	store, c := m.com.Tokens, m.com.Cache
	m.com.Session.Clear()
	m.dialog = dialog.NewOverlay()
	m.pages = nil
	m.active = pageHome
	m.state = uiLogin
	m.online, m.banner = true, false
	m.login.Reset()
	if reason != "" {
		m.login.Fail(reason)
	}
	if c != nil {
		c.SetOwner("")
	}
	m.updateLayoutAndSize()

	return func() tea.Msg {
		if store != nil {
			if err := store.Clear(); err != nil {
				slog.Warn("Failed to clear stored token", "error", err)
			}
		}
		if c != nil {
			if err := c.Clear(context.Background()); err != nil {
				slog.Warn("Failed to clear cache", "error", err)
			}
		}
		return nil
	}
}

// openQuitDialog opens the quit confirmation dialog.
func (m *UI) openQuitDialog() tea.Cmd {
	if m.dialog.ContainsDialog(dialog.QuitID) {
		// Bring to front
		m.dialog.BringToFront(dialog.QuitID)
		return nil
	}

	quitDialog := dialog.NewQuit(m.com)
	m.dialog.OpenDialog(quitDialog)
	return nil
}

// Draw implements [tea.Layer] and draws the UI model.
func (m *UI) Draw(scr uv.Screen, area uv.Rectangle) {
	layout := m.generateLayout(area.Dx(), area.Dy())

	if m.layout != layout {
		m.layout = layout
		m.updateSize()
	}

	// Clear the screen first
	screen.Clear(scr)

	t := m.com.Styles
	if area.Dx() < minWidth || area.Dy() < minHeight {
		msg := t.WindowTooSmall.Render("Window too small")
		rect := common.CenterRect(area, lipgloss.Width(msg), 1)
		uv.NewStyledString(msg).Draw(scr, rect)
		return
	}

	switch m.state {
	case uiRestore:
		msg := t.Subtle.Render("Restoring session...")
		uv.NewStyledString(msg).Draw(scr, common.CenterRect(layout.main, lipgloss.Width(msg), 1))

	case uiLogin:
		view := m.login.View()
		rect := common.CenterRect(layout.main, lipgloss.Width(view), lipgloss.Height(view))
		uv.NewStyledString(view).Draw(scr, rect)

	case uiSelectRole:
		msg := t.Subtle.Render("Signed in as " + m.com.Session.Profile().User.Email)
		uv.NewStyledString(msg).Draw(scr, layout.main)

	case uiDashboard:
		uv.NewStyledString(m.headerView(layout.header.Dx())).Draw(scr, layout.header)
		uv.NewStyledString(m.sidebar.View(layout.sidebar.Dy())).Draw(scr, layout.sidebar)
		if p := m.page(); p != nil {
			uv.NewStyledString(p.View(layout.main.Dx(), layout.main.Dy())).Draw(scr, layout.main)
		}
	}

	uv.NewStyledString(m.statusView(layout.status.Dx())).Draw(scr, layout.status)

	// Add help layer
	help := uv.NewStyledString(m.help.View(m))
	help.Draw(scr, layout.help)

	// This needs to come last to overlay on top of everything
	if m.dialog.HasDialogs() {
		m.dialog.Draw(scr, area)
	}
}

// View renders the UI model's view.
func (m *UI) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.BackgroundColor = m.com.Styles.Background
	v.WindowTitle = brand

	canvas := uv.NewScreenBuffer(m.width, m.height)
	m.Draw(canvas, canvas.Bounds())

	content := strings.ReplaceAll(canvas.Render(), "\r\n", "\n") // normalize newlines
	contentLines := strings.Split(content, "\n")
	for i, line := range contentLines {
		// Trim trailing spaces for concise rendering
		contentLines[i] = strings.TrimRight(line, " ")
	}

	v.Content = strings.Join(contentLines, "\n")
	return v
}

func (m *UI) headerView(width int) string {
	t := m.com.Styles
	title := ""
	if p := m.page(); p != nil {
		title = t.Header.Title.Render(p.Title())
	}

	user := m.com.Session.Profile().User
	var right []string
	switch {
	case !m.online:
		right = append(right, t.Header.Offline.Render("OFFLINE"))
	case m.banner:
		right = append(right, t.Header.Online.Render("Back online"))
	}
	if role := m.com.Session.RoleLabel(); role != "" {
		right = append(right, t.Header.Role.Render(role))
	}
	right = append(right, t.Header.Avatar.Render(common.Initials(user.FirstName, user.LastName)))

	end := strings.Join(right, " ")
	gap := width - lipgloss.Width(title) - lipgloss.Width(end)
	if gap < 1 {
		return ansi.Truncate(title+" "+end, width, "…")
	}
	return title + strings.Repeat(" ", gap) + end
}

func (m *UI) statusView(width int) string {
	if m.status == nil {
		return ""
	}
	t := m.com.Styles
	tag := t.Status.Info
	switch m.status.Type {
	case uiutil.InfoTypeSuccess:
		tag = t.Status.Success
	case uiutil.InfoTypeWarn:
		tag = t.Status.Warn
	case uiutil.InfoTypeError:
		tag = t.Status.Error
	}
	label := tag.String()
	msg := ansi.Truncate(m.status.Msg, max(0, width-lipgloss.Width(label)-1), "…")
	return label + t.Status.Message.Render(msg)
}

// ShortHelp implements [help.KeyMap].
func (m *UI) ShortHelp() []key.Binding {
	k := &m.keyMap
	var binds []key.Binding
	switch m.state {
	case uiLogin:
		binds = append(binds, m.login.ShortHelp()...)
	case uiDashboard:
		if p := m.page(); p != nil {
			binds = append(binds, p.ShortHelp()...)
		}
		binds = append(binds, k.Sidebar.Next)
	}
	return append(binds, k.Quit, k.Help)
}

// FullHelp implements [help.KeyMap].
func (m *UI) FullHelp() [][]key.Binding {
	k := &m.keyMap
	help := k.Help
	help.SetHelp("ctrl+g", "less")

	var binds [][]key.Binding
	switch m.state {
	case uiLogin:
		binds = append(binds, m.login.FullHelp()...)
	case uiDashboard:
		if p := m.page(); p != nil {
			binds = append(binds, p.FullHelp()...)
		}
		binds = append(binds, []key.Binding{
			k.Sidebar.Next,
			k.Sidebar.Prev,
			k.Refresh,
			k.Logout,
		})
	}
	return append(binds, []key.Binding{help, k.Suspend, k.Quit})
}

// updateLayoutAndSize updates the layout and sizes of UI components.
func (m *UI) updateLayoutAndSize() {
	m.layout = m.generateLayout(m.width, m.height)
	m.updateSize()
}

// updateSize updates the sizes of UI components based on the current layout.
func (m *UI) updateSize() {
	m.help.SetWidth(m.layout.help.Dx())
	m.sidebar.SetWidth(m.layout.sidebar.Dx())
}

// generateLayout calculates the layout rectangles for all UI components based
// on the current UI state and terminal dimensions.
func (m *UI) generateLayout(w, h int) layout {
	// The screen area we're working with
	area := image.Rect(0, 0, w, h)

	helpHeight := 1
	statusHeight := 1
	sidebarWidth := 22
	headerHeight := 2

	var helpKeyMap help.KeyMap = m
	if m.help.ShowAll {
		for _, row := range helpKeyMap.FullHelp() {
			helpHeight = max(helpHeight, len(row))
		}
	}

	// Add app margins
	appRect := area
	appRect.Min.X += 1
	appRect.Min.Y += 1
	appRect.Max.X -= 1
	appRect.Max.Y -= 1

	appRect, helpRect := uv.SplitVertical(appRect, uv.Fixed(max(0, appRect.Dy()-helpHeight)))
	appRect, statusRect := uv.SplitVertical(appRect, uv.Fixed(max(0, appRect.Dy()-statusHeight)))

	layout := layout{
		area:   area,
		help:   helpRect,
		status: statusRect,
		main:   appRect,
	}

	if m.state == uiDashboard {
		// Layout
		//
		// side | header
		//      | ------
		//      | main
		// -------------
		// status
		// help
		sideRect, mainRect := uv.SplitHorizontal(appRect, uv.Fixed(sidebarWidth))
		mainRect.Min.X += 2 // Add padding left
		headerRect, mainRect := uv.SplitVertical(mainRect, uv.Fixed(headerHeight))
		headerRect.Max.Y -= 1 // Add bottom margin to header
		layout.sidebar = sideRect
		layout.header = headerRect
		layout.main = mainRect
	}

	return layout
}

// layout defines the positioning of UI elements.
type layout struct {
	// area is the overall available area.
	area uv.Rectangle

	// header is the page title and user area of the dashboard.
	header uv.Rectangle

	// main is the area for the main pane. (e.x login, page)
	main uv.Rectangle

	// sidebar is the area for the page navigation.
	sidebar uv.Rectangle

	// status is the line showing reported messages.
	status uv.Rectangle

	// help is the area for the help view.
	help uv.Rectangle
}
