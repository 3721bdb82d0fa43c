package dialog

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/form"
	"github.com/proptic/proptic/internal/ui/styles"
	"github.com/stretchr/testify/require"
)

type stubDialog struct{ id string }

func (s stubDialog) ID() string               { return s.id }
func (s stubDialog) HandleMsg(tea.Msg) Action { return ActionClose{} }
func (s stubDialog) View() string             { return s.id }

func testCommon() *common.Common {
	st := styles.DefaultStyles()
	return &common.Common{Styles: &st}
}

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func typeInto(d Dialog, s string) {
	for _, r := range s {
		d.HandleMsg(press(string(r)))
	}
}

func TestOverlayStack(t *testing.T) {
	t.Parallel()

	o := NewOverlay()
	require.False(t, o.HasDialogs())

	o.OpenDialog(stubDialog{"a"})
	o.OpenDialog(stubDialog{"b"})
	require.True(t, o.IsFrontDialog("b"))

	o.OpenDialog(stubDialog{"a"})
	require.True(t, o.IsFrontDialog("a"))
	require.True(t, o.ContainsDialog("b"))

	o.CloseFrontDialog()
	require.True(t, o.IsFrontDialog("b"))
	o.CloseDialog("b")
	require.False(t, o.HasDialogs())
}

func newUnitModal() *CreateModal {
	com := testCommon()
	f := form.New(com.Styles,
		form.Rules(map[string][]form.Rule{
			"name": {form.Required("Name is required")},
		}),
		form.Text("name", "Name", "Unit name"),
	)
	return NewCreateModal(com, "unit", "Create Unit", f, ModalOptions{})
}

func TestCreateModalSubmit(t *testing.T) {
	t.Parallel()

	m := newUnitModal()

	require.Nil(t, m.HandleMsg(press("enter")))
	require.Equal(t, "Name is required", m.Form().Errors()["name"])

	typeInto(m, "A-101")
	act := m.HandleMsg(press("enter"))
	require.Equal(t, ActionSubmit{DialogID: "unit", Values: form.Values{"name": "A-101"}}, act)

	m.SetSubmitting(true)
	require.Nil(t, m.HandleMsg(press("enter")))
	require.Contains(t, ansi.Strip(m.View()), "Saving...")

	m.SetSubmitting(false)
	require.Contains(t, ansi.Strip(m.View()), "Save")
	require.NotContains(t, ansi.Strip(m.View()), "Saving...")
	require.Equal(t, "A-101", m.Form().Values()["name"])
}

func TestCreateModalRequestsClose(t *testing.T) {
	t.Parallel()

	m := newUnitModal()
	typeInto(m, "x")
	require.Equal(t, ActionRequestClose{DialogID: "unit"}, m.HandleMsg(press("esc")))
	require.Equal(t, "x", m.Form().Values()["name"])
}

func TestModalState(t *testing.T) {
	t.Parallel()

	var s ModalState = ModalClosed{}
	require.False(t, IsOpen(s))
	s = ModalOpen{Editing: "42"}
	require.True(t, IsOpen(s))
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	c := NewConfirm(testCommon(), "logout", "Sign out?", ActionQuit{})
	require.IsType(t, ActionClose{}, c.HandleMsg(press("esc")))
	require.IsType(t, ActionQuit{}, c.HandleMsg(press("y")))
	require.Contains(t, ansi.Strip(c.View()), "Sign out?")
}

func TestPicker(t *testing.T) {
	t.Parallel()

	items := []PickerItem{
		{ID: "admin", Title: "Administrator"},
		{ID: "landlord", Title: "Landlord"},
		{ID: "tenant", Title: "Tenant"},
	}
	p := NewPicker(testCommon(), "role", "Select Role", items, "landlord")

	sel, ok := p.Selected()
	require.True(t, ok)
	require.Equal(t, "landlord", sel.ID)
	require.Nil(t, p.HandleMsg(tea.WindowSizeMsg{Width: 80, Height: 24}))

	p.HandleMsg(press("down"))
	p.HandleMsg(press("down"))
	sel, _ = p.Selected()
	require.Equal(t, "admin", sel.ID, "selection wraps around")

	typeInto(p, "ten")
	require.Len(t, p.Visible(), 1)
	require.Equal(t, ActionPick{DialogID: "role", Item: items[2]}, p.HandleMsg(press("enter")))

	typeInto(p, "zzz")
	require.Empty(t, p.Visible())
	require.Nil(t, p.HandleMsg(press("enter")))
	require.Contains(t, ansi.Strip(p.View()), "No matches")
}

func TestUnderlineMatches(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Tenant", underlineMatches("Tenant", nil))
	out := underlineMatches("Tenant", []int{0, 1})
	require.Equal(t, "Tenant", ansi.Strip(out))
	require.NotEqual(t, "Tenant", out)
}
