package dialog

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/proptic/proptic/internal/ui/common"
)

// QuitID is the identifier for the quit dialog.
const QuitID = "quit"

// Confirm is a yes/no question. Choosing yes returns the action it was
// created with, choosing no closes it.
type Confirm struct {
	com        *common.Common
	id         string
	question   string
	yes, no    string
	onYes      Action
	keyMap     ConfirmKeyMap
	help       help.Model
	selectedNo bool // true if "No" button is selected
}

var _ Dialog = (*Confirm)(nil)

// NewConfirm creates a new confirmation dialog.
func NewConfirm(com *common.Common, id, question string, onYes Action) *Confirm {
	h := help.New()
	h.Styles = com.Styles.DialogHelpStyles()
	return &Confirm{
		com:      com,
		id:       id,
		question: question,
		yes:      "Yes",
		no:       "No",
		onYes:    onYes,
		keyMap:   DefaultConfirmKeyMap(),
		help:     h,
	}
}

// NewQuit creates a new quit confirmation dialog.
func NewQuit(com *common.Common) *Confirm {
	q := NewConfirm(com, QuitID, "Are you sure you want to quit?", ActionQuit{})
	q.yes, q.no = "Yep!", "Nope"
	q.keyMap.Yes = key.NewBinding(
		key.WithKeys("y", "Y", "ctrl+c"),
		key.WithHelp("y/Y/ctrl+c", "yes"),
	)
	return q
}

// ID implements [Dialog].
func (c *Confirm) ID() string {
	return c.id
}

// HandleMsg implements [Dialog].
func (c *Confirm) HandleMsg(msg tea.Msg) Action {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, c.keyMap.LeftRight, c.keyMap.Tab):
			c.selectedNo = !c.selectedNo
		case key.Matches(msg, c.keyMap.EnterSpace):
			if !c.selectedNo {
				return c.onYes
			}
			return ActionClose{}
		case key.Matches(msg, c.keyMap.Yes):
			return c.onYes
		case key.Matches(msg, c.keyMap.No, c.keyMap.Close):
			return ActionClose{}
		}
	}
	return nil
}

// View implements [Dialog].
func (c *Confirm) View() string {
	t := c.com.Styles
	width := min(defaultDialogMaxWidth, max(lipgloss.Width(c.question)+8, 36))

	rc := NewRenderContext(t, width)
	rc.AddPart(t.Base.Render(c.question))
	rc.Buttons = RenderButtons(t,
		Button{Label: c.yes, Focused: !c.selectedNo, Underline: 0},
		Button{Label: c.no, Focused: c.selectedNo, Underline: 0},
	)
	rc.Help = c.help.View(c)
	return rc.Render()
}

// ShortHelp implements [help.KeyMap].
func (c *Confirm) ShortHelp() []key.Binding {
	return []key.Binding{
		c.keyMap.LeftRight,
		c.keyMap.EnterSpace,
	}
}

// FullHelp implements [help.KeyMap].
func (c *Confirm) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{c.keyMap.LeftRight, c.keyMap.EnterSpace, c.keyMap.Yes, c.keyMap.No},
		{c.keyMap.Tab, c.keyMap.Close},
	}
}
