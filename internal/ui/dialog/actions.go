package dialog

import (
	tea "charm.land/bubbletea/v2"
	"github.com/proptic/proptic/internal/ui/form"
)

// Action is the outcome of a dialog handling a message. A nil Action means
// the message was consumed without further effect.
type Action any

// ActionClose is a message to close the current dialog.
type ActionClose struct{}

// ActionQuit is a message to quit the application.
type ActionQuit = tea.QuitMsg

// ActionCmd represents an action that carries a [tea.Cmd] to be passed to the
// Bubble Tea program loop.
type ActionCmd struct {
	Cmd tea.Cmd
}

// ActionSubmit carries validated form values of a [CreateModal].
type ActionSubmit struct {
	DialogID string
	Values   form.Values
}

// ActionRequestClose asks the owner of a controlled dialog to close it.
type ActionRequestClose struct {
	DialogID string
}

// ActionPick reports the item chosen in a [Picker].
type ActionPick struct {
	DialogID string
	Item     PickerItem
}
