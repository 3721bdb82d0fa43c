package dialog

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/form"
)

const (
	defaultSubmitLabel = "Save"
	defaultBusyLabel   = "Saving..."
)

// ModalState is the visibility of a controlled modal. The page showing the
// modal owns it; the modal only requests changes through actions.
type ModalState interface {
	modalState()
}

// ModalClosed is the state of a hidden modal.
type ModalClosed struct{}

// ModalOpen is the state of a visible modal. Editing holds the id of the
// record being edited and is empty when creating one.
type ModalOpen struct {
	Editing string
}

func (ModalClosed) modalState() {}
func (ModalOpen) modalState()   {}

// IsOpen reports whether s is an open state.
func IsOpen(s ModalState) bool {
	_, ok := s.(ModalOpen)
	return ok
}

// ModalOptions configures a [CreateModal].
type ModalOptions struct {
	SubmitLabel string
	BusyLabel   string
	Width       int
}

// CreateModal wraps a form in a dialog. Submitting validates the form and
// reports the values with [ActionSubmit] only when they are valid. Escape
// requests closing with [ActionRequestClose]. The modal never closes or
// resets itself.
type CreateModal struct {
	com        *common.Common
	id         string
	title      string
	form       *form.Form
	opts       ModalOptions
	keyMap     ModalKeyMap
	help       help.Model
	submitting bool
	message    string
}

var _ Dialog = (*CreateModal)(nil)

// NewCreateModal creates a new form modal.
func NewCreateModal(com *common.Common, id, title string, f *form.Form, opts ModalOptions) *CreateModal {
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = defaultSubmitLabel
	}
	if opts.BusyLabel == "" {
		opts.BusyLabel = defaultBusyLabel
	}
	if opts.Width <= 0 {
		opts.Width = defaultDialogMaxWidth
	}
	h := help.New()
	h.Styles = com.Styles.DialogHelpStyles()
	return &CreateModal{
		com:    com,
		id:     id,
		title:  title,
		form:   f,
		opts:   opts,
		keyMap: DefaultModalKeyMap(),
		help:   h,
	}
}

// ID implements [Dialog].
func (m *CreateModal) ID() string { return m.id }

// Form returns the wrapped form.
func (m *CreateModal) Form() *form.Form { return m.form }

// SetTitle changes the title.
func (m *CreateModal) SetTitle(title string) { m.title = title }

// SetSubmitting toggles the busy state. While busy the submit button is
// disabled and submissions are ignored.
func (m *CreateModal) SetSubmitting(submitting bool) {
	m.submitting = submitting
	if submitting {
		m.message = ""
	}
}

// Submitting reports whether a submission is in flight.
func (m *CreateModal) Submitting() bool { return m.submitting }

// SetMessage shows an error message above the buttons.
func (m *CreateModal) SetMessage(msg string) { m.message = msg }

// HandleMsg implements [Dialog].
func (m *CreateModal) HandleMsg(msg tea.Msg) Action {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch {
		case key.Matches(msg, m.keyMap.Close):
			return ActionRequestClose{DialogID: m.id}
		case key.Matches(msg, m.keyMap.Submit):
			if m.submitting {
				return nil
			}
			values, ok := m.form.Validate()
			if !ok {
				return nil
			}
			return ActionSubmit{DialogID: m.id, Values: values}
		}
		if m.submitting {
			return nil
		}
	}
	if cmd := m.form.Update(msg); cmd != nil {
		return ActionCmd{Cmd: cmd}
	}
	return nil
}

// View implements [Dialog].
func (m *CreateModal) View() string {
	t := m.com.Styles
	rc := NewRenderContext(t, m.opts.Width)
	rc.Title = m.title
	rc.AddPart(m.form.View(rc.InnerWidth()))
	if m.message != "" {
		rc.AddPart(t.Form.Error.Render(m.message))
	}

	label := m.opts.SubmitLabel
	if m.submitting {
		label = m.opts.BusyLabel
	}
	rc.Buttons = RenderButtons(t, Button{
		Label:     label,
		Focused:   true,
		Disabled:  m.submitting,
		Underline: -1,
	})
	rc.Help = m.help.View(m)
	return rc.Render()
}

// ShortHelp implements [help.KeyMap].
func (m *CreateModal) ShortHelp() []key.Binding {
	return append(m.form.ShortHelp()[:1], m.keyMap.Submit, m.keyMap.Close)
}

// FullHelp implements [help.KeyMap].
func (m *CreateModal) FullHelp() [][]key.Binding {
	return append(m.form.FullHelp(), []key.Binding{m.keyMap.Submit, m.keyMap.Close})
}
