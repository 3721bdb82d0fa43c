package dialog

import "charm.land/bubbles/v2/key"

// ConfirmKeyMap represents key bindings for yes/no dialogs.
type ConfirmKeyMap struct {
	LeftRight,
	EnterSpace,
	Yes,
	No,
	Tab,
	Close key.Binding
}

// DefaultConfirmKeyMap returns the default key bindings for yes/no dialogs.
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		LeftRight: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "switch options"),
		),
		EnterSpace: key.NewBinding(
			key.WithKeys("enter", "space", " "),
			key.WithHelp("enter/space", "confirm"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y/Y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n/N", "no"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch options"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "alt+esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ModalKeyMap represents key bindings for form modals.
type ModalKeyMap struct {
	Submit,
	Close key.Binding
}

// DefaultModalKeyMap returns the default key bindings for form modals.
func DefaultModalKeyMap() ModalKeyMap {
	return ModalKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "save"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "alt+esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
