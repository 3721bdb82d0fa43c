package model

import "charm.land/bubbles/v2/key"

type KeyMap struct {
	Login struct {
		Submit key.Binding
	}

	Sidebar struct {
		Next,
		Prev key.Binding
	}

	Units struct {
		Edit,
		Delete,
		CopyID key.Binding
	}

	Tenants struct {
		CopyID key.Binding
	}

	// Global key maps
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Suspend key.Binding
}

func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "more"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "sign out"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "suspend"),
		),
	}

	km.Login.Submit = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "sign in"),
	)

	km.Sidebar.Next = key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next page"),
	)
	km.Sidebar.Prev = key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous page"),
	)

	km.Units.Edit = key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	)
	km.Units.Delete = key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	)
	km.Units.CopyID = key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	)
	km.Tenants.CopyID = key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	)

	return km
}
