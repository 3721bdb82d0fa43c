package table

import "charm.land/bubbles/v2/key"

// KeyMap defines the key bindings of a table.
type KeyMap struct {
	Up,
	Down,
	Toggle,
	PrevPage,
	NextPage,
	FirstPage,
	LastPage,
	PrevColumn,
	NextColumn,
	Sort,
	GrowPageSize,
	ShrinkPageSize,
	Search,
	LeaveSearch,
	NewItem key.Binding
}

// DefaultKeyMap returns the default key bindings of a table.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "space", " "),
			key.WithHelp("enter", "expand"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev column"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		GrowPageSize: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more rows"),
		),
		ShrinkPageSize: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer rows"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		LeaveSearch: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "done"),
		),
		NewItem: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new"),
		),
	}
}
