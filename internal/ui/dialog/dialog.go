package dialog

import (
	"slices"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/proptic/proptic/internal/ui/common"
)

// CloseKey is the default key binding to close dialogs.
var CloseKey = key.NewBinding(
	key.WithKeys("esc", "alt+esc"),
	key.WithHelp("esc", "close"),
)

// Dialog is a component drawn above the page. A dialog never changes page
// state itself; it returns an [Action] for its owner to apply.
type Dialog interface {
	ID() string
	HandleMsg(msg tea.Msg) Action
	View() string
}

// Overlay is the stack of open dialogs. Only the front dialog receives
// input.
type Overlay struct {
	stack []Dialog
}

func NewOverlay() *Overlay {
	return &Overlay{}
}

func (o *Overlay) index(dialogID string) int {
	return slices.IndexFunc(o.stack, func(d Dialog) bool { return d.ID() == dialogID })
}

// HasDialogs reports whether any dialog is open.
func (o *Overlay) HasDialogs() bool {
	return len(o.stack) > 0
}

func (o *Overlay) ContainsDialog(dialogID string) bool {
	return o.index(dialogID) >= 0
}

// Front returns the dialog receiving input, or nil.
func (o *Overlay) Front() Dialog {
	if len(o.stack) == 0 {
		return nil
	}
	return o.stack[len(o.stack)-1]
}

func (o *Overlay) IsFrontDialog(dialogID string) bool {
	front := o.Front()
	return front != nil && front.ID() == dialogID
}

// OpenDialog pushes d to the front. An open dialog with the same ID is
// replaced by d.
func (o *Overlay) OpenDialog(d Dialog) {
	if i := o.index(d.ID()); i >= 0 {
		o.stack = slices.Delete(o.stack, i, i+1)
	}
	o.stack = append(o.stack, d)
}

// BringToFront moves an open dialog to the front.
func (o *Overlay) BringToFront(dialogID string) {
	if i := o.index(dialogID); i >= 0 {
		d := o.stack[i]
		o.stack = append(slices.Delete(o.stack, i, i+1), d)
	}
}

func (o *Overlay) CloseDialog(dialogID string) {
	if i := o.index(dialogID); i >= 0 {
		o.stack = slices.Delete(o.stack, i, i+1)
	}
}

func (o *Overlay) CloseFrontDialog() {
	if len(o.stack) > 0 {
		o.stack = o.stack[:len(o.stack)-1]
	}
}

// Update hands msg to the front dialog and returns its action.
func (o *Overlay) Update(msg tea.Msg) Action {
	front := o.Front()
	if front == nil {
		return nil
	}
	return front.HandleMsg(msg)
}

// Draw draws the dialogs centered in area, back to front.
func (o *Overlay) Draw(scr uv.Screen, area uv.Rectangle) {
	for _, d := range o.stack {
		view := d.View()
		rect := common.CenterRect(area, lipgloss.Width(view), lipgloss.Height(view))
		if area.Overlaps(rect) {
			uv.NewStyledString(view).Draw(scr, rect)
		}
	}
}
