package dialog

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/styles"
)

const (
	defaultDialogMaxWidth = 64
	defaultListHeight     = 10
)

// RenderContext is a dialog rendering context that can be used to render
// common dialog layouts.
type RenderContext struct {
	// Styles is the styles to use for rendering.
	Styles *styles.Styles
	// Width is the total width of the dialog including borders and paddings.
	Width int
	// Title is styled with the dialog title style and rendered first.
	Title string
	// Parts are the rendered parts of the dialog, separated by blank lines.
	Parts []string
	// Buttons are rendered right aligned below the parts.
	Buttons string
	// Help is rendered last with the dialog help style.
	Help string
}

// NewRenderContext creates a new RenderContext with the provided styles and width.
func NewRenderContext(t *styles.Styles, width int) *RenderContext {
	return &RenderContext{
		Styles: t,
		Width:  width,
		Parts:  []string{},
	}
}

// AddPart adds a rendered part to the dialog.
func (rc *RenderContext) AddPart(part string) {
	if len(part) > 0 {
		rc.Parts = append(rc.Parts, part)
	}
}

// InnerWidth returns the width available to the parts.
func (rc *RenderContext) InnerWidth() int {
	return max(0, rc.Width-rc.Styles.Dialog.View.GetHorizontalFrameSize())
}

// Render renders the dialog using the provided context.
func (rc *RenderContext) Render() string {
	titleStyle := rc.Styles.Dialog.Title
	dialogStyle := rc.Styles.Dialog.View.Width(rc.Width)
	inner := rc.InnerWidth()

	parts := []string{}
	if len(rc.Title) > 0 {
		title := common.DialogTitle(rc.Styles, rc.Title,
			max(0, inner-titleStyle.GetHorizontalFrameSize()))
		parts = append(parts, titleStyle.Render(title), "")
	}

	for i, p := range rc.Parts {
		parts = append(parts, p)
		if i < len(rc.Parts)-1 {
			parts = append(parts, "")
		}
	}

	if len(rc.Buttons) > 0 {
		parts = append(parts, "",
			lipgloss.NewStyle().Width(inner).Align(lipgloss.Right).Render(rc.Buttons))
	}

	if len(rc.Help) > 0 {
		parts = append(parts, "")
		helpStyle := rc.Styles.Dialog.HelpView.Width(inner)
		parts = append(parts, helpStyle.Render(rc.Help))
	}

	return dialogStyle.Render(strings.Join(parts, "\n"))
}

// Button describes one dialog button.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
	// Underline is the byte index of the accelerator letter, -1 for none.
	Underline int
}

// RenderButtons renders buttons side by side.
func RenderButtons(t *styles.Styles, buttons ...Button) string {
	rendered := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		style := t.ButtonBlur
		switch {
		case b.Disabled:
			style = t.ButtonDisabled
		case b.Focused:
			style = t.ButtonFocus
		}
		label := style.Render(b.Label)
		if b.Underline >= 0 && b.Underline < len(b.Label) && !b.Disabled {
			u := b.Underline
			label = style.PaddingRight(0).Render(b.Label[:u]) +
				style.PaddingLeft(0).PaddingRight(0).Underline(true).Render(b.Label[u:u+1]) +
				style.PaddingLeft(0).Render(b.Label[u+1:])
		}
		if i > 0 {
			rendered = append(rendered, "  ")
		}
		rendered = append(rendered, label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}
