package common

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/proptic/proptic/internal/ui/styles"
)

// DialogTitle renders a dialog title followed by a rule filling width.
func DialogTitle(t *styles.Styles, title string, width int) string {
	title = ansi.Truncate(title, width, "…")
	rest := width - lipgloss.Width(title) - 1
	if rest <= 0 {
		return title
	}
	return title + " " + t.Section.Line.Render(strings.Repeat(styles.SectionSeparator, rest))
}

// Section renders a muted section title followed by a rule.
func Section(t *styles.Styles, title string, width int) string {
	title = t.Section.Title.Render(title)
	rest := width - lipgloss.Width(title) - 1
	if rest <= 0 {
		return title
	}
	return title + " " + t.Section.Line.Render(strings.Repeat(styles.SectionSeparator, rest))
}

// Initials returns the upper-cased initials of a name, "?" when empty.
func Initials(names ...string) string {
	var b strings.Builder
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		r := []rune(n)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
