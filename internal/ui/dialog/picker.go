package dialog

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/styles"
	"github.com/rivo/uniseg"
	"github.com/sahilm/fuzzy"
)

// PickerItem is one choice of a [Picker].
type PickerItem struct {
	ID     string
	Title  string
	Detail string
	// Updated is shown as a relative time on the right when set.
	Updated time.Time
}

type pickerSource []PickerItem

func (s pickerSource) String(i int) string { return s[i].Title }
func (s pickerSource) Len() int            { return len(s) }

// Picker is a dialog listing items with fuzzy filtering. Choosing an item
// returns [ActionPick].
type Picker struct {
	com    *common.Common
	id     string
	title  string
	items  []PickerItem
	input  textinput.Model
	help   help.Model
	height int

	matches  fuzzy.Matches
	selected int
	offset   int

	keyMap struct {
		Select   key.Binding
		Next     key.Binding
		Previous key.Binding
		UpDown   key.Binding
		Close    key.Binding
	}
}

var _ Dialog = (*Picker)(nil)

// NewPicker creates a picker with the given items. The item with the
// selectedID is preselected.
func NewPicker(com *common.Common, id, title string, items []PickerItem, selectedID string) *Picker {
	p := &Picker{
		com:    com,
		id:     id,
		title:  title,
		items:  items,
		height: defaultListHeight,
	}

	p.help = help.New()
	p.help.Styles = com.Styles.DialogHelpStyles()

	p.input = textinput.New()
	p.input.Placeholder = "Type to filter"
	p.input.SetStyles(com.Styles.TextInput)
	p.input.Focus()

	p.keyMap.Select = key.NewBinding(
		key.WithKeys("enter", "tab", "ctrl+y"),
		key.WithHelp("enter", "choose"),
	)
	p.keyMap.Next = key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next item"),
	)
	p.keyMap.Previous = key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous item"),
	)
	p.keyMap.UpDown = key.NewBinding(
		key.WithKeys("up", "down"),
		key.WithHelp("↑↓", "choose"),
	)
	p.keyMap.Close = CloseKey

	p.filter("")
	for i, m := range p.matches {
		if p.items[m.Index].ID == selectedID {
			p.selected = i
			break
		}
	}
	p.scrollToSelected()
	return p
}

// ID implements [Dialog].
func (p *Picker) ID() string { return p.id }

// Selected returns the highlighted item.
func (p *Picker) Selected() (PickerItem, bool) {
	if p.selected < 0 || p.selected >= len(p.matches) {
		return PickerItem{}, false
	}
	return p.items[p.matches[p.selected].Index], true
}

// Visible returns the items matching the current filter in display order.
func (p *Picker) Visible() []PickerItem {
	out := make([]PickerItem, len(p.matches))
	for i, m := range p.matches {
		out[i] = p.items[m.Index]
	}
	return out
}

// HandleMsg implements [Dialog].
func (p *Picker) HandleMsg(msg tea.Msg) Action {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(kmsg, p.keyMap.Close):
		return ActionClose{}
	case key.Matches(kmsg, p.keyMap.Previous):
		if len(p.matches) == 0 {
			break
		}
		p.selected--
		if p.selected < 0 {
			p.selected = len(p.matches) - 1
		}
		p.scrollToSelected()
	case key.Matches(kmsg, p.keyMap.Next):
		if len(p.matches) == 0 {
			break
		}
		p.selected = (p.selected + 1) % len(p.matches)
		p.scrollToSelected()
	case key.Matches(kmsg, p.keyMap.Select):
		if item, ok := p.Selected(); ok {
			return ActionPick{DialogID: p.id, Item: item}
		}
	default:
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(kmsg)
		p.filter(p.input.Value())
		return ActionCmd{Cmd: cmd}
	}
	return nil
}

func (p *Picker) filter(term string) {
	p.selected, p.offset = 0, 0
	if term == "" {
		p.matches = make(fuzzy.Matches, len(p.items))
		for i := range p.items {
			p.matches[i] = fuzzy.Match{Str: p.items[i].Title, Index: i}
		}
		return
	}
	p.matches = fuzzy.FindFrom(term, pickerSource(p.items))
}

func (p *Picker) scrollToSelected() {
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+p.height {
		p.offset = p.selected - p.height + 1
	}
}

// View implements [Dialog].
func (p *Picker) View() string {
	t := p.com.Styles
	rc := NewRenderContext(t, defaultDialogMaxWidth)
	rc.Title = p.title
	inner := rc.InnerWidth()
	p.input.SetWidth(max(0, inner-t.Dialog.InputPrompt.GetHorizontalFrameSize()-1))
	p.help.SetWidth(inner)

	rc.AddPart(t.Dialog.InputPrompt.Render(p.input.View()))

	var rows []string
	end := min(len(p.matches), p.offset+p.height)
	for i := p.offset; i < end; i++ {
		m := p.matches[i]
		rows = append(rows, renderPickerItem(t, p.items[m.Index], m.MatchedIndexes, i == p.selected, inner))
	}
	if len(rows) == 0 {
		rows = append(rows, t.Dialog.NormalItem.Render(t.Subtle.Render("No matches")))
	}
	rc.AddPart(t.Dialog.List.Height(p.height).Render(strings.Join(rows, "\n")))
	rc.Help = p.help.View(p)
	return rc.Render()
}

func renderPickerItem(t *styles.Styles, item PickerItem, matched []int, focused bool, width int) string {
	style := t.Dialog.NormalItem
	if focused {
		style = t.Dialog.SelectedItem
	}
	width -= style.GetHorizontalFrameSize()

	var right string
	switch {
	case !item.Updated.IsZero():
		right = humanize.Time(item.Updated)
	case item.Detail != "":
		right = item.Detail
	}
	if right != "" {
		if focused {
			right = " " + t.Base.Render(right)
		} else {
			right = " " + t.Subtle.Render(right)
		}
	}

	title := ansi.Truncate(item.Title, max(0, width-lipgloss.Width(right)), "…")
	title = underlineMatches(title, matched)
	rest := lipgloss.NewStyle().
		AlignHorizontal(lipgloss.Right).
		Width(max(0, width-lipgloss.Width(title))).
		Render(right)
	return style.Render(title + rest)
}

// underlineMatches underlines the graphemes of s starting at the matched
// byte offsets. The underline attribute is toggled on its own so the
// surrounding item style is preserved.
func underlineMatches(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	hit := make(map[int]struct{}, len(matched))
	for _, i := range matched {
		hit[i] = struct{}{}
	}

	on := ansi.NewStyle().Underline(true).String()
	off := ansi.NewStyle().Underline(false).String()

	var sb strings.Builder
	var pos int
	var underlined bool
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		_, want := hit[pos]
		if want != underlined {
			if want {
				sb.WriteString(on)
			} else {
				sb.WriteString(off)
			}
			underlined = want
		}
		sb.WriteString(gr.Str())
		pos += len(gr.Str())
	}
	if underlined {
		sb.WriteString(off)
	}
	return sb.String()
}

// ShortHelp implements [help.KeyMap].
func (p *Picker) ShortHelp() []key.Binding {
	return []key.Binding{p.keyMap.UpDown, p.keyMap.Select, p.keyMap.Close}
}

// FullHelp implements [help.KeyMap].
func (p *Picker) FullHelp() [][]key.Binding {
	return [][]key.Binding{{p.keyMap.Select, p.keyMap.Next, p.keyMap.Previous, p.keyMap.Close}}
}
