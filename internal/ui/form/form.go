// Package form implements keyboard driven forms with schema validation.
package form

import (
	"maps"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/proptic/proptic/internal/ui/styles"
)

// Values maps field keys to their values.
type Values map[string]string

// Errors maps field keys to validation messages.
type Errors map[string]string

// Schema validates form values. It returns no errors for valid values.
type Schema func(Values) Errors

// KeyMap defines the key bindings of a form.
type KeyMap struct {
	Next,
	Prev,
	Cycle,
	Check key.Binding
}

// DefaultKeyMap returns the default key bindings of a form.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "choose"),
		),
		Check: key.NewBinding(
			key.WithKeys("space", " ", "x"),
			key.WithHelp("space", "toggle"),
		),
	}
}

// Form is an ordered set of fields validated by a [Schema].
type Form struct {
	t      *styles.Styles
	fields []*Field
	schema Schema
	keyMap KeyMap
	focus  int
	errors Errors
}

// New creates a form over fields. A nil schema accepts everything.
func New(t *styles.Styles, schema Schema, fields ...*Field) *Form {
	f := &Form{
		t:      t,
		fields: fields,
		schema: schema,
		keyMap: DefaultKeyMap(),
	}
	for _, field := range fields {
		field.setStyles(t)
	}
	f.focusField(0)
	return f
}

// Field returns the field with the given key, or nil.
func (f *Form) Field(key string) *Field {
	for _, field := range f.fields {
		if field.Key == key {
			return field
		}
	}
	return nil
}

// Values returns the current values of all fields.
func (f *Form) Values() Values {
	v := make(Values, len(f.fields))
	for _, field := range f.fields {
		v[field.Key] = field.Value()
	}
	return v
}

// SetValues fills the fields named in v.
func (f *Form) SetValues(v Values) {
	for k, val := range v {
		if field := f.Field(k); field != nil {
			field.SetValue(val)
		}
	}
}

// Validate runs the schema and records the errors for display.
func (f *Form) Validate() (Values, bool) {
	values := f.Values()
	f.errors = nil
	if f.schema != nil {
		f.errors = f.schema(values)
	}
	return values, len(f.errors) == 0
}

// Errors returns the recorded validation errors.
func (f *Form) Errors() Errors { return maps.Clone(f.errors) }

// SetErrors records errors reported from elsewhere, such as the server.
func (f *Form) SetErrors(errs Errors) { f.errors = errs }

// Reset clears every field and error and focuses the first field.
func (f *Form) Reset() {
	for _, field := range f.fields {
		field.reset()
	}
	f.errors = nil
	f.focusField(0)
}

// Focused returns the key of the focused field.
func (f *Form) Focused() string {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return ""
	}
	return f.fields[f.focus].Key
}

// Update handles focus movement and forwards input to the focused field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	field := f.fields[f.focus]

	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch {
		case key.Matches(msg, f.keyMap.Next):
			return f.focusField(f.focus + 1)
		case key.Matches(msg, f.keyMap.Prev):
			return f.focusField(f.focus - 1)
		case field.Kind == KindSelect && key.Matches(msg, f.keyMap.Cycle):
			if msg.String() == "left" {
				field.cycle(-1)
			} else {
				field.cycle(1)
			}
			return nil
		case field.Kind == KindCheckbox && key.Matches(msg, f.keyMap.Check):
			field.checked = !field.checked
			return nil
		}
	}

	if !field.editable() {
		return nil
	}
	if field.Kind == KindNumber {
		switch msg := msg.(type) {
		case tea.KeyPressMsg:
			if msg.Text != "" && !field.acceptsNumber(msg.Text) {
				return nil
			}
		case tea.PasteMsg:
			if !field.acceptsNumber(msg.Content) {
				return nil
			}
		}
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return cmd
}

func (f *Form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for idx, field := range f.fields {
		if !field.editable() {
			continue
		}
		if idx == f.focus {
			cmd = field.input.Focus()
		} else {
			field.input.Blur()
		}
	}
	return cmd
}

// View renders the form at the given width.
func (f *Form) View(width int) string {
	s := f.t.Form
	parts := make([]string, 0, len(f.fields))
	for i, field := range f.fields {
		focused := i == f.focus
		label := s.Label.Render(field.Label)
		if focused {
			label = s.FocusedLabel.Render("› " + field.Label)
		}

		var input string
		switch field.Kind {
		case KindSelect:
			input = f.selectView(field, focused)
		case KindCheckbox:
			box := "[ ]"
			if field.checked {
				box = s.Checkbox.Render("[" + styles.CheckIcon + "]")
			}
			input = box
		default:
			field.input.SetWidth(max(10, width-2))
			input = field.input.View()
		}

		block := lipgloss.JoinVertical(lipgloss.Left, label, input)
		if msg, ok := f.errors[field.Key]; ok {
			block = lipgloss.JoinVertical(lipgloss.Left, block, s.Error.Render(msg))
		}
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n")
}

func (f *Form) selectView(field *Field, focused bool) string {
	s := f.t.Form
	if len(field.options) == 0 {
		return f.t.Subtle.Render("no options")
	}
	opts := make([]string, len(field.options))
	for i, o := range field.options {
		label := o.Label
		if label == "" {
			label = o.Value
		}
		if i == field.selected && focused {
			opts[i] = s.ActiveOption.Render(label)
		} else if i == field.selected {
			opts[i] = s.Option.Underline(true).Render(label)
		} else {
			opts[i] = s.Option.Render(label)
		}
	}
	return strings.Join(opts, " ")
}

// ShortHelp implements [help.KeyMap].
func (f *Form) ShortHelp() []key.Binding {
	return []key.Binding{f.keyMap.Next, f.keyMap.Cycle, f.keyMap.Check}
}

// FullHelp implements [help.KeyMap].
func (f *Form) FullHelp() [][]key.Binding {
	return [][]key.Binding{{f.keyMap.Next, f.keyMap.Prev, f.keyMap.Cycle, f.keyMap.Check}}
}
