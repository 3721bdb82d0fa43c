package form

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	"github.com/proptic/proptic/internal/ui/styles"
)

// Kind is the input kind of a [Field].
type Kind uint8

const (
	KindText Kind = iota
	KindPassword
	KindNumber
	KindSelect
	KindCheckbox
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field is a single form input.
type Field struct {
	Key   string
	Label string
	Kind  Kind

	input    textinput.Model
	options  []Option
	selected int
	checked  bool
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	return in
}

// Text returns a free text field.
func Text(key, label, placeholder string) *Field {
	return &Field{Key: key, Label: label, Kind: KindText, input: newInput(placeholder)}
}

// Password returns a masked text field.
func Password(key, label string) *Field {
	f := &Field{Key: key, Label: label, Kind: KindPassword, input: newInput("")}
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// Number returns a text field accepting only a non-negative decimal.
func Number(key, label, placeholder string) *Field {
	return &Field{Key: key, Label: label, Kind: KindNumber, input: newInput(placeholder)}
}

// Date returns a text field for a YYYY-MM-DD date.
func Date(key, label string) *Field {
	f := Text(key, label, DateLayoutHint)
	f.input.CharLimit = len(DateLayout)
	return f
}

// Select returns a field choosing one of options. The first option is
// selected initially.
func Select(key, label string, options ...Option) *Field {
	return &Field{Key: key, Label: label, Kind: KindSelect, options: options}
}

// Checkbox returns a boolean field.
func Checkbox(key, label string) *Field {
	return &Field{Key: key, Label: label, Kind: KindCheckbox}
}

// Value returns the field value. Checkboxes yield "true" or "false" and
// selects the value of the chosen option.
func (f *Field) Value() string {
	switch f.Kind {
	case KindSelect:
		if f.selected >= 0 && f.selected < len(f.options) {
			return f.options[f.selected].Value
		}
		return ""
	case KindCheckbox:
		return strconv.FormatBool(f.checked)
	default:
		return f.input.Value()
	}
}

// SetValue sets the field value. Unknown select values are ignored.
func (f *Field) SetValue(v string) {
	switch f.Kind {
	case KindSelect:
		for i, o := range f.options {
			if o.Value == v {
				f.selected = i
				return
			}
		}
	case KindCheckbox:
		f.checked, _ = strconv.ParseBool(v)
	default:
		f.input.SetValue(v)
	}
}

// SetOptions replaces the choices of a select field, keeping the current
// value when it is still offered.
func (f *Field) SetOptions(options []Option) {
	current := f.Value()
	f.options = options
	f.selected = 0
	f.SetValue(current)
}

// Options returns the choices of a select field.
func (f *Field) Options() []Option { return f.options }

func (f *Field) reset() {
	f.input.Reset()
	f.selected = 0
	f.checked = false
}

func (f *Field) editable() bool {
	return f.Kind == KindText || f.Kind == KindPassword || f.Kind == KindNumber
}

// acceptsNumber reports whether typing s into the field keeps it a decimal.
func (f *Field) acceptsNumber(s string) bool {
	dot := strings.Contains(f.input.Value(), ".")
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

func (f *Field) cycle(delta int) {
	if len(f.options) == 0 {
		return
	}
	f.selected = (f.selected + delta + len(f.options)) % len(f.options)
}

func (f *Field) setStyles(t *styles.Styles) {
	f.input.SetStyles(t.TextInput)
}
