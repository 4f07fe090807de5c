// Package form is a small keyboard-driven form made of select and text
// fields.
package form

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/frota/pkg/runner/tea/internal/theme"
)

// Kind selects how a field takes input.
type Kind int

const (
	// Select cycles through a fixed list of options.
	Select Kind = iota
	// Text is free text.
	Text
	// Number accepts digits only.
	Number
)

// Field is one form row.
type Field struct {
	Key   string
	Label string
	Kind  Kind

	options []string
	index   int
	input   textinput.Model
}

// SelectField builds a field choosing among options.
func SelectField(key, label string, options []string) Field {
	return Field{Key: key, Label: label, Kind: Select, options: append([]string(nil), options...), index: -1}
}

// TextField builds a free text field.
func TextField(key, label, placeholder string) Field {
	return Field{Key: key, Label: label, Kind: Text, input: newInput(placeholder, 120)}
}

// NumberField builds a digits-only field.
func NumberField(key, label, placeholder string) Field {
	return Field{Key: key, Label: label, Kind: Number, input: newInput(placeholder, 9)}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

// Value is the selected option or the typed text.
func (f Field) Value() string {
	if f.Kind == Select {
		if f.index < 0 || f.index >= len(f.options) {
			return ""
		}
		return f.options[f.index]
	}
	return strings.TrimSpace(f.input.Value())
}

// Form is an ordered set of fields with one focused field.
type Form struct {
	Title  string
	fields []Field
	focus  int
}

// New builds a form; the first field starts focused.
func New(title string, fields ...Field) Form {
	f := Form{Title: title, fields: fields}
	f.focusField(0)
	return f
}

// Focused returns the key of the focused field.
func (f Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Key
}

// Value returns the current value of key.
func (f Form) Value(key string) string {
	if i := f.find(key); i >= 0 {
		return f.fields[i].Value()
	}
	return ""
}

// Values returns every field value by key.
func (f Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fl := range f.fields {
		out[fl.Key] = fl.Value()
	}
	return out
}

// SetValue sets a text value, or selects an option. Selecting a value that
// is not an option adds it to the options.
func (f *Form) SetValue(key, value string) {
	i := f.find(key)
	if i < 0 {
		return
	}
	fl := &f.fields[i]
	if fl.Kind != Select {
		fl.input.SetValue(value)
		fl.input.CursorEnd()
		return
	}
	if value == "" {
		fl.index = -1
		return
	}
	for j, opt := range fl.options {
		if opt == value {
			fl.index = j
			return
		}
	}
	fl.options = append([]string{value}, fl.options...)
	fl.index = 0
}

// SetOptions replaces the options of a select field, keeping the current
// choice when it is still offered.
func (f *Form) SetOptions(key string, options []string) {
	i := f.find(key)
	if i < 0 || f.fields[i].Kind != Select {
		return
	}
	fl := &f.fields[i]
	current := fl.Value()
	fl.options = append([]string(nil), options...)
	fl.index = -1
	for j, opt := range fl.options {
		if opt == current {
			fl.index = j
		}
	}
}

// Options returns the options of a select field.
func (f Form) Options(key string) []string {
	if i := f.find(key); i >= 0 {
		return f.fields[i].options
	}
	return nil
}

// Reset clears every field and focuses the first one.
func (f *Form) Reset() tea.Cmd {
	for i := range f.fields {
		f.fields[i].index = -1
		if f.fields[i].Kind != Select {
			f.fields[i].input.Reset()
		}
	}
	return f.focusField(0)
}

// Next focuses the following field, wrapping around.
func (f *Form) Next() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.focusField((f.focus + 1) % len(f.fields))
}

// Prev focuses the previous field, wrapping around.
func (f *Form) Prev() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
}

func (f *Form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	for j := range f.fields {
		if f.fields[j].Kind != Select {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
	if f.fields[i].Kind != Select {
		return f.fields[i].input.Focus()
	}
	return nil
}

func (f Form) find(key string) int {
	for i, fl := range f.fields {
		if fl.Key == key {
			return i
		}
	}
	return -1
}

// Update handles navigation and input. Enter and escape are left to the
// caller.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		fl := &f.fields[f.focus]
		if fl.Kind == Select {
			return f, nil
		}
		var cmd tea.Cmd
		fl.input, cmd = fl.input.Update(msg)
		return f, cmd
	}

	switch key.String() {
	case "tab", "down":
		return f, f.Next()
	case "shift+tab", "up":
		return f, f.Prev()
	}

	fl := &f.fields[f.focus]
	switch fl.Kind {
	case Select:
		n := len(fl.options)
		if n == 0 {
			return f, nil
		}
		switch key.String() {
		case "right", "space", "l":
			fl.index = (fl.index + 1) % n
		case "left", "h":
			if fl.index <= 0 {
				fl.index = n - 1
			} else {
				fl.index--
			}
		default:
			// Jump to the next option starting with the typed letter.
			if r := []rune(key.Text); len(r) == 1 {
				fl.index = jump(fl.options, fl.index, r[0])
			}
		}
		return f, nil
	case Number:
		if r := []rune(key.Text); len(r) == 1 && !unicode.IsDigit(r[0]) {
			return f, nil
		}
	}
	var cmd tea.Cmd
	fl.input, cmd = fl.input.Update(msg)
	return f, cmd
}

func jump(options []string, from int, r rune) int {
	r = unicode.ToLower(r)
	n := len(options)
	for step := 1; step <= n; step++ {
		i := ((from+step)%n + n) % n
		if first := []rune(options[i]); len(first) > 0 && unicode.ToLower(first[0]) == r {
			return i
		}
	}
	return from
}

// View renders the form.
func (f Form) View(t theme.FormTheme) string {
	var b strings.Builder
	if f.Title != "" {
		b.WriteString(t.Title.Render(f.Title))
		b.WriteString("\n\n")
	}
	width := 0
	for _, fl := range f.fields {
		if len(fl.Label) > width {
			width = len(fl.Label)
		}
	}
	for i, fl := range f.fields {
		label := fmt.Sprintf("%-*s", width, fl.Label)
		marker := "  "
		labelStyle := t.Label
		if i == f.focus {
			marker = "› "
			labelStyle = t.Focused
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(label))
		b.WriteString("  ")
		b.WriteString(f.renderValue(fl, i == f.focus, t))
		b.WriteString("\n")
	}
	return b.String()
}

func (f Form) renderValue(fl Field, focused bool, t theme.FormTheme) string {
	if fl.Kind != Select {
		return fl.input.View()
	}
	if len(fl.options) == 0 {
		return t.Hint.Render("(no options)")
	}
	v := fl.Value()
	if v == "" {
		v = "select…"
		if !focused {
			return t.Hint.Render(v)
		}
	}
	if focused {
		return t.Value.Render(fmt.Sprintf("‹ %s ›", v)) + t.Hint.Render(fmt.Sprintf("  %d/%d", fl.index+1, len(fl.options)))
	}
	return t.Value.Render(v)
}
