package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/trakaido/trakaido/internal/ui/theme"
	"github.com/trakaido/trakaido/internal/vocab"
)

// TextInput wraps bubbles/textinput with Trakaido styling and the
// Lithuanian character helper: with the helper on, digit keys 1-9 insert
// ą č ę ė į š ų ū ž. Lithuanian answers never contain digits, so the
// remapping costs nothing. Toggle with ctrl+l.
type TextInput struct {
	Model      textinput.Model
	Lithuanian bool
	MaxWidth   int
	submitted  bool
	valid      bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, lithuanian bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:      ti,
		Lithuanian: lithuanian,
		MaxWidth:   maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if key == "ctrl+l" {
			t.Lithuanian = !t.Lithuanian
			return t, nil
		}
		if t.Lithuanian && len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			runes := []rune(vocab.SpecialCharacters)
			r := runes[key[0]-'1']
			if t.MaxWidth <= 0 || len([]rune(t.Model.Value())) < t.MaxWidth {
				t.Model.SetValue(t.Model.Value() + string(r))
				t.Model.CursorEnd()
			}
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// HelperHint returns the one-line helper legend screens show under the
// input.
func (t TextInput) HelperHint() string {
	if !t.Lithuanian {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("ctrl+l: Lithuanian keys")
	}
	runes := []rune(vocab.SpecialCharacters)
	pairs := make([]string, len(runes))
	for i, r := range runes {
		pairs[i] = string(rune('1'+i)) + ":" + string(r)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(strings.Join(pairs, " ") + "  ctrl+l: off")
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}
