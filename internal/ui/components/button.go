package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/trakaido/trakaido/internal/ui/theme"
)

// Button is a single-action affordance fired by enter or space.
// Screens embed one for their primary "continue" action.
type Button struct {
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a button. Inactive buttons render dimmed and
// ignore input.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update fires OnPress when an active button sees enter or space.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active || b.OnPress == nil {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "space":
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button in its active or dimmed style.
func (b Button) View() string {
	label := "⏎ " + b.Label
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
