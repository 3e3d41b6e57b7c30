package journey

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	engine "github.com/trakaido/trakaido/internal/journey"
	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/ui/theme"
)

// renderTurn renders the active turn.
func (s *JourneyScreen) renderTurn(width, height int) string {
	var b strings.Builder

	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width-4)))
	b.WriteString("\n\n")

	switch s.turn.Kind {
	case engine.KindNewWord:
		b.WriteString(s.renderNewWord(width))
	case engine.KindGrammarBreak:
		b.WriteString(s.renderGrammarBreak(width))
	case engine.KindMotivationalBreak:
		b.WriteString(s.renderMotivationalBreak(width))
	case engine.KindTyping:
		b.WriteString(s.renderTyping(width))
	default:
		b.WriteString(s.renderChoiceTurn(width))
	}

	if s.audioErr != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("(" + s.audioErr + ")"))
	}

	return b.String()
}

// renderInfoLine renders the activity name on the left and the running
// tally on the right.
func (s *JourneyScreen) renderInfoLine(width int) string {
	mins := int(s.elapsed.Minutes())
	secs := int(s.elapsed.Seconds()) % 60

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + activityLabel(s.turn.Kind))

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Turn %d  %s %d  %d:%02d",
			s.answered+1,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			s.correct,
			mins, secs,
		))

	line := left
	rightPad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if rightPad > 0 {
		line += strings.Repeat(" ", rightPad) + right
	}
	return line
}

func activityLabel(kind engine.ActivityKind) string {
	switch kind {
	case engine.KindNewWord:
		return "New word"
	case engine.KindMultipleChoice:
		return "Multiple choice"
	case engine.KindListeningEasy:
		return "Listening"
	case engine.KindListeningHard:
		return "Listening (hard)"
	case engine.KindTyping:
		return "Typing"
	case engine.KindGrammarBreak:
		return "Grammar break"
	case engine.KindMotivationalBreak:
		return "Break"
	}
	return "Journey"
}

// renderNewWord renders a new-word introduction card.
func (s *JourneyScreen) renderNewWord(width int) string {
	w := s.turn.Word
	if w == nil {
		return ""
	}

	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("NEW WORD"))
	card.WriteString("\n\n")
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(w.Lithuanian))
	card.WriteString("\n")
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(w.English))
	card.WriteString("\n\n")
	card.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(w.Group))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(card.String(), components.ContentWidth(width))))
	b.WriteString("\n\n")

	hint := "Press any key to continue..."
	if s.canReplay() {
		hint = "♪ playing   R to replay   any other key to continue"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(hint))

	return b.String()
}

// renderChoiceTurn renders multiple-choice and listening turns.
func (s *JourneyScreen) renderChoiceTurn(width int) string {
	w := s.turn.Word
	if w == nil {
		return ""
	}

	prompt := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(w.Lithuanian)
	if s.turn.Kind != engine.KindMultipleChoice {
		// Listening turns hide the word until feedback.
		prompt = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("♪ ♪ ♪")
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(prompt, components.ContentWidth(width))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Select (a-%c) or use arrows + Enter", 'a'+len(s.mc.Options)-1)))

	return b.String()
}

// renderTyping renders the typing turn: English prompt, Lithuanian
// answer.
func (s *JourneyScreen) renderTyping(width int) string {
	w := s.turn.Word
	if w == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(
			lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(w.English),
			components.ContentWidth(width))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(s.input.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(s.input.HelperHint()))

	return b.String()
}

// renderGrammarBreak renders a grammar tip interstitial.
func (s *JourneyScreen) renderGrammarBreak(width int) string {
	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("GRAMMAR BREAK"))
	card.WriteString("\n\n")
	card.WriteString(lipgloss.NewStyle().
		Width(min(width-16, 56)).
		Foreground(theme.Text).
		Render(s.tip.Text))
	if s.tip.Example != "" {
		card.WriteString("\n\n")
		card.WriteString(lipgloss.NewStyle().
			Width(min(width-16, 56)).
			Foreground(theme.TextDim).
			Italic(true).
			Render(s.tip.Example))
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(card.String(), components.ContentWidth(width))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// renderMotivationalBreak renders a short encouragement interstitial.
func (s *JourneyScreen) renderMotivationalBreak(width int) string {
	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("★"))
	card.WriteString("\n\n")
	card.WriteString(lipgloss.NewStyle().
		Width(min(width-16, 56)).
		Foreground(theme.Text).
		Render(s.motivation))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(card.String(), components.ContentWidth(width))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// renderFeedback renders the graded-answer overlay.
func (s *JourneyScreen) renderFeedback(width, height int) string {
	w := s.turn.Word

	var b strings.Builder
	b.WriteString("\n\n")

	if s.lastCorrect {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Teisingai! Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
	}
	b.WriteString("\n\n")

	if w != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(fmt.Sprintf("%s = %s", w.Lithuanian, w.English)))
		b.WriteString("\n\n")
	}

	// Option states for choice turns, the graded input for typing.
	if s.mcActive {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
		b.WriteString("\n")
	} else if s.turn.Kind == engine.KindTyping {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(s.input.View()))
		b.WriteString("\n")
	}

	if s.lastStats.TotalAnswers() > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("this word: %d right, %d wrong (%.0f%%)",
				s.lastStats.TotalCorrect(),
				s.lastStats.TotalIncorrect(),
				s.lastStats.Accuracy()*100)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := "Press any key to continue..."
	if s.cfg.Journey.AutoAdvance {
		hint = "Next turn in a moment (or press any key)..."
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(hint))

	return b.String()
}

// renderQuitConfirm renders the end-session dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End this session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your progress is already saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderLoading renders the pre-first-turn state.
func renderLoading(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Picking your first word...")
}
