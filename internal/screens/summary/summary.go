package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/ui/layout"
	"github.com/trakaido/trakaido/internal/ui/theme"
)

// Summary holds the results of one journey session.
type Summary struct {
	Answered int
	Correct  int
	Duration time.Duration

	// NewWords lists the Lithuanian side of words introduced this
	// session, in introduction order.
	NewWords []string
}

// Accuracy is the correct-answer share, 0 when nothing was answered.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// SummaryScreen displays the session summary. The journey screen
// replaces itself with this one, so a single pop lands back home.
type SummaryScreen struct {
	summary Summary
	homeBtn components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary Summary) *SummaryScreen {
	return &SummaryScreen{
		summary: summary,
		homeBtn: components.NewButton("Go home", true, func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	var cmd tea.Cmd
	s.homeBtn, cmd = s.homeBtn.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary

	var b strings.Builder

	// Title.
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")

	// Duration.
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	// Stats line.
	if sum.Answered > 0 {
		statsLine := fmt.Sprintf("Answers: %d        Correct: %d        Accuracy: %.0f%%",
			sum.Answered, sum.Correct, sum.Accuracy()*100)
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(statsLine))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Nothing graded this time."))
	}
	b.WriteString("\n\n")

	// New words.
	if len(sum.NewWords) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("New words")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		words := sum.NewWords
		more := 0
		if len(words) > 8 {
			more = len(words) - 8
			words = words[:8]
		}
		line := strings.Join(words, "   ")
		if more > 0 {
			line += fmt.Sprintf("   +%d more", more)
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(line))
		b.WriteString("\n\n")
	}

	// Encouragement.
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render(encouragement(sum)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.homeBtn.View()))

	return b.String()
}

func encouragement(sum Summary) string {
	switch {
	case sum.Answered == 0:
		return "Iki pasimatymo! See you next time."
	case sum.Accuracy() >= 0.9:
		return "Puiku! Excellent work."
	case sum.Accuracy() >= 0.7:
		return "Gerai! Solid progress."
	default:
		return "Nieko tokio. Hard words stick with repetition."
	}
}
