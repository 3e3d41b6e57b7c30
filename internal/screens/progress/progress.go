package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/trakaido/trakaido/internal/journey"
	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/ui/layout"
	"github.com/trakaido/trakaido/internal/ui/theme"
	"github.com/trakaido/trakaido/internal/vocab"
)

// corpusRow is the per-corpus exposure tally shown as a progress bar.
type corpusRow struct {
	Name  string
	Seen  int
	Total int
}

// loadedMsg carries the computed progress data.
type loadedMsg struct {
	Seen     int
	Mastered int
	Streak   int
	Corpora  []corpusRow
	Activity []store.ActivityAccuracy
	Last     *store.SessionEvent
	Err      error
}

// ProgressScreen shows exposure, mastery, and accuracy rollups.
type ProgressScreen struct {
	catalog *vocab.Catalog
	tracker *stats.Tracker
	events  store.EventRepo

	loaded bool
	data   loadedMsg
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a progress screen.
func New(catalog *vocab.Catalog, tracker *stats.Tracker, events store.EventRepo) *ProgressScreen {
	return &ProgressScreen{
		catalog: catalog,
		tracker: tracker,
		events:  events,
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.data = msg
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// load computes the rollups off the update loop. Event queries are
// best-effort; the word counts render even when the log is unreadable.
func (s *ProgressScreen) load() tea.Cmd {
	catalog, tracker, events := s.catalog, s.tracker, s.events
	return func() tea.Msg {
		var msg loadedMsg

		snapshot := tracker.Snapshot()
		for _, ws := range snapshot {
			if ws.Exposed {
				msg.Seen++
			}
			if ws.TotalCorrect() >= journey.MatureCorrectThreshold {
				msg.Mastered++
			}
		}

		for _, corpus := range catalog.Corpora() {
			row := corpusRow{Name: vocab.DisplayName(corpus)}
			for _, w := range catalog.ByCorpus(corpus) {
				row.Total++
				if snapshot[w.Key()].Exposed {
					row.Seen++
				}
			}
			msg.Corpora = append(msg.Corpora, row)
		}

		if events != nil {
			ctx := context.Background()
			acc, err := events.AccuracyByActivity(ctx)
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Activity = acc

			if last, err := events.LastSession(ctx); err == nil && last != nil && last.Action == store.SessionEnded {
				msg.Last = last
			}
			if days, err := events.PracticeDays(ctx); err == nil {
				msg.Streak = store.DayStreak(days, time.Now())
			}
		}

		return msg
	}
}

func (s *ProgressScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Adding things up...")
	}

	var b strings.Builder

	total := s.catalog.Len()
	overview := fmt.Sprintf("%d of %d words seen   ★ %d mastered", s.data.Seen, total, s.data.Mastered)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(overview))
	b.WriteString("\n")

	streakLine := "No streak yet. Today is a fine day to start one."
	if s.data.Streak == 1 {
		streakLine = "⚡ 1 day streak"
	} else if s.data.Streak > 1 {
		streakLine = fmt.Sprintf("⚡ %d day streak", s.data.Streak)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(streakLine))
	b.WriteString("\n\n")

	b.WriteString(s.renderCorpora(width))
	b.WriteString("\n")
	b.WriteString(s.renderActivity(width))

	if s.data.Last != nil {
		b.WriteString("\n")
		b.WriteString(s.renderLastSession(width))
	}

	if s.data.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Some history could not be read."))
	}

	return b.String()
}

func (s *ProgressScreen) renderCorpora(width int) string {
	barWidth := min(width-8, 56)

	// Pad labels so the bars line up.
	labelWidth := 0
	for _, row := range s.data.Corpora {
		if len(row.Name) > labelWidth {
			labelWidth = len(row.Name)
		}
	}

	var lines []string
	for _, row := range s.data.Corpora {
		percent := 0.0
		if row.Total > 0 {
			percent = float64(row.Seen) / float64(row.Total)
		}
		label := fmt.Sprintf("%-*s", labelWidth, row.Name)
		lines = append(lines, components.NewProgressBar(label, percent, true, barWidth).View())
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}

func (s *ProgressScreen) renderActivity(width int) string {
	if len(s.data.Activity) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No answers recorded yet.")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Bold(true).
		Render("Accuracy by activity"))
	b.WriteString("\n")

	var lines []string
	for _, row := range s.data.Activity {
		total := row.Correct + row.Incorrect
		if total == 0 {
			continue
		}
		percent := float64(row.Correct) / float64(total) * 100
		lines = append(lines, fmt.Sprintf("%-16s %3.0f%%  (%d/%d)",
			activityLabel(row.Activity), percent, row.Correct, total))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(lines, "\n"))))

	return b.String()
}

func (s *ProgressScreen) renderLastSession(width int) string {
	last := s.data.Last
	line := fmt.Sprintf("Last session: %d answers, %d correct, %s",
		last.Turns, last.Correct, relativeDay(last.At, time.Now()))
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(line)
}

func activityLabel(activity string) string {
	switch stats.Activity(activity) {
	case stats.ActivityMultipleChoice:
		return "Multiple choice"
	case stats.ActivityListeningEasy:
		return "Listening"
	case stats.ActivityListeningHard:
		return "Listening (hard)"
	case stats.ActivityTyping:
		return "Typing"
	}
	return activity
}

// relativeDay renders when in friendly calendar terms.
func relativeDay(when, now time.Time) string {
	day := time.Date(when.Year(), when.Month(), when.Day(), 0, 0, 0, 0, time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday"
	default:
		return when.Format("Jan 2")
	}
}
