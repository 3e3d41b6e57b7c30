package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/trakaido/trakaido/internal/coach"
	"github.com/trakaido/trakaido/internal/config"
	engine "github.com/trakaido/trakaido/internal/journey"
	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/screens/flashcards"
	journeyscreen "github.com/trakaido/trakaido/internal/screens/journey"
	"github.com/trakaido/trakaido/internal/screens/placeholder"
	progressscreen "github.com/trakaido/trakaido/internal/screens/progress"
	settingsscreen "github.com/trakaido/trakaido/internal/screens/settings"
	"github.com/trakaido/trakaido/internal/selfupdate"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/vocab"
	"github.com/trakaido/trakaido/internal/voice"

	"github.com/sirupsen/logrus"
)

// Deps carries the shared services the home menu hands to the screens
// it launches. Nil entries degrade to placeholders instead of panics.
type Deps struct {
	Catalog *vocab.Catalog
	Tracker *stats.Tracker
	Events  store.EventRepo
	Config  *config.Config
	Voice   *voice.Manager
	Coach   *coach.Service
	Updates *selfupdate.Checker
	Log     *logrus.Logger
	Version string
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps       Deps
	menu       components.Menu
	menuLabels []string

	masteredCount int
	seenCount     int
	streak        int
	mascotVariant MascotVariant
	latestVersion string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ router.Refresher = (*HomeScreen)(nil)

// statsMsg carries freshly computed dashboard numbers.
type statsMsg struct {
	mastered int
	seen     int
	streak   int
	variant  MascotVariant
}

// updateNoteMsg reports that a newer release exists.
type updateNoteMsg struct {
	latest string
}

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	menuLabels := []string{"JOURNEY", "FLASHCARDS", "PROGRESS", "SETTINGS", "EXIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			if deps.Catalog == nil || deps.Tracker == nil {
				return pushPlaceholder("Journey")
			}
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: journeyscreen.New(deps.Catalog.All(), deps.Tracker, deps.Events, deps.Config, deps.Voice, deps.Coach, deps.Log),
				}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			if deps.Catalog == nil {
				return pushPlaceholder("Flashcards")
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: flashcards.New(deps.Catalog, deps.Voice)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			if deps.Catalog == nil || deps.Tracker == nil {
				return pushPlaceholder("Progress")
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: progressscreen.New(deps.Catalog, deps.Tracker, deps.Events)}
			}
		}},
		{Label: menuLabels[3], Action: func() tea.Cmd {
			if deps.Config == nil {
				return pushPlaceholder("Settings")
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: settingsscreen.New(deps.Config, deps.Voice)}
			}
		}},
		{Label: menuLabels[4], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		deps:       deps,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

func pushPlaceholder(title string) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: placeholder.New(title)}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return tea.Batch(h.refreshStats(), h.checkUpdate())
}

// Refresh recomputes the dashboard numbers. The router calls this when
// a session pops back to home, so the counts never go stale.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.refreshStats()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		h.masteredCount = msg.mastered
		h.seenCount = msg.seen
		h.streak = msg.streak
		h.mascotVariant = msg.variant
		return h, nil
	case updateNoteMsg:
		h.latestVersion = msg.latest
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	// All sections share a uniform content width so they line up.
	cw := components.ContentWidth(width)

	var sections []string

	// 1. Title
	sections = append(sections, renderTitle(cw, compact))

	// 2. Mascot (full mode only)
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}

	// 3. Stats bar (double-bordered, same width)
	sections = append(sections, renderStatsBar(
		h.masteredCount, h.seenCount, h.streak, cw, compact))

	// 4. Menu (same width box)
	if compact {
		sections = append(sections, renderHomeMenuCompact(
			h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderHomeMenu(
			h.menuLabels, h.menu.Selected, cw))
	}

	// 5. Notes
	if h.deps.Coach == nil {
		sections = append(sections, renderTipsBanner(cw))
	}
	if h.latestVersion != "" {
		sections = append(sections, renderUpdateNote(h.latestVersion, cw))
	}

	content := strings.Join(sections, "\n\n")

	// Wrap in cabinet frame, centered in the full area
	return components.Frame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// refreshStats recomputes the dashboard numbers off the update loop.
func (h *HomeScreen) refreshStats() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		var msg statsMsg

		if deps.Tracker != nil {
			msg.seen = deps.Tracker.ExposedCount()
			for _, ws := range deps.Tracker.Snapshot() {
				if ws.TotalCorrect() >= engine.MatureCorrectThreshold {
					msg.mastered++
				}
			}
		}

		var lastPractice time.Time
		if deps.Events != nil {
			if days, err := deps.Events.PracticeDays(context.Background()); err == nil && len(days) > 0 {
				msg.streak = store.DayStreak(days, time.Now())
				lastPractice = days[0]
			}
		}

		msg.variant = mascotFor(lastPractice, time.Now())
		return msg
	}
}

// mascotFor picks the mascot mood from the most recent practice day.
// Zero lastPractice means no history yet.
func mascotFor(lastPractice time.Time, now time.Time) MascotVariant {
	if lastPractice.IsZero() {
		return MascotIdle
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if lastPractice.Equal(today) {
		return MascotCelebrating
	}
	if !lastPractice.After(today.AddDate(0, 0, -3)) {
		return MascotAlert
	}
	return MascotIdle
}

// checkUpdate asks GitHub for the latest release in the background.
// Failures stay silent; the dashboard just skips the note.
func (h *HomeScreen) checkUpdate() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		if deps.Updates == nil || deps.Version == "" {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := deps.Updates.Check(ctx, &selfupdate.CheckInput{Version: deps.Version})
		if err != nil || !res.UpdateAvailable {
			return nil
		}
		return updateNoteMsg{latest: res.LatestVersion}
	}
}
