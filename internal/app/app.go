package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sirupsen/logrus"

	"github.com/trakaido/trakaido/internal/coach"
	"github.com/trakaido/trakaido/internal/config"
	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/screens/home"
	journeyscreen "github.com/trakaido/trakaido/internal/screens/journey"
	"github.com/trakaido/trakaido/internal/screens/welcome"
	"github.com/trakaido/trakaido/internal/selfupdate"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/ui/layout"
	"github.com/trakaido/trakaido/internal/vocab"
	"github.com/trakaido/trakaido/internal/voice"
)

// Options carries the shared services the TUI runs on. The command
// layer builds them once and hands them in here.
type Options struct {
	Catalog *vocab.Catalog
	Tracker *stats.Tracker
	Events  store.EventRepo
	Config  *config.Config
	Voice   *voice.Manager
	Coach   *coach.Service
	Updates *selfupdate.Checker
	Log     *logrus.Logger
	Version string

	// StartJourney skips the splash and opens a session immediately,
	// with the home screen underneath it.
	StartJourney bool
}

// headerStatsMsg carries recomputed header counters.
type headerStatsMsg struct {
	exposed int
	streak  int
}

// statsChangedMsg is sent from the tracker listener whenever a word is
// graded or introduced, so the header count moves during a session.
type statsChangedMsg struct {
	exposed int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int

	exposed int
	streak  int

	// startJourney, when set, builds the session screen pushed on top
	// of home during Init.
	startJourney func() screen.Screen
}

// newAppModel creates the root model with the welcome screen on top.
// The home screen is built lazily when the splash hands over.
func newAppModel(opts Options) AppModel {
	deps := home.Deps{
		Catalog: opts.Catalog,
		Tracker: opts.Tracker,
		Events:  opts.Events,
		Config:  opts.Config,
		Voice:   opts.Voice,
		Coach:   opts.Coach,
		Updates: opts.Updates,
		Log:     opts.Log,
		Version: opts.Version,
	}

	m := AppModel{opts: opts}
	if opts.StartJourney && opts.Catalog != nil && opts.Tracker != nil {
		m.router = router.New(home.New(deps))
		m.startJourney = func() screen.Screen {
			return journeyscreen.New(opts.Catalog.All(), opts.Tracker, opts.Events, opts.Config, opts.Voice, opts.Coach, opts.Log)
		}
		return m
	}

	m.router = router.New(welcome.New(func() screen.Screen {
		return home.New(deps)
	}))
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.loadHeaderStats()}
	if m.startJourney != nil {
		s := m.startJourney
		cmds = append(cmds, func() tea.Msg {
			return router.PushScreenMsg{Screen: s()}
		})
	}
	return tea.Batch(cmds...)
}

// loadHeaderStats recounts the words and streak shown in the header.
func (m AppModel) loadHeaderStats() tea.Cmd {
	tracker, events := m.opts.Tracker, m.opts.Events
	return func() tea.Msg {
		var msg headerStatsMsg
		if tracker != nil {
			msg.exposed = tracker.ExposedCount()
		}
		if events != nil {
			if days, err := events.PracticeDays(context.Background()); err == nil {
				msg.streak = store.DayStreak(days, time.Now())
			}
		}
		return msg
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerStatsMsg:
		m.exposed = msg.exposed
		m.streak = msg.streak
		return m, nil

	case statsChangedMsg:
		m.exposed = msg.exposed
		return m, nil

	case tea.KeyMsg:
		// Esc stays with the screens: the session screen asks for
		// confirmation before quitting, flashcards walk back up a level.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)

	// Navigation changes usually follow a finished session, so the
	// header counters are recounted alongside.
	switch msg.(type) {
	case router.PopScreenMsg, router.ReplaceScreenMsg:
		return m, tea.Batch(cmd, m.loadHeaderStats())
	}
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// An untitled screen renders full-bleed without the frame. Only the
	// welcome splash does this.
	if title == "" {
		v.SetContent(m.router.View(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(title, m.exposed, m.streak, m.width)

	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	if len(hints) == 0 {
		if m.router.Depth() > 1 {
			hints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
			}
		} else {
			hints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
			}
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(hints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	// The tracker pushes every change with the full mapping attached,
	// which is enough to recount the header without a tracker query.
	if opts.Tracker != nil {
		id := opts.Tracker.AddListener(func(u stats.Update) {
			exposed := 0
			for _, ws := range u.All {
				if ws.Exposed {
					exposed++
				}
			}
			p.Send(statsChangedMsg{exposed: exposed})
		})
		defer opts.Tracker.RemoveListener(id)
	}

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
