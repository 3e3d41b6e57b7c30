package flashcards

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/ui/layout"
	"github.com/trakaido/trakaido/internal/ui/theme"
	"github.com/trakaido/trakaido/internal/vocab"
	"github.com/trakaido/trakaido/internal/voice"
)

// browseLevel is the navigation depth within the screen: corpus list,
// group list, then the card deck itself.
type browseLevel int

const (
	levelCorpus browseLevel = iota
	levelGroup
	levelDeck
)

// audioDoneMsg reports the outcome of a pronunciation playback.
type audioDoneMsg struct {
	Err error
}

// FlashcardsScreen browses the vocabulary as flip cards, one corpus
// and group at a time. Browsing never touches the learner's stats.
type FlashcardsScreen struct {
	catalog *vocab.Catalog
	voice   *voice.Manager

	level  browseLevel
	corpus string
	group  string

	corpusMenu components.Menu
	groupMenu  components.Menu

	deck     []vocab.Word
	index    int
	flipped  bool
	audioErr string
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)

// New creates a flashcards screen over the catalog.
func New(catalog *vocab.Catalog, vm *voice.Manager) *FlashcardsScreen {
	s := &FlashcardsScreen{
		catalog: catalog,
		voice:   vm,
	}

	var items []components.MenuItem
	for _, corpus := range catalog.Corpora() {
		corpus := corpus
		items = append(items, components.MenuItem{
			Label: vocab.DisplayName(corpus),
			Action: func() tea.Cmd {
				s.enterCorpus(corpus)
				return nil
			},
		})
	}
	s.corpusMenu = components.NewMenu(items)
	return s
}

func (s *FlashcardsScreen) enterCorpus(corpus string) {
	s.corpus = corpus
	s.level = levelGroup

	var items []components.MenuItem
	for _, group := range s.catalog.Groups(corpus) {
		group := group
		items = append(items, components.MenuItem{
			Label: fmt.Sprintf("%s (%d)", group, len(s.catalog.ByGroup(corpus, group))),
			Action: func() tea.Cmd {
				s.enterGroup(group)
				return nil
			},
		})
	}
	s.groupMenu = components.NewMenu(items)
}

func (s *FlashcardsScreen) enterGroup(group string) {
	s.group = group
	s.deck = s.catalog.ByGroup(s.corpus, group)
	s.index = 0
	s.flipped = false
	s.audioErr = ""
	s.level = levelDeck
}

func (s *FlashcardsScreen) Init() tea.Cmd {
	return nil
}

func (s *FlashcardsScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardsScreen) KeyHints() []layout.KeyHint {
	switch s.level {
	case levelDeck:
		hints := []layout.KeyHint{
			{Key: "Space", Description: "Flip"},
			{Key: "←/→", Description: "Card"},
		}
		if s.canPlay() {
			hints = append(hints, layout.KeyHint{Key: "A", Description: "Audio"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	default:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Select"},
			{Key: "Enter", Description: "Open"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case audioDoneMsg:
		if msg.Err != nil {
			s.audioErr = "audio unavailable"
		}
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *FlashcardsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "esc" {
		switch s.level {
		case levelDeck:
			s.level = levelGroup
			return s, nil
		case levelGroup:
			s.level = levelCorpus
			return s, nil
		default:
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	switch s.level {
	case levelCorpus:
		var cmd tea.Cmd
		s.corpusMenu, cmd = s.corpusMenu.Update(msg)
		return s, cmd

	case levelGroup:
		var cmd tea.Cmd
		s.groupMenu, cmd = s.groupMenu.Update(msg)
		return s, cmd

	case levelDeck:
		return s.handleDeckKey(key)
	}
	return s, nil
}

func (s *FlashcardsScreen) handleDeckKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "space", " ", "enter":
		s.flipped = !s.flipped
	case "right", "l", "n":
		if s.index < len(s.deck)-1 {
			s.index++
			s.flipped = false
			s.audioErr = ""
		}
	case "left", "h", "p":
		if s.index > 0 {
			s.index--
			s.flipped = false
			s.audioErr = ""
		}
	case "a":
		if s.canPlay() {
			word := s.deck[s.index].Lithuanian
			vm := s.voice
			return s, func() tea.Msg {
				return audioDoneMsg{Err: vm.Play(context.Background(), word)}
			}
		}
	}
	return s, nil
}

func (s *FlashcardsScreen) canPlay() bool {
	return s.voice != nil && s.voice.Enabled() &&
		s.index < len(s.deck) && s.voice.Has(s.deck[s.index].Lithuanian)
}

func (s *FlashcardsScreen) View(width, height int) string {
	switch s.level {
	case levelCorpus:
		return s.renderMenuLevel(width, "Pick a corpus", s.corpusMenu)
	case levelGroup:
		return s.renderMenuLevel(width, vocab.DisplayName(s.corpus), s.groupMenu)
	default:
		return s.renderDeck(width)
	}
}

func (s *FlashcardsScreen) renderMenuLevel(width int, heading string, menu components.Menu) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Bold(true).
		Render(heading))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu.View()))

	return b.String()
}

func (s *FlashcardsScreen) renderDeck(width int) string {
	if len(s.deck) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  This group is empty.")
	}

	word := s.deck[s.index]

	var b strings.Builder

	heading := fmt.Sprintf("%s · %s", vocab.DisplayName(s.corpus), s.group)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Bold(true).
		Render(heading))
	b.WriteString("\n\n")

	// Card face: Lithuanian on the front, both sides when flipped.
	var face strings.Builder
	face.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(word.Lithuanian))
	if s.flipped {
		face.WriteString("\n\n")
		face.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(word.English))
	} else {
		face.WriteString("\n\n")
		face.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("· · ·"))
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(face.String(), components.ContentWidth(width))))
	b.WriteString("\n\n")

	counter := fmt.Sprintf("%d / %d", s.index+1, len(s.deck))
	if s.audioErr != "" {
		counter += "   (" + s.audioErr + ")"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(counter))

	return b.String()
}
