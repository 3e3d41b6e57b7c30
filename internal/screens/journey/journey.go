package journey

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
	"github.com/trakaido/trakaido/internal/screens/summary"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/ui/components"
	"github.com/trakaido/trakaido/internal/ui/layout"
	"github.com/trakaido/trakaido/internal/vocab"
	"github.com/trakaido/trakaido/internal/voice"

	"github.com/sirupsen/logrus"
)

// JourneyScreen runs one adaptive practice session. The engine
// controller owns turn selection and pacing; this screen presents
// turns, grades answers, and bridges the controller's callbacks back
// onto the update loop.
type JourneyScreen struct {
	controller *engine.Controller
	words      []vocab.Word
	cfg        *config.Config
	voice      *voice.Manager
	coach      *coach.Service
	log        *logrus.Logger
	rng        engine.Rand

	// turns carries controller callbacks onto the update loop. done
	// unblocks the pending receive on teardown; the channel itself is
	// never closed because a late auto-advance may still send.
	turns chan engine.Turn
	done  chan struct{}

	turn *engine.Turn
	mc   components.MultiChoice
	// mcActive is true when the current turn grades a choice pick.
	mcActive bool
	input    components.TextInput

	tip        coach.Tip
	motivation string

	showingFeedback    bool
	showingQuitConfirm bool
	lastCorrect        bool
	lastStats          stats.WordStats

	started  time.Time
	elapsed  time.Duration
	answered int
	correct  int
	newWords []string
	audioErr string
	ended    bool
}

var _ screen.Screen = (*JourneyScreen)(nil)
var _ screen.KeyHintProvider = (*JourneyScreen)(nil)

// New creates a journey screen over the given word pool with injected
// dependencies. tips may be nil; breaks then fall back to the embedded
// tip set.
func New(words []vocab.Word, tracker engine.Tracker, events store.EventRepo, cfg *config.Config, vm *voice.Manager, tips *coach.Service, log *logrus.Logger) *JourneyScreen {
	s := &JourneyScreen{
		words:   words,
		cfg:     cfg,
		voice:   vm,
		coach:   tips,
		log:     log,
		rng:     engine.SystemRand(),
		turns:   make(chan engine.Turn, 8),
		done:    make(chan struct{}),
		input:   components.NewTextInput("Type the Lithuanian word...", true, 32),
		started: time.Now(),
	}
	s.controller = engine.NewController(engine.Config{
		Words:            words,
		Tracker:          tracker,
		Events:           events,
		Log:              log,
		AudioEnabled:     vm != nil && vm.Enabled(),
		AutoAdvance:      cfg.Journey.AutoAdvance,
		AutoAdvanceDelay: cfg.Journey.Delay(),
		OnTurn: func(t engine.Turn) {
			select {
			case s.turns <- t:
			case <-s.done:
			}
		},
	})
	return s
}

func (s *JourneyScreen) Init() tea.Cmd {
	// Warm the first personalized tip so the first grammar break does
	// not have to settle for an embedded one.
	s.requestTip()
	return tea.Batch(s.advance(), s.waitForTurn(), tickCmd())
}

func (s *JourneyScreen) Title() string {
	return "Journey"
}

func (s *JourneyScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.showingFeedback {
		hints := []layout.KeyHint{{Key: "any key", Description: "Next"}}
		if s.canReplay() {
			hints = append([]layout.KeyHint{{Key: "R", Description: "Replay"}}, hints...)
		}
		return hints
	}
	if s.turn == nil {
		return nil
	}
	switch s.turn.Kind {
	case engine.KindTyping:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "1-9", Description: "ąčę..."},
			{Key: "Esc", Description: "End"},
		}
	case engine.KindListeningEasy, engine.KindListeningHard:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Select"},
			{Key: "Enter", Description: "Submit"},
			{Key: "R", Description: "Replay"},
			{Key: "Esc", Description: "End"},
		}
	case engine.KindMultipleChoice:
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Select"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "End"},
		}
	}
	hints := []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	if s.canReplay() {
		hints = append([]layout.KeyHint{{Key: "R", Description: "Replay"}}, hints...)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "End"})
}

func (s *JourneyScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}
	if s.turn == nil {
		return renderLoading(width, height)
	}
	if s.showingFeedback {
		return s.renderFeedback(width, height)
	}
	return s.renderTurn(width, height)
}

func (s *JourneyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnMsg:
		return s.handleTurn(msg)

	case timerTickMsg:
		if s.ended {
			return s, nil
		}
		s.elapsed = time.Since(s.started)
		return s, tickCmd()

	case audioDoneMsg:
		if msg.Err != nil {
			s.audioErr = "audio unavailable"
			if s.log != nil {
				s.log.WithError(msg.Err).Warn("word playback failed")
			}
		}
		return s, nil

	case endSessionMsg:
		return s.endSession()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward everything else to the typing input when it is live.
	if s.typingActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// handleTurn installs the next turn and kicks off its side effects:
// audio for listening and new-word turns, a fresh input for typing,
// and tip consumption for grammar breaks.
func (s *JourneyScreen) handleTurn(msg turnMsg) (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	turn := msg.Turn
	s.turn = &turn
	s.showingFeedback = false
	s.mcActive = false
	s.audioErr = ""

	cmds := []tea.Cmd{s.waitForTurn()}

	switch turn.Kind {
	case engine.KindNewWord:
		if turn.Word != nil {
			s.newWords = append(s.newWords, turn.Word.Lithuanian)
			if s.canReplay() {
				cmds = append(cmds, s.playAudio(turn.Word.Lithuanian))
			}
		}

	case engine.KindMultipleChoice:
		s.setupChoices("Choose the English meaning", engine.SideEnglish)

	case engine.KindListeningEasy:
		s.setupChoices("Which word did you hear?", engine.SideLithuanian)
		cmds = append(cmds, s.playAudio(turn.Word.Lithuanian))

	case engine.KindListeningHard:
		s.setupChoices("What does it mean?", engine.SideEnglish)
		cmds = append(cmds, s.playAudio(turn.Word.Lithuanian))

	case engine.KindTyping:
		s.input = components.NewTextInput("Type the Lithuanian word...", true, 32)
		cmds = append(cmds, s.input.Init())

	case engine.KindGrammarBreak:
		s.tip = s.nextTip()

	case engine.KindMotivationalBreak:
		s.motivation = coach.Motivation()
	}

	return s, tea.Batch(cmds...)
}

func (s *JourneyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Quit confirmation dialog.
	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			return s, func() tea.Msg { return endSessionMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		// Freeze pacing while the dialog is up.
		s.controller.CancelAutoAdvance()
		s.showingQuitConfirm = true
		return s, nil
	}

	if s.turn == nil {
		return s, nil
	}

	// Feedback overlay: r replays the word, anything else moves on.
	if s.showingFeedback {
		if key == "r" && s.canReplay() {
			return s, s.playAudio(s.turn.Word.Lithuanian)
		}
		return s, s.advance()
	}

	switch s.turn.Kind {
	case engine.KindNewWord, engine.KindGrammarBreak, engine.KindMotivationalBreak:
		if key == "r" && s.canReplay() {
			return s, s.playAudio(s.turn.Word.Lithuanian)
		}
		return s, s.advance()

	case engine.KindMultipleChoice, engine.KindListeningEasy, engine.KindListeningHard:
		return s.handleChoiceKey(msg)

	case engine.KindTyping:
		if key == "enter" {
			return s.submitTyping()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *JourneyScreen) handleChoiceKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Replay on listening turns. The r key is safely outside the
	// option letter range.
	if key == "r" && s.turn.Kind != engine.KindMultipleChoice && s.canReplay() {
		return s, s.playAudio(s.turn.Word.Lithuanian)
	}

	// Letter shortcuts jump straight to an option and submit.
	if len(key) == 1 && key[0] >= 'a' && key[0] < 'a'+byte(len(s.mc.Options)) && key != "j" && key != "k" {
		s.mc.Selected = int(key[0] - 'a')
		s.mc.Submitted = true
		s.mc.ChosenIndex = s.mc.Selected
		return s, s.grade(s.mc.IsCorrect())
	}

	s.mc, _ = s.mc.Update(msg)
	if s.mc.Submitted {
		return s, s.grade(s.mc.IsCorrect())
	}
	return s, nil
}

// setupChoices builds the option set for the current turn. side picks
// which half of the word pair the distractors come from.
func (s *JourneyScreen) setupChoices(question string, side engine.ChoiceSide) {
	if s.turn == nil || s.turn.Word == nil {
		return
	}
	choices := engine.BuildChoices(s.rng, *s.turn.Word, s.words, s.choiceCount(), side)

	answer := s.turn.Word.English
	if side == engine.SideLithuanian {
		answer = s.turn.Word.Lithuanian
	}
	correctIdx := 0
	for i, c := range choices {
		if c == answer {
			correctIdx = i
			break
		}
	}

	s.mc = components.NewMultiChoice(question, choices, correctIdx)
	s.mcActive = true
}

func (s *JourneyScreen) choiceCount() int {
	if n := s.cfg.Journey.ChoiceCount; n >= 2 {
		return n
	}
	return engine.DefaultChoiceCount
}

func (s *JourneyScreen) submitTyping() (screen.Screen, tea.Cmd) {
	if s.turn == nil || s.turn.Word == nil {
		return s, nil
	}
	typed := strings.TrimSpace(s.input.Value())
	if typed == "" {
		return s, nil
	}
	correct := strings.EqualFold(typed, strings.TrimSpace(s.turn.Word.Lithuanian))
	s.input.Submit(correct)
	return s, s.grade(correct)
}

// grade records the outcome and switches to the feedback overlay. The
// controller schedules the auto-advance; the resulting turn arrives as
// a turnMsg.
func (s *JourneyScreen) grade(correct bool) tea.Cmd {
	if s.turn == nil || s.turn.Word == nil {
		return nil
	}
	s.lastStats = s.controller.RecordOutcome(*s.turn.Word, s.turn.Kind, correct)
	s.lastCorrect = correct
	s.showingFeedback = true
	s.answered++
	if correct {
		s.correct++
	}
	return nil
}

func (s *JourneyScreen) endSession() (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	s.ended = true
	close(s.done)
	s.controller.Close()

	sum := summary.Summary{
		Answered: s.answered,
		Correct:  s.correct,
		Duration: time.Since(s.started),
		NewWords: s.newWords,
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

// advance asks the controller for the next turn off the update loop.
// The turn comes back through the channel, the same path the
// auto-advance timer uses.
func (s *JourneyScreen) advance() tea.Cmd {
	return func() tea.Msg {
		s.controller.Advance()
		return nil
	}
}

func (s *JourneyScreen) waitForTurn() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-s.turns:
			return turnMsg{Turn: t}
		case <-s.done:
			return nil
		}
	}
}

// playAudio plays the word's pronunciation off the update loop.
func (s *JourneyScreen) playAudio(word string) tea.Cmd {
	vm := s.voice
	return func() tea.Msg {
		return audioDoneMsg{Err: vm.Play(context.Background(), word)}
	}
}

func (s *JourneyScreen) canReplay() bool {
	return s.voice != nil && s.voice.Enabled() && s.turn != nil && s.turn.Word != nil && s.voice.Has(s.turn.Word.Lithuanian)
}

func (s *JourneyScreen) typingActive() bool {
	return s.turn != nil && s.turn.Kind == engine.KindTyping &&
		!s.showingFeedback && !s.showingQuitConfirm && !s.ended
}

// nextTip hands out a waiting personalized tip, or an embedded one
// when generation has not caught up, and immediately starts the next
// request so later breaks stay fresh.
func (s *JourneyScreen) nextTip() coach.Tip {
	if s.coach == nil {
		return coach.StaticGrammarTip()
	}
	tip, ok := s.coach.ConsumeTip()
	s.requestTip()
	if !ok {
		return coach.StaticGrammarTip()
	}
	return *tip
}

func (s *JourneyScreen) requestTip() {
	if s.coach == nil {
		return
	}
	words := s.newWords
	if len(words) > 8 {
		words = words[len(words)-8:]
	}
	accuracy := 0.0
	if s.answered > 0 {
		accuracy = float64(s.correct) / float64(s.answered)
	}
	s.coach.RequestTip(context.Background(), coach.TipInput{Words: words, Accuracy: accuracy})
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
