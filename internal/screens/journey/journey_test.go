package journey

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/trakaido/trakaido/internal/config"
	engine "github.com/trakaido/trakaido/internal/journey"
	"github.com/trakaido/trakaido/internal/router"
	"github.com/trakaido/trakaido/internal/screen"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/vocab"
	"github.com/trakaido/trakaido/internal/voice"

	"github.com/sirupsen/logrus"
)

// fakeTracker implements engine.Tracker for testing.
type fakeTracker struct {
	exposed []string
	records []string
}

func (f *fakeTracker) Get(_ string) stats.WordStats { return stats.WordStats{} }

func (f *fakeTracker) Record(_ context.Context, key string, _ stats.Activity, _ bool) stats.WordStats {
	f.records = append(f.records, key)
	return stats.WordStats{Exposed: true}
}

func (f *fakeTracker) MarkExposed(_ context.Context, key string) stats.WordStats {
	f.exposed = append(f.exposed, key)
	return stats.WordStats{Exposed: true}
}

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	answerEvents  []store.AnswerEventData
	sessionEvents []store.SessionEventData
}

func (m *mockEventRepo) AppendAnswer(_ context.Context, data store.AnswerEventData) error {
	m.answerEvents = append(m.answerEvents, data)
	return nil
}
func (m *mockEventRepo) RecentAnswers(_ context.Context, _ int) ([]store.AnswerEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) AccuracyByActivity(_ context.Context) ([]store.ActivityAccuracy, error) {
	return nil, nil
}
func (m *mockEventRepo) AppendSession(_ context.Context, data store.SessionEventData) error {
	m.sessionEvents = append(m.sessionEvents, data)
	return nil
}
func (m *mockEventRepo) LastSession(_ context.Context) (*store.SessionEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) PracticeDays(_ context.Context) ([]time.Time, error) {
	return nil, nil
}
func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) RecentLLMRequests(_ context.Context, _ int) ([]store.LLMRequestEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMRequestByID(_ context.Context, _ int64) (*store.LLMRequestEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsage(_ context.Context) (*store.LLMUsageSummary, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByModel(_ context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByPurpose(_ context.Context) ([]store.LLMPurposeUsage, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testWords() []vocab.Word {
	return []vocab.Word{
		{Lithuanian: "katė", English: "cat", Corpus: "nouns_one", Group: "Animals"},
		{Lithuanian: "šuo", English: "dog", Corpus: "nouns_one", Group: "Animals"},
		{Lithuanian: "ranka", English: "hand", Corpus: "nouns_one", Group: "Body"},
		{Lithuanian: "galva", English: "head", Corpus: "nouns_one", Group: "Body"},
		{Lithuanian: "duona", English: "bread", Corpus: "nouns_one", Group: "Food"},
	}
}

func testJourneyScreen(t *testing.T) (*JourneyScreen, *fakeTracker, *mockEventRepo) {
	t.Helper()

	tracker := &fakeTracker{}
	events := &mockEventRepo{}
	cfg := &config.Config{
		Journey: config.JourneyConfig{ChoiceCount: 4},
	}
	log := logrus.New()
	vm := voice.NewManager(t.TempDir(), false, "", log)

	s := New(testWords(), tracker, events, cfg, vm, nil, log)
	return s, tracker, events
}

// installTurn feeds a turn straight into the screen, bypassing the
// controller's goroutines.
func installTurn(s *JourneyScreen, kind engine.ActivityKind, word *vocab.Word) {
	s.handleTurn(turnMsg{Turn: engine.Turn{Kind: kind, Word: word}})
}

func TestJourneyScreen_Title(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	if s.Title() != "Journey" {
		t.Errorf("Title = %q, want %q", s.Title(), "Journey")
	}
}

func TestJourneyScreen_View_Loading(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	view := s.View(80, 24)
	if view == "" {
		t.Error("expected non-empty view before the first turn")
	}
}

func TestJourneyScreen_View_AllKinds(t *testing.T) {
	word := &vocab.Word{Lithuanian: "katė", English: "cat", Group: "Animals"}
	kinds := []engine.ActivityKind{
		engine.KindNewWord,
		engine.KindMultipleChoice,
		engine.KindListeningEasy,
		engine.KindListeningHard,
		engine.KindTyping,
		engine.KindGrammarBreak,
		engine.KindMotivationalBreak,
	}
	for _, kind := range kinds {
		s, _, _ := testJourneyScreen(t)
		installTurn(s, kind, word)
		if view := s.View(80, 24); view == "" {
			t.Errorf("kind %v: expected non-empty view", kind)
		}
	}
}

func TestJourneyScreen_QuitConfirm(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	installTurn(s, engine.KindMultipleChoice, &testWords()[0])

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	js := scr.(*JourneyScreen)
	if !js.showingQuitConfirm {
		t.Error("expected quit confirmation dialog")
	}

	scr, _ = js.Update(keyPress('n'))
	js = scr.(*JourneyScreen)
	if js.showingQuitConfirm {
		t.Error("expected quit confirmation to be dismissed")
	}
}

func TestJourneyScreen_QuitConfirm_YesEndsSession(t *testing.T) {
	s, _, events := testJourneyScreen(t)
	installTurn(s, engine.KindMultipleChoice, &testWords()[0])

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	scr, cmd := scr.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after quit confirmation")
	}

	// The command triggers the end flow; feed its message back.
	msg := cmd()
	if _, ok := msg.(endSessionMsg); !ok {
		t.Fatalf("msg = %T, want endSessionMsg", msg)
	}
	_, cmd = scr.Update(msg)
	if cmd == nil {
		t.Fatal("expected a navigation command after session end")
	}
	nav := cmd()
	if _, ok := nav.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("nav = %T, want router.ReplaceScreenMsg", nav)
	}

	// Session end event is persisted on close.
	var ended bool
	for _, ev := range events.sessionEvents {
		if ev.Action == store.SessionEnded {
			ended = true
		}
	}
	if !ended {
		t.Error("expected a session ended event")
	}
}

func TestJourneyScreen_ChoiceSubmit_Correct(t *testing.T) {
	s, tracker, events := testJourneyScreen(t)
	word := testWords()[0]
	installTurn(s, engine.KindMultipleChoice, &word)

	if !s.mcActive {
		t.Fatal("expected multiple choice to be active")
	}
	s.mc.Selected = s.mc.CorrectIndex

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	js := scr.(*JourneyScreen)

	if !js.showingFeedback {
		t.Error("expected feedback after submit")
	}
	if !js.lastCorrect {
		t.Error("expected a correct answer")
	}
	if len(tracker.records) != 1 || tracker.records[0] != "katė-cat" {
		t.Errorf("tracker records = %v, want [katė-cat]", tracker.records)
	}
	if len(events.answerEvents) != 1 || !events.answerEvents[0].Correct {
		t.Errorf("answer events = %+v, want one correct event", events.answerEvents)
	}
}

func TestJourneyScreen_ChoiceSubmit_Wrong(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	word := testWords()[0]
	installTurn(s, engine.KindMultipleChoice, &word)

	s.mc.Selected = (s.mc.CorrectIndex + 1) % len(s.mc.Options)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	js := scr.(*JourneyScreen)

	if js.lastCorrect {
		t.Error("expected a wrong answer")
	}
	if !js.showingFeedback {
		t.Error("expected feedback after submit")
	}
}

func TestJourneyScreen_ChoiceLetterShortcut(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	word := testWords()[0]
	installTurn(s, engine.KindMultipleChoice, &word)

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress(rune('a' + s.mc.CorrectIndex)))
	js := scr.(*JourneyScreen)

	if !js.showingFeedback {
		t.Error("expected feedback after a letter shortcut")
	}
	if !js.lastCorrect {
		t.Error("expected the shortcut to pick the correct option")
	}
}

func TestJourneyScreen_TypingSubmit(t *testing.T) {
	tests := []struct {
		name    string
		typed   string
		correct bool
	}{
		{"exact", "katė", true},
		{"case and whitespace", "  KATĖ ", true},
		{"wrong word", "šuo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := testJourneyScreen(t)
			word := testWords()[0]
			installTurn(s, engine.KindTyping, &word)

			s.input.Model.SetValue(tt.typed)

			var scr screen.Screen = s
			scr, _ = scr.Update(specialKey(tea.KeyEnter))
			js := scr.(*JourneyScreen)

			if !js.showingFeedback {
				t.Fatal("expected feedback after submit")
			}
			if js.lastCorrect != tt.correct {
				t.Errorf("lastCorrect = %v, want %v", js.lastCorrect, tt.correct)
			}
		})
	}
}

func TestJourneyScreen_TypingEmptySubmitIgnored(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	word := testWords()[0]
	installTurn(s, engine.KindTyping, &word)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	js := scr.(*JourneyScreen)

	if js.showingFeedback {
		t.Error("expected empty submit to be ignored")
	}
}

func TestJourneyScreen_FeedbackDismissAdvances(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	word := testWords()[0]
	installTurn(s, engine.KindMultipleChoice, &word)
	s.mc.Selected = s.mc.CorrectIndex
	s.Update(specialKey(tea.KeyEnter))

	_, cmd := s.Update(keyPress(' '))
	if cmd == nil {
		t.Fatal("expected an advance command after feedback dismiss")
	}

	// Running the command drives the controller; the next turn lands
	// in the channel.
	cmd()
	select {
	case <-s.turns:
	default:
		t.Error("expected the next turn to be published")
	}
}

func TestJourneyScreen_NewWordRecordsIntroduction(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	word := testWords()[2]
	installTurn(s, engine.KindNewWord, &word)

	if len(s.newWords) != 1 || s.newWords[0] != "ranka" {
		t.Errorf("newWords = %v, want [ranka]", s.newWords)
	}
}

func TestJourneyScreen_BreaksNeverGrade(t *testing.T) {
	s, tracker, _ := testJourneyScreen(t)
	installTurn(s, engine.KindGrammarBreak, nil)

	if s.tip.Text == "" {
		t.Error("expected an embedded tip when no coach is wired")
	}

	// Dismissing a break advances without recording anything.
	_, cmd := s.Update(keyPress(' '))
	if cmd == nil {
		t.Fatal("expected an advance command")
	}
	if len(tracker.records) != 0 {
		t.Errorf("records = %v, want none", tracker.records)
	}

	installTurn(s, engine.KindMotivationalBreak, nil)
	if s.motivation == "" {
		t.Error("expected a motivation line")
	}
}

func TestJourneyScreen_KeyHints(t *testing.T) {
	s, _, _ := testJourneyScreen(t)
	word := testWords()[0]

	installTurn(s, engine.KindTyping, &word)
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints for typing")
	}

	s.showingQuitConfirm = true
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("quit confirm hints = %d, want 2", len(hints))
	}
}
