package journey

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/vocab"
)

// fakeEvents captures appended events; queries return nothing.
type fakeEvents struct {
	answers   []store.AnswerEventData
	sessions  []store.SessionEventData
	answerErr error
}

func (f *fakeEvents) AppendAnswer(ctx context.Context, d store.AnswerEventData) error {
	if f.answerErr != nil {
		return f.answerErr
	}
	f.answers = append(f.answers, d)
	return nil
}

func (f *fakeEvents) RecentAnswers(ctx context.Context, limit int) ([]store.AnswerEvent, error) {
	return nil, nil
}

func (f *fakeEvents) AccuracyByActivity(ctx context.Context) ([]store.ActivityAccuracy, error) {
	return nil, nil
}

func (f *fakeEvents) AppendSession(ctx context.Context, d store.SessionEventData) error {
	f.sessions = append(f.sessions, d)
	return nil
}

func (f *fakeEvents) LastSession(ctx context.Context) (*store.SessionEvent, error) {
	return nil, nil
}

func (f *fakeEvents) PracticeDays(ctx context.Context) ([]time.Time, error) {
	return nil, nil
}

func (f *fakeEvents) AppendLLMRequest(ctx context.Context, d store.LLMRequestEventData) error {
	return nil
}

func (f *fakeEvents) RecentLLMRequests(ctx context.Context, limit int) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (f *fakeEvents) LLMRequestByID(ctx context.Context, id int64) (*store.LLMRequestEvent, error) {
	return nil, nil
}

func (f *fakeEvents) LLMUsage(ctx context.Context) (*store.LLMUsageSummary, error) {
	return nil, nil
}

func (f *fakeEvents) LLMUsageByModel(ctx context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}

func (f *fakeEvents) LLMUsageByPurpose(ctx context.Context) ([]store.LLMPurposeUsage, error) {
	return nil, nil
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMemTracker(t *testing.T) *stats.Tracker {
	t.Helper()
	tr := stats.NewTracker(nil, quietLog())
	tr.Initialize(context.Background())
	return tr
}

func TestKateCatScenario(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)

	var published []Turn
	c := NewController(Config{
		Words:   []vocab.Word{kate},
		Tracker: tracker,
		Rand:    extremeRand{float: 0.5},
		Log:     quietLog(),
		OnTurn:  func(turn Turn) { published = append(published, turn) },
	})

	// Empty stats: the cold-start guard forces a new-word introduction.
	first := c.Advance()
	if first.Kind != KindNewWord {
		t.Fatalf("first kind = %v, want NewWord", first.Kind)
	}
	if first.Word == nil || first.Word.Key() != "katė-cat" {
		t.Fatalf("first word = %v, want katė/cat", first.Word)
	}

	// The introduction marked the word exposed without grading anything.
	got := tracker.Get("katė-cat")
	if !got.Exposed {
		t.Fatal("word not exposed after new-word turn")
	}
	if got.TotalAnswers() != 0 {
		t.Errorf("total answers = %d, want 0", got.TotalAnswers())
	}

	// Second turn: no fresh words remain and the exposed word has zero
	// corrects, so the early tier yields multiple choice with audio off.
	second := c.Advance()
	if second.Kind != KindMultipleChoice {
		t.Errorf("second kind = %v, want MultipleChoice", second.Kind)
	}
	if second.Word == nil || second.Word.Key() != "katė-cat" {
		t.Errorf("second word = %v, want katė/cat", second.Word)
	}

	if len(published) != 2 {
		t.Errorf("published turns = %d, want 2", len(published))
	}
}

func TestKateCatSecondTurnWithAudio(t *testing.T) {
	kate := word("katė", "cat")

	tests := []struct {
		coin float64
		want ActivityKind
	}{
		{0.4, KindMultipleChoice},
		{0.6, KindListeningEasy},
	}
	for _, tt := range tests {
		tracker := newMemTracker(t)
		c := NewController(Config{
			Words:        []vocab.Word{kate},
			Tracker:      tracker,
			Rand:         extremeRand{float: tt.coin},
			Log:          quietLog(),
			AudioEnabled: true,
		})

		c.Advance()
		if got := c.Advance().Kind; got != tt.want {
			t.Errorf("coin %v: second kind = %v, want %v", tt.coin, got, tt.want)
		}
	}
}

func TestNewWordCannotRepeatAsNew(t *testing.T) {
	words := wordSet("naujas", 2)
	tracker := newMemTracker(t)
	c := NewController(Config{
		Words:   words,
		Tracker: tracker,
		Rand:    extremeRand{float: 0.5, pick: 0},
		Log:     quietLog(),
	})

	first := c.Advance()
	second := c.Advance()

	if first.Kind != KindNewWord || second.Kind != KindNewWord {
		t.Fatalf("kinds = %v/%v, want NewWord twice during cold start", first.Kind, second.Kind)
	}
	if first.Word.Key() == second.Word.Key() {
		t.Errorf("word %s introduced twice", first.Word.Key())
	}
}

func TestRecordOutcomeUpdatesTrackerAndEvents(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	events := &fakeEvents{}
	c := NewController(Config{
		Words:   []vocab.Word{kate},
		Tracker: tracker,
		Events:  events,
		Rand:    extremeRand{float: 0.5},
		Log:     quietLog(),
	})

	updated := c.RecordOutcome(kate, KindMultipleChoice, true)
	if updated.MultipleChoice.Correct != 1 {
		t.Errorf("correct = %d, want 1", updated.MultipleChoice.Correct)
	}

	if len(events.answers) != 1 {
		t.Fatalf("answer events = %d, want 1", len(events.answers))
	}
	ev := events.answers[0]
	if ev.SessionID != c.SessionID() {
		t.Errorf("event session = %q, want %q", ev.SessionID, c.SessionID())
	}
	if ev.WordKey != "katė-cat" || ev.Activity != "multipleChoice" || !ev.Correct {
		t.Errorf("event = %+v", ev)
	}
}

func TestBreaksAndIntroductionsAreNotGraded(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	events := &fakeEvents{}
	c := NewController(Config{
		Words:       []vocab.Word{kate},
		Tracker:     tracker,
		Events:      events,
		Rand:        extremeRand{float: 0.5},
		Log:         quietLog(),
		AutoAdvance: true,
	})

	scheduled := 0
	c.schedule = func(d time.Duration, fn func()) func() {
		scheduled++
		return func() {}
	}

	for _, kind := range []ActivityKind{KindNewWord, KindMotivationalBreak, KindGrammarBreak} {
		c.RecordOutcome(kate, kind, true)
	}

	if got := tracker.Get("katė-cat").TotalAnswers(); got != 0 {
		t.Errorf("answers recorded for ungradeable kinds: %d", got)
	}
	if len(events.answers) != 0 {
		t.Errorf("answer events = %d, want 0", len(events.answers))
	}
	if scheduled != 0 {
		t.Errorf("auto-advance scheduled %d times for ungradeable kinds", scheduled)
	}
}

func TestAutoAdvanceSchedulesAndFires(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	tracker.MarkExposed(context.Background(), "katė-cat")

	var published []Turn
	c := NewController(Config{
		Words:            []vocab.Word{kate},
		Tracker:          tracker,
		Rand:             extremeRand{float: 0.5},
		Log:              quietLog(),
		AutoAdvance:      true,
		AutoAdvanceDelay: 42 * time.Millisecond,
		OnTurn:           func(turn Turn) { published = append(published, turn) },
	})

	var pending func()
	var gotDelay time.Duration
	c.schedule = func(d time.Duration, fn func()) func() {
		gotDelay = d
		pending = fn
		return func() { pending = nil }
	}

	c.Advance()
	c.RecordOutcome(kate, KindMultipleChoice, true)

	if pending == nil {
		t.Fatal("no auto-advance scheduled after graded answer")
	}
	if gotDelay != 42*time.Millisecond {
		t.Errorf("delay = %v, want 42ms", gotDelay)
	}

	before := len(published)
	pending()
	if len(published) != before+1 {
		t.Errorf("published = %d after timer fired, want %d", len(published), before+1)
	}
}

func TestManualAdvanceCancelsPendingAutoAdvance(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	tracker.MarkExposed(context.Background(), "katė-cat")

	c := NewController(Config{
		Words:       []vocab.Word{kate},
		Tracker:     tracker,
		Rand:        extremeRand{float: 0.5},
		Log:         quietLog(),
		AutoAdvance: true,
	})

	cancels := 0
	c.schedule = func(d time.Duration, fn func()) func() {
		return func() { cancels++ }
	}

	c.Advance()
	c.RecordOutcome(kate, KindMultipleChoice, true)
	c.Advance() // manual next

	if cancels != 1 {
		t.Errorf("cancels = %d, want 1", cancels)
	}
}

func TestRescheduleReplacesPendingTimer(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	tracker.MarkExposed(context.Background(), "katė-cat")

	c := NewController(Config{
		Words:       []vocab.Word{kate},
		Tracker:     tracker,
		Rand:        extremeRand{float: 0.5},
		Log:         quietLog(),
		AutoAdvance: true,
	})

	cancels, schedules := 0, 0
	c.schedule = func(d time.Duration, fn func()) func() {
		schedules++
		return func() { cancels++ }
	}

	c.RecordOutcome(kate, KindMultipleChoice, true)
	c.RecordOutcome(kate, KindMultipleChoice, false)

	if schedules != 2 {
		t.Errorf("schedules = %d, want 2", schedules)
	}
	if cancels != 1 {
		t.Errorf("cancels = %d, want 1 (first timer replaced)", cancels)
	}
}

func TestCancelAutoAdvanceIsNoOpSafe(t *testing.T) {
	kate := word("katė", "cat")
	c := NewController(Config{
		Words:   []vocab.Word{kate},
		Tracker: newMemTracker(t),
		Rand:    extremeRand{float: 0.5},
		Log:     quietLog(),
	})

	// Nothing pending: must not panic or error.
	c.CancelAutoAdvance()
	c.CancelAutoAdvance()
}

func TestCloseRecordsSessionSummary(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	events := &fakeEvents{}
	c := NewController(Config{
		Words:   []vocab.Word{kate},
		Tracker: tracker,
		Events:  events,
		Rand:    extremeRand{float: 0.5},
		Log:     quietLog(),
	})

	start := time.Unix(1719244800, 0)
	c.started = start
	c.now = func() time.Time { return start.Add(75 * time.Second) }

	c.Advance()
	c.Advance()
	c.Advance()
	c.RecordOutcome(kate, KindMultipleChoice, true)
	c.RecordOutcome(kate, KindMultipleChoice, true)
	c.RecordOutcome(kate, KindMultipleChoice, false)

	c.Close()
	c.Close() // second close is a no-op

	if len(events.sessions) != 2 {
		t.Fatalf("session events = %d, want 2 (started + ended)", len(events.sessions))
	}
	if events.sessions[0].Action != store.SessionStarted {
		t.Errorf("first action = %q, want started", events.sessions[0].Action)
	}
	end := events.sessions[1]
	if end.Action != store.SessionEnded {
		t.Errorf("second action = %q, want ended", end.Action)
	}
	if end.Turns != 3 || end.Correct != 2 {
		t.Errorf("summary = %d turns / %d correct, want 3/2", end.Turns, end.Correct)
	}
	if end.DurationSecs != 75 {
		t.Errorf("duration = %ds, want 75", end.DurationSecs)
	}
	if end.SessionID != c.SessionID() {
		t.Errorf("session id = %q, want %q", end.SessionID, c.SessionID())
	}
}

func TestClosedControllerIsInert(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)

	var published []Turn
	c := NewController(Config{
		Words:   []vocab.Word{kate},
		Tracker: tracker,
		Rand:    extremeRand{float: 0.5},
		Log:     quietLog(),
		OnTurn:  func(turn Turn) { published = append(published, turn) },
	})

	c.Close()

	if got := c.Advance(); got.Kind != KindGrammarBreak {
		t.Errorf("advance after close = %v, want GrammarBreak", got.Kind)
	}
	if len(published) != 0 {
		t.Errorf("published after close = %d, want 0", len(published))
	}

	c.RecordOutcome(kate, KindMultipleChoice, true)
	if got := tracker.Get("katė-cat").TotalAnswers(); got != 0 {
		t.Errorf("answers recorded after close: %d", got)
	}
}

func TestAnswerEventFailureDoesNotInterrupt(t *testing.T) {
	kate := word("katė", "cat")
	tracker := newMemTracker(t)
	events := &fakeEvents{answerErr: errors.New("db locked")}
	c := NewController(Config{
		Words:   []vocab.Word{kate},
		Tracker: tracker,
		Events:  events,
		Rand:    extremeRand{float: 0.5},
		Log:     quietLog(),
	})

	updated := c.RecordOutcome(kate, KindMultipleChoice, true)
	if updated.MultipleChoice.Correct != 1 {
		t.Errorf("tracker update lost on event failure: %+v", updated)
	}
}
