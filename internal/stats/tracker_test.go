package stats

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trakaido/trakaido/internal/store"
)

// fakeRepo implements store.JourneyStatsRepo in memory and counts calls.
type fakeRepo struct {
	mu          sync.Mutex
	data        map[string]*store.WordStatsData
	latestCalls int
	saveCalls   int
	clearCalls  int
	latestErr   error
	saveErr     error
}

func (f *fakeRepo) Save(ctx context.Context, stats map[string]*store.WordStatsData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data = stats
	return nil
}

func (f *fakeRepo) Latest(ctx context.Context) (map[string]*store.WordStatsData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.data, nil
}

func (f *fakeRepo) Prune(ctx context.Context, keep int) error { return nil }

func (f *fakeRepo) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	f.data = nil
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestTracker(repo *fakeRepo) *Tracker {
	tr := NewTracker(repo, quietLogger())
	tr.now = func() time.Time { return time.Unix(1719244800, 0) }
	return tr
}

func TestInitializeIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	tr := newTestTracker(repo)
	ctx := context.Background()

	tr.Initialize(ctx)
	tr.Initialize(ctx)

	if repo.latestCalls != 1 {
		t.Errorf("latest calls = %d, want 1", repo.latestCalls)
	}
}

func TestInitializeLoadFailureStartsEmpty(t *testing.T) {
	repo := &fakeRepo{latestErr: errors.New("disk on fire")}
	tr := newTestTracker(repo)
	ctx := context.Background()

	tr.Initialize(ctx)

	if got := tr.Get("katė-cat"); got.TotalAnswers() != 0 {
		t.Errorf("stats after failed load = %+v, want zero", got)
	}

	// A failed load is not retried.
	tr.Initialize(ctx)
	if repo.latestCalls != 1 {
		t.Errorf("latest calls = %d, want 1", repo.latestCalls)
	}
}

func TestInitializeLoadsPersistedStats(t *testing.T) {
	seen := int64(1719244800000)
	repo := &fakeRepo{data: map[string]*store.WordStatsData{
		"katė-cat": {
			Exposed:        true,
			MultipleChoice: store.CountData{Correct: 3, Incorrect: 1},
			LastSeen:       &seen,
		},
	}}
	tr := newTestTracker(repo)
	tr.Initialize(context.Background())

	got := tr.Get("katė-cat")
	if !got.Exposed {
		t.Error("exposed = false, want true")
	}
	if got.MultipleChoice != (Counter{Correct: 3, Incorrect: 1}) {
		t.Errorf("multipleChoice = %+v, want {3 1}", got.MultipleChoice)
	}
	if got.LastSeen == nil || got.LastSeen.UnixMilli() != seen {
		t.Errorf("lastSeen = %v, want %d", got.LastSeen, seen)
	}
}

func TestGetUnknownWordIsZeroAndDoesNotCreate(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	tr.Initialize(context.Background())

	got := tr.Get("nėra-absent")
	if got.Exposed || got.TotalAnswers() != 0 || got.LastSeen != nil {
		t.Errorf("unknown word stats = %+v, want zero value", got)
	}
	if n := len(tr.Snapshot()); n != 0 {
		t.Errorf("snapshot size after Get = %d, want 0", n)
	}
}

func TestRecordIncrementsAndStampsLastSeen(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	got := tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)

	if got.MultipleChoice != (Counter{Correct: 1, Incorrect: 0}) {
		t.Errorf("multipleChoice = %+v, want {1 0}", got.MultipleChoice)
	}
	if !got.Exposed {
		t.Error("exposed = false after correct answer, want true")
	}
	if got.LastSeen == nil || got.LastSeen.Unix() != 1719244800 {
		t.Errorf("lastSeen = %v, want fixed clock value", got.LastSeen)
	}

	// Other activities untouched.
	if got.Typing.Total() != 0 || got.ListeningEasy.Total() != 0 || got.ListeningHard.Total() != 0 {
		t.Errorf("unexpected counts on other activities: %+v", got)
	}
}

func TestIncorrectAnswerNeverExposes(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	got := tr.Record(ctx, "šuo-dog", ActivityTyping, false)
	if got.Exposed {
		t.Fatal("exposed = true after incorrect answer, want false")
	}
	if got.Typing != (Counter{Correct: 0, Incorrect: 1}) {
		t.Errorf("typing = %+v, want {0 1}", got.Typing)
	}

	// A correct answer exposes, and later mistakes don't un-expose.
	got = tr.Record(ctx, "šuo-dog", ActivityTyping, true)
	if !got.Exposed {
		t.Fatal("exposed = false after correct answer, want true")
	}
	got = tr.Record(ctx, "šuo-dog", ActivityTyping, false)
	if !got.Exposed {
		t.Error("exposed flag regressed after incorrect answer")
	}
}

func TestCountersNeverDecrease(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	prevCorrect, prevIncorrect := 0, 0
	outcomes := []bool{true, false, true, true, false, true, false, false, true}
	for i, correct := range outcomes {
		got := tr.Record(ctx, "duona-bread", ActivityMultipleChoice, correct)
		if got.TotalCorrect() < prevCorrect || got.TotalIncorrect() < prevIncorrect {
			t.Fatalf("counters decreased at step %d: %+v", i, got)
		}
		prevCorrect, prevIncorrect = got.TotalCorrect(), got.TotalIncorrect()
	}
	final := tr.Get("duona-bread")
	if final.MultipleChoice != (Counter{Correct: 5, Incorrect: 4}) {
		t.Errorf("multipleChoice = %+v, want {5 4}", final.MultipleChoice)
	}
}

func TestRecordUnknownActivityIgnored(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	got := tr.Record(ctx, "katė-cat", Activity("juggling"), true)
	if got.TotalAnswers() != 0 {
		t.Errorf("total answers = %d, want 0", got.TotalAnswers())
	}
	if got.Exposed {
		t.Error("exposed = true, want false")
	}
}

func TestMarkExposed(t *testing.T) {
	repo := &fakeRepo{}
	tr := newTestTracker(repo)
	ctx := context.Background()
	tr.Initialize(ctx)

	got := tr.MarkExposed(ctx, "katė-cat")
	if !got.Exposed {
		t.Fatal("exposed = false, want true")
	}
	if got.TotalAnswers() != 0 {
		t.Errorf("total answers = %d, want 0", got.TotalAnswers())
	}
	if got.LastSeen != nil {
		t.Errorf("lastSeen = %v, want nil before first answer", got.LastSeen)
	}

	// Marking again is a no-op and skips the store write.
	saves := repo.saveCalls
	tr.MarkExposed(ctx, "katė-cat")
	if repo.saveCalls != saves {
		t.Errorf("save calls = %d, want %d", repo.saveCalls, saves)
	}
}

func TestListenersNotifiedInRegistrationOrder(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	var order []string
	tr.AddListener(func(u Update) { order = append(order, "first") })
	tr.AddListener(func(u Update) { order = append(order, "second") })

	var got Update
	tr.AddListener(func(u Update) { got = u })

	tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("notification order = %v, want [first second]", order)
	}
	if got.WordKey != "katė-cat" {
		t.Errorf("update word key = %q, want katė-cat", got.WordKey)
	}
	if got.Activity != ActivityMultipleChoice || !got.Correct {
		t.Errorf("update = %+v, want multipleChoice correct", got)
	}
	if got.Stats.MultipleChoice.Correct != 1 {
		t.Errorf("update stats = %+v, want 1 correct", got.Stats)
	}
	if all, ok := got.All["katė-cat"]; !ok || all.MultipleChoice.Correct != 1 {
		t.Errorf("update full mapping = %+v, want katė-cat with 1 correct", got.All)
	}
}

func TestRemoveListenerStopsDelivery(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	calls := 0
	id := tr.AddListener(func(u Update) { calls++ })

	tr.Record(ctx, "katė-cat", ActivityTyping, true)
	tr.RemoveListener(id)
	tr.Record(ctx, "katė-cat", ActivityTyping, true)

	if calls != 1 {
		t.Errorf("listener calls = %d, want 1", calls)
	}
}

func TestPanickingListenerIsolated(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	secondRan := false
	tr.AddListener(func(u Update) { panic("listener bug") })
	tr.AddListener(func(u Update) { secondRan = true })

	tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)

	if !secondRan {
		t.Error("listener after panicking one was not invoked")
	}

	// The tracker itself stays usable.
	if got := tr.Get("katė-cat"); got.MultipleChoice.Correct != 1 {
		t.Errorf("stats after panic = %+v, want 1 correct", got)
	}
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("no space left")}
	tr := newTestTracker(repo)
	ctx := context.Background()
	tr.Initialize(ctx)

	notified := false
	tr.AddListener(func(u Update) { notified = true })

	got := tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)
	if got.MultipleChoice.Correct != 1 {
		t.Errorf("in-memory count = %d, want 1", got.MultipleChoice.Correct)
	}
	if !notified {
		t.Error("listeners skipped on save failure")
	}
}

func TestRecordPersistsFullMapping(t *testing.T) {
	repo := &fakeRepo{}
	tr := newTestTracker(repo)
	ctx := context.Background()
	tr.Initialize(ctx)

	tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)
	tr.Record(ctx, "šuo-dog", ActivityTyping, false)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.data) != 2 {
		t.Fatalf("persisted words = %d, want 2", len(repo.data))
	}
	cat := repo.data["katė-cat"]
	if cat == nil || !cat.Exposed || cat.MultipleChoice.Correct != 1 {
		t.Errorf("persisted katė-cat = %+v", cat)
	}
	dog := repo.data["šuo-dog"]
	if dog == nil || dog.Exposed || dog.Typing.Incorrect != 1 {
		t.Errorf("persisted šuo-dog = %+v", dog)
	}
}

func TestPersistedStatsRoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	ctx := context.Background()

	first := newTestTracker(repo)
	first.Initialize(ctx)
	first.Record(ctx, "katė-cat", ActivityMultipleChoice, true)
	first.Record(ctx, "katė-cat", ActivityListeningHard, false)
	first.MarkExposed(ctx, "duona-bread")

	second := newTestTracker(repo)
	second.Initialize(ctx)

	for _, key := range []string{"katė-cat", "duona-bread"} {
		a, b := first.Get(key), second.Get(key)
		if a.Exposed != b.Exposed {
			t.Errorf("%s exposed mismatch: %v vs %v", key, a.Exposed, b.Exposed)
		}
		if a.MultipleChoice != b.MultipleChoice || a.ListeningEasy != b.ListeningEasy ||
			a.ListeningHard != b.ListeningHard || a.Typing != b.Typing {
			t.Errorf("%s counters mismatch:\nfirst:  %+v\nsecond: %+v", key, a, b)
		}
		switch {
		case a.LastSeen == nil && b.LastSeen == nil:
		case a.LastSeen == nil || b.LastSeen == nil:
			t.Errorf("%s lastSeen mismatch: %v vs %v", key, a.LastSeen, b.LastSeen)
		case a.LastSeen.UnixMilli() != b.LastSeen.UnixMilli():
			t.Errorf("%s lastSeen mismatch: %v vs %v", key, a.LastSeen, b.LastSeen)
		}
	}
}

func TestLegacyListeningCountsFoldIntoEasy(t *testing.T) {
	repo := &fakeRepo{data: map[string]*store.WordStatsData{
		"ranka-hand": {
			Exposed:       true,
			ListeningEasy: store.CountData{Correct: 1, Incorrect: 0},
			Listening:     &store.CountData{Correct: 4, Incorrect: 2},
		},
	}}
	tr := newTestTracker(repo)
	ctx := context.Background()
	tr.Initialize(ctx)

	got := tr.Get("ranka-hand")
	if got.ListeningEasy != (Counter{Correct: 5, Incorrect: 2}) {
		t.Errorf("listeningEasy = %+v, want {5 2}", got.ListeningEasy)
	}

	// The migrated shape is what gets written back; the legacy field is gone.
	tr.Record(ctx, "ranka-hand", ActivityListeningEasy, true)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	saved := repo.data["ranka-hand"]
	if saved.Listening != nil {
		t.Errorf("legacy listening field persisted: %+v", saved.Listening)
	}
	if saved.ListeningEasy != (store.CountData{Correct: 6, Incorrect: 2}) {
		t.Errorf("saved listeningEasy = %+v, want {6 2}", saved.ListeningEasy)
	}
}

func TestReset(t *testing.T) {
	repo := &fakeRepo{}
	tr := newTestTracker(repo)
	ctx := context.Background()
	tr.Initialize(ctx)

	tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)
	tr.Reset(ctx)

	if n := len(tr.Snapshot()); n != 0 {
		t.Errorf("snapshot size after reset = %d, want 0", n)
	}
	if repo.clearCalls != 1 {
		t.Errorf("clear calls = %d, want 1", repo.clearCalls)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()
	tr.Initialize(ctx)

	tr.Record(ctx, "katė-cat", ActivityMultipleChoice, true)

	snap := tr.Snapshot()
	entry := snap["katė-cat"]
	entry.MultipleChoice.Correct = 99
	snap["katė-cat"] = entry

	if got := tr.Get("katė-cat"); got.MultipleChoice.Correct != 1 {
		t.Errorf("tracker state mutated through snapshot: %+v", got)
	}
}

func TestExposedCount(t *testing.T) {
	tr := newTestTracker(&fakeRepo{})
	ctx := context.Background()

	if got := tr.ExposedCount(); got != 0 {
		t.Errorf("exposed count = %d, want 0", got)
	}

	tr.MarkExposed(ctx, "katė-cat")
	tr.Record(ctx, "šuo-dog", ActivityTyping, true)
	tr.Record(ctx, "ranka-hand", ActivityTyping, false) // wrong answers never expose

	if got := tr.ExposedCount(); got != 2 {
		t.Errorf("exposed count = %d, want 2", got)
	}
}
