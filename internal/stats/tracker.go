package stats

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trakaido/trakaido/internal/store"
)

// Update describes one stats change delivered to listeners. Activity
// is empty when only the exposure flag changed. All is a copy of the
// full mapping after the change, so a listener can resync wholesale.
type Update struct {
	WordKey  string
	Activity Activity
	Correct  bool
	Stats    WordStats
	All      map[string]WordStats
}

// Listener receives stats updates. Listeners are invoked synchronously
// in registration order; a panicking listener is isolated and logged.
type Listener func(Update)

// ListenerID identifies a registered listener for later removal.
type ListenerID int

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Tracker owns the in-memory word stats and keeps them persisted.
// Memory is authoritative: store failures are logged and absorbed so a
// broken database never interrupts a practice session.
type Tracker struct {
	repo store.JourneyStatsRepo
	log  *logrus.Logger
	now  func() time.Time

	mu          sync.RWMutex
	words       map[string]*WordStats
	listeners   []listenerEntry
	nextID      ListenerID
	initialized bool
}

// NewTracker creates a tracker backed by repo. A nil repo keeps stats
// in memory only.
func NewTracker(repo store.JourneyStatsRepo, log *logrus.Logger) *Tracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tracker{
		repo:  repo,
		log:   log,
		now:   time.Now,
		words: make(map[string]*WordStats),
	}
}

// Initialize loads persisted stats into memory. Only the first call
// reads the store; subsequent calls are no-ops even if the first load
// failed. A load failure starts the tracker empty.
func (t *Tracker) Initialize(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return
	}
	t.initialized = true

	if t.repo == nil {
		return
	}
	data, err := t.repo.Latest(ctx)
	if err != nil {
		t.log.WithError(err).Warn("stats: load failed, starting empty")
		return
	}
	if data != nil {
		t.words = fromData(data)
	}
}

// Get returns a copy of the stats for key. Unknown words yield zero
// stats; lookups never create entries.
func (t *Tracker) Get(key string) WordStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if ws, ok := t.words[key]; ok {
		return ws.clone()
	}
	return WordStats{}
}

// Record registers one graded answer for key. It bumps the activity
// counter, stamps the word as just seen, and flips the exposure flag
// on a correct answer. Incorrect answers never expose a word. The full
// mapping is persisted and listeners are notified before returning.
func (t *Tracker) Record(ctx context.Context, key string, activity Activity, correct bool) WordStats {
	t.mu.Lock()

	ws := t.ensure(key)
	c := ws.counterRef(activity)
	if c == nil {
		snapshot := ws.clone()
		t.mu.Unlock()
		t.log.WithField("activity", activity).Warn("stats: unknown activity ignored")
		return snapshot
	}

	if correct {
		c.Correct++
	} else {
		c.Incorrect++
	}
	ws.Exposed = ws.Exposed || correct
	now := t.now()
	ws.LastSeen = &now

	snapshot := ws.clone()
	all := cloneWords(t.words)
	data := toData(t.words)
	listeners := append([]listenerEntry(nil), t.listeners...)
	t.mu.Unlock()

	t.persist(ctx, data)
	t.notify(listeners, Update{WordKey: key, Activity: activity, Correct: correct, Stats: snapshot, All: all})
	return snapshot
}

// MarkExposed flags key as exposed without recording an answer. Used
// when a word is introduced to the learner. Already-exposed words are
// left untouched.
func (t *Tracker) MarkExposed(ctx context.Context, key string) WordStats {
	t.mu.Lock()

	ws := t.ensure(key)
	if ws.Exposed {
		snapshot := ws.clone()
		t.mu.Unlock()
		return snapshot
	}
	ws.Exposed = true

	snapshot := ws.clone()
	all := cloneWords(t.words)
	data := toData(t.words)
	listeners := append([]listenerEntry(nil), t.listeners...)
	t.mu.Unlock()

	t.persist(ctx, data)
	t.notify(listeners, Update{WordKey: key, Stats: snapshot, All: all})
	return snapshot
}

// AddListener registers fn for stats updates and returns its id.
func (t *Tracker) AddListener(fn Listener) ListenerID {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listenerEntry{id: id, fn: fn})
	return id
}

// RemoveListener unregisters the listener with the given id.
func (t *Tracker) RemoveListener(id ListenerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range t.listeners {
		if e.id == id {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// ExposedCount returns how many tracked words are exposed.
func (t *Tracker) ExposedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, ws := range t.words {
		if ws.Exposed {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of all tracked stats keyed by word key.
func (t *Tracker) Snapshot() map[string]WordStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return cloneWords(t.words)
}

func cloneWords(words map[string]*WordStats) map[string]WordStats {
	out := make(map[string]WordStats, len(words))
	for key, ws := range words {
		out[key] = ws.clone()
	}
	return out
}

// Reset wipes all stats from memory and the store.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	t.words = make(map[string]*WordStats)
	t.mu.Unlock()

	if t.repo == nil {
		return
	}
	if err := t.repo.Clear(ctx); err != nil {
		t.log.WithError(err).Warn("stats: clear failed")
	}
}

func (t *Tracker) ensure(key string) *WordStats {
	if ws, ok := t.words[key]; ok {
		return ws
	}
	ws := &WordStats{}
	t.words[key] = ws
	return ws
}

func (t *Tracker) persist(ctx context.Context, data map[string]*store.WordStatsData) {
	if t.repo == nil {
		return
	}
	if err := t.repo.Save(ctx, data); err != nil {
		t.log.WithError(err).Warn("stats: save failed, keeping in-memory state")
	}
}

func (t *Tracker) notify(entries []listenerEntry, u Update) {
	for _, e := range entries {
		t.notifyOne(e, u)
	}
}

func (t *Tracker) notifyOne(e listenerEntry, u Update) {
	defer func() {
		if r := recover(); r != nil {
			t.log.WithField("listener", e.id).Warnf("stats: listener panicked: %v", r)
		}
	}()
	e.fn(u)
}
