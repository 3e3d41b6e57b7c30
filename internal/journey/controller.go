package journey

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/vocab"
)

// DefaultAutoAdvanceDelay paces the hand-off to the next turn after an
// answer has been graded.
const DefaultAutoAdvanceDelay = 3 * time.Second

// Tracker is the stats surface the controller drives. *stats.Tracker
// satisfies it.
type Tracker interface {
	Get(key string) stats.WordStats
	Record(ctx context.Context, key string, activity stats.Activity, correct bool) stats.WordStats
	MarkExposed(ctx context.Context, key string) stats.WordStats
}

// Config configures one journey session.
type Config struct {
	Words   []vocab.Word
	Tracker Tracker

	// Events receives answer and session lifecycle events. Optional;
	// appends are best-effort and never interrupt the session.
	Events store.EventRepo

	// Rand defaults to the shared system source.
	Rand Rand

	Log *logrus.Logger

	AudioEnabled bool

	// AutoAdvance schedules the next turn automatically after each
	// graded answer, after AutoAdvanceDelay.
	AutoAdvance      bool
	AutoAdvanceDelay time.Duration

	// OnTurn publishes each new turn to the presentation layer. Called
	// outside the controller's lock, after a new word has been marked
	// exposed.
	OnTurn func(Turn)
}

// Controller drives the turn-by-turn loop of a journey session: it
// asks the selector for turns, applies the new-word exposure side
// effect, records outcomes, and paces auto-advance.
type Controller struct {
	cfg      Config
	selector *Selector
	log      *logrus.Logger

	sessionID string

	mu          sync.Mutex
	current     *Turn
	fallback    *vocab.Word
	cancelTimer func()
	turns       int
	correct     int
	started     time.Time
	closed      bool

	schedule func(d time.Duration, fn func()) func()
	now      func() time.Time
}

// NewController creates a controller for one session over the given
// word set.
func NewController(cfg Config) *Controller {
	if cfg.Rand == nil {
		cfg.Rand = SystemRand()
	}
	if cfg.AutoAdvanceDelay <= 0 {
		cfg.AutoAdvanceDelay = DefaultAutoAdvanceDelay
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &Controller{
		cfg:       cfg,
		selector:  NewSelector(cfg.Tracker, cfg.Rand, cfg.AudioEnabled),
		log:       log,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	c.schedule = func(d time.Duration, fn func()) func() {
		t := time.AfterFunc(d, fn)
		return func() { t.Stop() }
	}
	c.started = c.now()
	return c
}

// SessionID identifies this session in recorded events.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Current returns the turn in progress, if any.
func (c *Controller) Current() (Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Turn{}, false
	}
	return *c.current, true
}

// Advance selects and publishes the next turn. Any pending auto-advance
// is canceled first, so a manual advance cannot race a scheduled one.
// When a new word is introduced it is marked exposed before the turn is
// published, so it cannot be reselected as new.
func (c *Controller) Advance() Turn {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Turn{Kind: KindGrammarBreak}
	}
	c.cancelPendingLocked()

	first := c.turns == 0
	turn := c.selector.Next(c.cfg.Words, c.fallback)
	if turn.Kind == KindNewWord && turn.Word != nil {
		c.cfg.Tracker.MarkExposed(context.Background(), turn.Word.Key())
	}
	if turn.Word != nil {
		c.fallback = turn.Word
	}
	c.current = &turn
	c.turns++
	onTurn := c.cfg.OnTurn
	c.mu.Unlock()

	if first {
		c.appendSession(store.SessionEventData{
			SessionID: c.sessionID,
			Action:    store.SessionStarted,
		})
	}
	if onTurn != nil {
		onTurn(turn)
	}
	return turn
}

// RecordOutcome grades one answer for word. Breaks and new-word
// introductions are not gradeable and leave all state untouched. When
// auto-advance is on, the next turn is scheduled after the configured
// delay; a previously pending advance is replaced, never stacked.
func (c *Controller) RecordOutcome(word vocab.Word, kind ActivityKind, correct bool) stats.WordStats {
	activity, ok := kind.Activity()
	if !ok {
		return c.cfg.Tracker.Get(word.Key())
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return c.cfg.Tracker.Get(word.Key())
	}
	if correct {
		c.correct++
	}
	c.mu.Unlock()

	updated := c.cfg.Tracker.Record(context.Background(), word.Key(), activity, correct)

	if c.cfg.Events != nil {
		err := c.cfg.Events.AppendAnswer(context.Background(), store.AnswerEventData{
			SessionID: c.sessionID,
			WordKey:   word.Key(),
			Activity:  string(activity),
			Correct:   correct,
		})
		if err != nil {
			c.log.WithError(err).Warn("journey: answer event not recorded")
		}
	}

	if c.cfg.AutoAdvance {
		c.scheduleAdvance()
	}
	return updated
}

// CancelAutoAdvance drops any pending scheduled advance. Safe to call
// when nothing is pending.
func (c *Controller) CancelAutoAdvance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
}

// Close ends the session: cancels pending work and records a session
// summary event. Further calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	turns, correct := c.turns, c.correct
	duration := int(c.now().Sub(c.started).Seconds())
	c.mu.Unlock()

	c.appendSession(store.SessionEventData{
		SessionID:    c.sessionID,
		Action:       store.SessionEnded,
		Turns:        turns,
		Correct:      correct,
		DurationSecs: duration,
	})
}

// Summary reports the turn and correct-answer counts so far.
func (c *Controller) Summary() (turns, correct int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turns, c.correct
}

func (c *Controller) scheduleAdvance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelPendingLocked()
	c.cancelTimer = c.schedule(c.cfg.AutoAdvanceDelay, func() { c.Advance() })
}

func (c *Controller) cancelPendingLocked() {
	if c.cancelTimer != nil {
		c.cancelTimer()
		c.cancelTimer = nil
	}
}

func (c *Controller) appendSession(data store.SessionEventData) {
	if c.cfg.Events == nil {
		return
	}
	if err := c.cfg.Events.AppendSession(context.Background(), data); err != nil {
		c.log.WithError(err).Warn("journey: session event not recorded")
	}
}
