package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// AnswerEventData records one graded answer in a journey session.
type AnswerEventData struct {
	SessionID string
	WordKey   string
	Activity  string
	Correct   bool
}

// AnswerEvent is a stored answer event.
type AnswerEvent struct {
	ID       int64
	Sequence int64
	At       time.Time
	AnswerEventData
}

// SessionEventData records a session lifecycle change.
type SessionEventData struct {
	SessionID    string
	Action       string
	Turns        int
	Correct      int
	DurationSecs int
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	ID       int64
	Sequence int64
	At       time.Time
	SessionEventData
}

// Session actions.
const (
	SessionStarted = "started"
	SessionEnded   = "ended"
)

// ActivityAccuracy aggregates answer outcomes for one activity kind.
type ActivityAccuracy struct {
	Activity  string
	Correct   int
	Incorrect int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID       int64
	Sequence int64
	At       time.Time
	LLMRequestEventData
}

// LLMUsageSummary aggregates recorded model calls.
type LLMUsageSummary struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// LLMModelUsage aggregates recorded calls for one model.
type LLMModelUsage struct {
	Model        string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// LLMPurposeUsage aggregates recorded calls for one request purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo appends and queries the append-only event log. Events of
// every type share one global sequence so their relative order is
// recoverable across tables.
type EventRepo interface {
	AppendAnswer(ctx context.Context, data AnswerEventData) error
	RecentAnswers(ctx context.Context, limit int) ([]AnswerEvent, error)
	AccuracyByActivity(ctx context.Context) ([]ActivityAccuracy, error)

	AppendSession(ctx context.Context, data SessionEventData) error
	LastSession(ctx context.Context) (*SessionEvent, error)
	PracticeDays(ctx context.Context) ([]time.Time, error)

	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)
	LLMRequestByID(ctx context.Context, id int64) (*LLMRequestEvent, error)
	LLMUsage(ctx context.Context) (*LLMUsageSummary, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)
}

// DayStreak counts consecutive practice days ending at now. days must be
// distinct local midnights in descending order, as PracticeDays returns
// them. A streak survives until the end of the day after the last
// practice, so practicing yesterday still shows an unbroken run today.
func DayStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !days[0].Equal(today) && !days[0].Equal(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// sequenceCounter manages the global monotonic sequence number shared
// across all event types. Each event type lives in its own table, so
// per-table auto-increment IDs can't establish cross-type ordering.
// This shared counter assigns a single increasing sequence to every
// event regardless of type, enabling:
//
//   - Cross-type ordering (did the answer come before or after the session end?)
//   - Append-only guarantees (events are never reordered)
//
// The mutex serializes within the process; the RETURNING clause makes
// the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func newEventRepo(db *sql.DB) (*eventRepo, error) {
	seq, err := newSequenceCounter(db)
	if err != nil {
		return nil, err
	}
	return &eventRepo{db: db, seq: seq}, nil
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO answer_events (sequence, at, session_id, word_key, activity, correct)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixMilli(), data.SessionID, data.WordKey, data.Activity, boolToInt(data.Correct))
	if err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentAnswers(ctx context.Context, limit int) ([]AnswerEvent, error) {
	if limit < 1 {
		limit = 1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sequence, at, session_id, word_key, activity, correct
		FROM answer_events ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var events []AnswerEvent
	for rows.Next() {
		var (
			ev      AnswerEvent
			at      int64
			correct int
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &at, &ev.SessionID, &ev.WordKey, &ev.Activity, &correct); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		ev.At = time.UnixMilli(at)
		ev.Correct = correct != 0
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) AccuracyByActivity(ctx context.Context) ([]ActivityAccuracy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT activity,
			SUM(CASE WHEN correct = 1 THEN 1 ELSE 0 END),
			SUM(CASE WHEN correct = 0 THEN 1 ELSE 0 END)
		FROM answer_events GROUP BY activity ORDER BY activity`)
	if err != nil {
		return nil, fmt.Errorf("query activity accuracy: %w", err)
	}
	defer rows.Close()

	var out []ActivityAccuracy
	for rows.Next() {
		var acc ActivityAccuracy
		if err := rows.Scan(&acc.Activity, &acc.Correct, &acc.Incorrect); err != nil {
			return nil, fmt.Errorf("scan activity accuracy: %w", err)
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session_events (sequence, at, session_id, action, turns, correct, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixMilli(), data.SessionID, data.Action, data.Turns, data.Correct, data.DurationSecs)
	if err != nil {
		return fmt.Errorf("append session event: %w", err)
	}
	return nil
}

func (r *eventRepo) LastSession(ctx context.Context) (*SessionEvent, error) {
	var (
		ev SessionEvent
		at int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, sequence, at, session_id, action, turns, correct, duration_secs
		FROM session_events ORDER BY sequence DESC LIMIT 1`).
		Scan(&ev.ID, &ev.Sequence, &at, &ev.SessionID, &ev.Action, &ev.Turns, &ev.Correct, &ev.DurationSecs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last session: %w", err)
	}
	ev.At = time.UnixMilli(at)
	return &ev, nil
}

// PracticeDays returns the distinct local calendar days with at least one
// session event, newest first, each as a midnight in the local zone.
func (r *eventRepo) PracticeDays(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT date(at / 1000, 'unixepoch', 'localtime')
		FROM session_events ORDER BY 1 DESC`)
	if err != nil {
		return nil, fmt.Errorf("query practice days: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan practice day: %w", err)
		}
		t, err := time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse practice day %q: %w", day, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO llm_request_events (sequence, at, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, boolToInt(data.Success), data.ErrorMessage,
		data.RequestBody, data.ResponseBody)
	if err != nil {
		return fmt.Errorf("append llm request event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sequence, at, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		FROM llm_request_events ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent llm requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		ev, err := scanLLMRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMRequestByID(ctx context.Context, id int64) (*LLMRequestEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, sequence, at, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		FROM llm_request_events WHERE id = ?`, id)
	ev, err := scanLLMRequest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func scanLLMRequest(scan func(...any) error) (*LLMRequestEvent, error) {
	var (
		ev      LLMRequestEvent
		at      int64
		success int
	)
	err := scan(&ev.ID, &ev.Sequence, &at, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &success, &ev.ErrorMessage,
		&ev.RequestBody, &ev.ResponseBody)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan llm request event: %w", err)
	}
	ev.At = time.UnixMilli(at)
	ev.Success = success == 1
	return &ev, nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) (*LLMUsageSummary, error) {
	var sum LLMUsageSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0)
		FROM llm_request_events`).
		Scan(&sum.Requests, &sum.Failures, &sum.InputTokens, &sum.OutputTokens)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	return &sum, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT model, COUNT(*),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0)
		FROM llm_request_events GROUP BY model ORDER BY model`)
	if err != nil {
		return nil, fmt.Errorf("query llm usage by model: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Requests, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan llm usage by model: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT purpose, COUNT(*),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		FROM llm_request_events GROUP BY purpose ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query llm usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []LLMPurposeUsage
	for rows.Next() {
		var u LLMPurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan llm usage by purpose: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
