package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CountData is the persisted correct/incorrect tally for one activity.
type CountData struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// WordStatsData is the persisted per-word record. Keys in the stats
// mapping are word keys ("<lithuanian>-<english>").
//
// Listening is a legacy combined counter written by older versions. It
// is read on load and folded into ListeningEasy by the stats tracker;
// it is never written back.
type WordStatsData struct {
	Exposed        bool       `json:"exposed"`
	MultipleChoice CountData  `json:"multipleChoice"`
	ListeningEasy  CountData  `json:"listeningEasy"`
	ListeningHard  CountData  `json:"listeningHard"`
	Typing         CountData  `json:"typing"`
	Listening      *CountData `json:"listening,omitempty"`
	LastSeen       *int64     `json:"lastSeen"`
}

// JourneyStatsRepo persists whole journey stats mappings. Each Save
// writes a complete snapshot row; Latest returns the most recent one.
type JourneyStatsRepo interface {
	// Save persists the full stats mapping as a new snapshot row.
	Save(ctx context.Context, stats map[string]*WordStatsData) error

	// Latest returns the most recently saved mapping, or nil when no
	// snapshot has been saved yet.
	Latest(ctx context.Context) (map[string]*WordStatsData, error)

	// Prune deletes all but the keep most recent snapshot rows.
	Prune(ctx context.Context, keep int) error

	// Clear deletes every snapshot row.
	Clear(ctx context.Context) error
}

type journeyStatsRepo struct {
	db *sql.DB
}

func (r *journeyStatsRepo) Save(ctx context.Context, stats map[string]*WordStatsData) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal journey stats: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO journey_stats (saved_at, data) VALUES (?, ?)`,
		time.Now().UnixMilli(), string(data))
	if err != nil {
		return fmt.Errorf("insert journey stats: %w", err)
	}
	return nil
}

func (r *journeyStatsRepo) Latest(ctx context.Context) (map[string]*WordStatsData, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM journey_stats ORDER BY id DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query journey stats: %w", err)
	}

	var stats map[string]*WordStatsData
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, fmt.Errorf("unmarshal journey stats: %w", err)
	}
	return stats, nil
}

func (r *journeyStatsRepo) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM journey_stats WHERE id NOT IN (
			SELECT id FROM journey_stats ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune journey stats: %w", err)
	}
	return nil
}

func (r *journeyStatsRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM journey_stats`); err != nil {
		return fmt.Errorf("clear journey stats: %w", err)
	}
	return nil
}
