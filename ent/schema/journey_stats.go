package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// JourneyStats is a point-in-time snapshot of per-word progress. The
// tracker saves the full mapping on every change, so the newest row is
// the live state and older rows are history.
type JourneyStats struct {
	ent.Schema
}

func (JourneyStats) Fields() []ent.Field {
	return []ent.Field{
		field.Time("saved_at").
			Default(time.Now).
			Immutable(),
		field.JSON("data", map[string]any{}).
			Comment("word key to per-activity exposure and correctness counts"),
	}
}

func (JourneyStats) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("saved_at"),
	}
}
