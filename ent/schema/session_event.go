package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent marks the start or end of a journey session.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Groups the answers of one sitting"),
		field.String("action").
			NotEmpty().
			Comment("started or ended"),
		field.Int("turns").
			Default(0).
			Comment("Answers given; only set on ended events"),
		field.Int("correct").
			Default(0).
			Comment("Correct answers; only set on ended events"),
		field.Int("duration_secs").
			Default(0).
			Comment("Session length in seconds; only set on ended events"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
