package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one graded answer within a journey session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.String("word_key").
			NotEmpty().
			Comment("Word identity: <lithuanian>-<english>"),
		field.String("activity").
			NotEmpty().
			Comment("multipleChoice, listeningEasy, listeningHard, or typing"),
		field.Bool("correct").
			Comment("Whether the learner answered correctly"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("word_key"),
		index.Fields("activity"),
	}
}
