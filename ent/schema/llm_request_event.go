package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent logs one request to an LLM provider, with token counts
// and the raw request and response bodies for later inspection.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("provider").
			NotEmpty().
			Comment("openai, anthropic, or google"),
		field.String("model").
			NotEmpty().
			Comment("Provider model identifier"),
		field.String("purpose").
			NotEmpty().
			Comment("What the request was for, e.g. grammar-tip"),
		field.Int64("input_tokens").
			Default(0),
		field.Int64("output_tokens").
			Default(0),
		field.Int64("latency_ms").
			Default(0).
			Comment("Wall-clock round trip in milliseconds"),
		field.Bool("success").
			Comment("Whether the provider returned a usable response"),
		field.String("error_message").
			Default("").
			Comment("Set when success is false"),
		field.Text("request_body").
			Default("").
			Comment("Raw request JSON"),
		field.Text("response_body").
			Default("").
			Comment("Raw response JSON"),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("provider"),
		index.Fields("purpose"),
		index.Fields("success"),
	}
}
