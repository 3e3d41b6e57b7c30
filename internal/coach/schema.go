package coach

import "github.com/trakaido/trakaido/internal/llm"

// TipSchema defines the JSON schema for grammar tip generation.
var TipSchema = &llm.Schema{
	Name:        "grammar-tip",
	Description: "A short Lithuanian grammar tip with an example",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{
				"type":        "string",
				"description": "The rule, stated in one or two plain sentences",
			},
			"example": map[string]any{
				"type":        "string",
				"description": "A short Lithuanian illustration with an English gloss in parentheses",
			},
		},
		"required":             []any{"tip", "example"},
		"additionalProperties": false,
	},
}
