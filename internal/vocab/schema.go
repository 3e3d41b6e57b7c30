package vocab

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// corpusSchema constrains the embedded corpus files: a corpus name plus
// non-empty groups of {english, lithuanian} pairs.
const corpusSchema = `{
	"type": "object",
	"required": ["corpus", "groups"],
	"properties": {
		"corpus": {"type": "string", "minLength": 1},
		"groups": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["english", "lithuanian"],
					"properties": {
						"english": {"type": "string", "minLength": 1},
						"lithuanian": {"type": "string", "minLength": 1}
					},
					"additionalProperties": false
				}
			}
		}
	},
	"additionalProperties": false
}`

var (
	compiledCorpusSchema     *jsonschema.Schema
	compileCorpusSchemaOnce  sync.Once
	compileCorpusSchemaError error
)

func validateCorpus(name string, raw []byte) error {
	compileCorpusSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(corpusSchema), &def); err != nil {
			compileCorpusSchemaError = fmt.Errorf("parse corpus schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://corpus.json", def); err != nil {
			compileCorpusSchemaError = fmt.Errorf("add corpus schema: %w", err)
			return
		}
		compiledCorpusSchema, compileCorpusSchemaError = c.Compile("schema://corpus.json")
	})
	if compileCorpusSchemaError != nil {
		return compileCorpusSchemaError
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("corpus %s is not valid JSON: %w", name, err)
	}
	if err := compiledCorpusSchema.Validate(parsed); err != nil {
		return fmt.Errorf("corpus %s failed validation: %w", name, err)
	}
	return nil
}
