package schema

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema is the envelope-level JSON Schema for a rule document:
// it catches gross shape errors (wrong types, missing envelope keys)
// before the more targeted recursive walk in Validate inspects
// operator names and per-node arity.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "ruleset", "rules"],
  "properties": {
    "version": {"type": "string"},
    "ruleset": {"type": "string"},
    "rules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "if", "then"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "then": {
            "type": "object",
            "required": ["decision"],
            "properties": {
              "decision": {"type": "string"},
              "weight": {"type": "number", "minimum": 0, "maximum": 1}
            }
          }
        }
      }
    }
  }
}`

var compiledDocumentSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rule_document.json", bytes.NewReader([]byte(documentSchema))); err != nil {
		panic(fmt.Sprintf("schema: invalid embedded document schema: %v", err))
	}
	compiledDocumentSchema = compiler.MustCompile("rule_document.json")
}

// ValidateEnvelope runs the pre-validation JSON-Schema pass over a
// decoded document, ahead of the recursive operator-aware walk.
func ValidateEnvelope(doc interface{}) error {
	return compiledDocumentSchema.Validate(doc)
}
