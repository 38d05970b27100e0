package forge

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Content documents are schema-checked before they are decoded into typed
// config structs, so shape errors surface with a JSON pointer instead of a
// zero-valued field somewhere downstream.

const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["items"],
  "properties": {
    "max_level": {"type": "integer", "minimum": 1},
    "items": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["name", "level"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "level": {"type": "integer", "minimum": 1},
          "key_item": {"type": "boolean"},
          "specialty": {"type": "string"},
          "disabled": {"type": "boolean"},
          "recipe": {
            "type": "object",
            "minProperties": 1,
            "additionalProperties": {"type": "integer", "minimum": 1}
          }
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

const dropsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tables"],
  "properties": {
    "weighting": {"type": "string"},
    "no_drop_weight": {"type": "integer", "minimum": 0},
    "tables": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["weights"],
        "properties": {
          "weights": {
            "type": "object",
            "additionalProperties": {"type": "integer", "minimum": 1}
          }
        },
        "additionalProperties": false
      }
    },
    "bonus": {
      "type": "object",
      "required": ["cronexpr", "duration_sec", "multiplier"],
      "properties": {
        "cronexpr": {"type": "string", "minLength": 1},
        "duration_sec": {"type": "integer", "minimum": 1},
        "multiplier": {"type": "integer", "minimum": 1}
      },
      "additionalProperties": false
    },
    "streak": {
      "type": "object",
      "properties": {
        "per_step_permille": {"type": "integer", "minimum": 0},
        "max_bonus_permille": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var (
	compiledCatalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchema)
	compiledDropsSchema   = jsonschema.MustCompileString("drops.schema.json", dropsSchema)
)

func validateSchema(schema string, doc []byte) error {
	var compiled *jsonschema.Schema
	switch schema {
	case catalogSchema:
		compiled = compiledCatalogSchema
	case dropsSchema:
		compiled = compiledDropsSchema
	default:
		return ErrInternal
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return compiled.Validate(v)
}
