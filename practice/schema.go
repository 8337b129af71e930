package practice

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// archiveSchema constrains imported archives structurally before any
// of their contents reach the practice data or route library.
const archiveSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["version", "map_name"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"map_name": {"type": "string", "minLength": 1},
		"author": {"type": "string"},
		"bots": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"role": {"type": "string"},
					"accuracy": {"type": "string"},
					"routes": {"type": "array", "items": {"type": "string"}},
					"spawn_delay": {"type": "number", "minimum": 0}
				}
			}
		},
		"drills": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "victory_type"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"victory_type": {"type": "string", "minLength": 1},
					"length": {"type": "number", "minimum": 0},
					"victory_amount": {"type": "integer", "minimum": 0},
					"victory_location": {
						"type": "object",
						"required": ["x", "y", "z"],
						"properties": {
							"x": {"type": "number"},
							"y": {"type": "number"},
							"z": {"type": "number"}
						}
					},
					"victory_radius": {"type": "number", "minimum": 0},
					"number_of_bots": {"type": "integer", "minimum": 0},
					"bot_names": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"trails": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "markers"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"team": {"type": "integer"},
					"grab_time": {"type": "number", "minimum": 0},
					"marker_interval": {"type": "number", "exclusiveMinimum": 0},
					"modulus": {"type": "integer", "minimum": 1},
					"markers": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["location"],
							"properties": {
								"location": {
									"type": "object",
									"required": ["x", "y", "z"],
									"properties": {
										"x": {"type": "number"},
										"y": {"type": "number"},
										"z": {"type": "number"}
									}
								},
								"time": {"type": "number", "minimum": 0},
								"health": {"type": "number", "minimum": 0}
							}
						}
					}
				}
			}
		}
	}
}`

var compiledArchiveSchema = jsonschema.MustCompileString("practice-archive.json", archiveSchema)

// ValidateArchive checks a decoded (uncompressed) archive document
// against the schema.
func ValidateArchive(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("archive is not valid JSON: %w", err)
	}
	if err := compiledArchiveSchema.Validate(doc); err != nil {
		return fmt.Errorf("archive failed validation: %w", err)
	}
	return nil
}
