// Package validation checks content packs against their JSON Schemas
// before anything is decoded into engine types.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// PackKind names a validatable content file.
type PackKind string

const (
	KindTraits     PackKind = "traits"
	KindCandidates PackKind = "candidates"
	KindPosts      PackKind = "posts"
	KindManifest   PackKind = "manifest"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const traitsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "category", "matchWeight"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "category": {"type": "string", "enum": ["personality", "interests", "lifestyle"]},
      "matchWeight": {"type": "integer", "minimum": 1, "maximum": 10}
    },
    "additionalProperties": false
  }
}`

const postTemplateSchema = `{
  "type": "object",
  "required": ["id", "type", "text"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "type": {"type": "string", "enum": ["status", "photo", "intro"]},
    "text": {"type": "string"},
    "imageRef": {"type": "string"},
    "traitIds": {"type": "array", "items": {"type": "string"}},
    "isRedFlag": {"type": "boolean"},
    "isGreenFlag": {"type": "boolean"},
    "daysAgo": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

var candidatesSchema = fmt.Sprintf(`{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "age", "gender", "traitIds"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "age": {"type": "integer", "minimum": 18, "maximum": 120},
      "gender": {"type": "string", "minLength": 1},
      "bio": {"type": "string"},
      "traitIds": {"type": "array", "items": {"type": "string"}},
      "guaranteedPosts": {"type": "array", "items": %s}
    },
    "additionalProperties": false
  }
}`, postTemplateSchema)

var postsSchema = fmt.Sprintf(`{
  "type": "array",
  "items": %s
}`, postTemplateSchema)

const manifestSchema = `{
  "type": "object",
  "required": ["schemaVersion", "name", "files"],
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 1},
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string"},
    "generatedAt": {"type": "string"},
    "files": {
      "type": "object",
      "required": ["traits", "candidates", "posts"],
      "properties": {
        "traits": {"type": "string", "minLength": 1},
        "candidates": {"type": "string", "minLength": 1},
        "posts": {"type": "string", "minLength": 1},
        "quests": {"type": "string"}
      },
      "additionalProperties": false
    },
    "counts": {
      "type": "object",
      "properties": {
        "traits": {"type": "integer", "minimum": 0},
        "candidates": {"type": "integer", "minimum": 0},
        "posts": {"type": "integer", "minimum": 0},
        "quests": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

func schemaFor(kind PackKind) (string, error) {
	switch kind {
	case KindTraits:
		return traitsSchema, nil
	case KindCandidates:
		return candidatesSchema, nil
	case KindPosts:
		return postsSchema, nil
	case KindManifest:
		return manifestSchema, nil
	}
	return "", fmt.Errorf("unknown pack kind: %s", kind)
}

// ValidatePack checks raw JSON against the schema for its kind and
// returns every violation with its document path.
func ValidatePack(kind PackKind, raw []byte) (*ValidationResult, error) {
	schema, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", kind, err)
	}

	result := &ValidationResult{Valid: res.Valid()}
	for _, violation := range res.Errors() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   violation.Field(),
			Message: violation.Description(),
		})
	}
	return result, nil
}
