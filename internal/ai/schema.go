package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const tasksSchemaURL = "taskmanager://schemas/tasks.json"

const tasksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "properties": {
      "id": {"type": ["integer", "string"]},
      "title": {"type": "string"},
      "description": {"type": "string"},
      "status": {"type": "string"},
      "priority": {"type": "string"},
      "dependencies": {"type": "array"},
      "details": {"type": "string"},
      "testStrategy": {"type": "string"},
      "category": {"type": "string"},
      "subtasks": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "title": {"type": "string"},
            "description": {"type": "string"},
            "status": {"type": "string"}
          }
        }
      }
    }
  }
}`

const expansionSchemaURL = "taskmanager://schemas/expansion.json"

const expansionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["analysis", "subtasks"],
  "properties": {
    "analysis": {"type": "string"},
    "subtasks": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"}
        }
      }
    },
    "taskImprovements": {
      "type": ["object", "null"],
      "properties": {
        "description": {"type": "string"},
        "details": {"type": "string"},
        "testStrategy": {"type": "string"}
      }
    }
  }
}`

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		sources := map[string]string{
			tasksSchemaURL:     tasksSchema,
			expansionSchemaURL: expansionSchema,
		}
		for url, src := range sources {
			if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", url, err)
				return
			}
		}
		compiled := make(map[string]*jsonschema.Schema, len(sources))
		for url := range sources {
			s, err := compiler.Compile(url)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", url, err)
				return
			}
			compiled[url] = s
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// validateJSON checks raw against the schema at url.
func validateJSON(url string, raw []byte) error {
	compiled, err := compileSchemas()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := compiled[url].Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, schemaErrorMessage(err))
	}
	return nil
}

// schemaErrorMessage reports the first leaf cause of a validation error.
func schemaErrorMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("%s: %s", location, ve.Message)
}
