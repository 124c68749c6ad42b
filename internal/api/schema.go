package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const todoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": ["integer", "string"]},
    "title": {"type": "string"},
    "completed": {"type": "boolean"},
    "userId": {"type": "integer"}
  }
}`

const (
	todoSchemaURL     = "https://tada.local/schema/todo.json"
	todoListSchemaURL = "https://tada.local/schema/todos.json"
)

const todoListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {"$ref": "todo.json"}
}`

// schemas validates response bodies before they are decoded into todos.
type schemas struct {
	todo *jsonschema.Schema
	list *jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchema)); err != nil {
		return nil, fmt.Errorf("add todo schema: %w", err)
	}
	if err := compiler.AddResource(todoListSchemaURL, strings.NewReader(todoListSchema)); err != nil {
		return nil, fmt.Errorf("add todo list schema: %w", err)
	}

	todo, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile todo schema: %w", err)
	}
	list, err := compiler.Compile(todoListSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile todo list schema: %w", err)
	}
	return &schemas{todo: todo, list: list}, nil
}

// validate checks body against schema and returns a readable list of
// violations.
func validate(schema *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema: %s", describe(err))
	}
	return nil
}

func describe(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	collect(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collect(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collect(cause, msgs)
	}
}
