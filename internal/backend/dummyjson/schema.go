package dummyjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformedResponse is wrapped by NetworkError when a response body does
// not have the expected shape.
var ErrMalformedResponse = errors.New("malformed response")

const taskSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "todo", "completed"],
  "properties": {
    "id": {"type": "integer"},
    "todo": {"type": "string"},
    "completed": {"type": "boolean"},
    "userId": {"type": "integer"}
  }
}`

const listSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["todos"],
  "properties": {
    "todos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "todo", "completed"],
        "properties": {
          "id": {"type": "integer"},
          "todo": {"type": "string"},
          "completed": {"type": "boolean"},
          "userId": {"type": "integer"}
        }
      }
    },
    "total": {"type": "integer"},
    "skip": {"type": "integer"},
    "limit": {"type": "integer"}
  }
}`

var (
	taskSchema = jsonschema.MustCompileString("task.json", taskSchemaJSON)
	listSchema = jsonschema.MustCompileString("list.json", listSchemaJSON)
)

// validate checks body against schema and reports the first failing location.
func validate(schema *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, firstCause(err))
	}
	return nil
}

func firstCause(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
