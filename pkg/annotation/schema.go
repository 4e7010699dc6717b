package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RecordJSONSchema returns the JSON schema a record line has to satisfy
// once it is known to carry annotations.
func RecordJSONSchema() map[string]any {
	point := map[string]any{
		"type":     "array",
		"minItems": 2,
		"items":    map[string]any{"type": "number"},
	}
	span := map[string]any{
		"type":     "object",
		"required": []string{"label", "points"},
		"properties": map[string]any{
			"label":  map[string]any{"type": "string"},
			"points": map[string]any{"type": "array", "items": point},
		},
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"id", "image", "width", "height", "spans"},
		"properties": map[string]any{
			"id":     map[string]any{"type": "string", "minLength": 1},
			"image":  map[string]any{"type": "string", "minLength": 1},
			"width":  map[string]any{"type": "integer", "minimum": 1},
			"height": map[string]any{"type": "integer", "minimum": 1},
			"spans":  map[string]any{"type": "array", "items": span},
		},
	}
}

var recordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(RecordJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// validateRecord checks a decoded JSON value against the record schema.
// It returns the offending field (if one can be named) and the validation error.
func validateRecord(v any) (string, error) {
	schema, err := recordSchema()
	if err != nil {
		return "", err
	}
	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepestCause(ve)
			return fieldFromLocation(leaf.InstanceLocation), fmt.Errorf("%s", leaf.Message)
		}
		return "", err
	}
	return "", nil
}

// deepestCause follows the first cause chain down to the most specific failure
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// fieldFromLocation turns a JSON pointer such as "/spans/0/points" into "spans.0.points"
func fieldFromLocation(loc string) string {
	loc = strings.TrimPrefix(loc, "/")
	return strings.ReplaceAll(loc, "/", ".")
}
