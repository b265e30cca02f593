package sources

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Minimal shape checks for the bibliographic APIs. Anything that fails them is
// treated as a parse failure rather than silently yielding nothing.
const (
	openLibrarySearchSchema = `{
  "type": "object",
  "required": ["docs"],
  "properties": {
    "docs": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"key": {"type": "string"}}
      }
    }
  }
}`

	openLibraryRecordSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "table_of_contents": {"type": "array"},
    "publishers": {"type": "array"},
    "number_of_pages": {"type": "integer"}
  }
}`

	googleVolumesSchema = `{
  "type": "object",
  "required": ["totalItems"],
  "properties": {
    "totalItems": {"type": "integer", "minimum": 0},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["volumeInfo"],
        "properties": {"volumeInfo": {"type": "object"}}
      }
    }
  }
}`
)

var (
	olSearchSchema = mustCompile("openlibrary-search.json", openLibrarySearchSchema)
	olRecordSchema = mustCompile("openlibrary-record.json", openLibraryRecordSchema)
	gbVolumeSchema = mustCompile("googlebooks-volumes.json", googleVolumesSchema)
)

func mustCompile(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("load schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// decodeValidated decodes doc and checks it against schema.
func decodeValidated(schema *jsonschema.Schema, doc []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON object", ErrParse)
	}
	return m, nil
}
