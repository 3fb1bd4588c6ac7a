package core

// schema.go validates data records against a JSON Schema document.
//
// The schema describes the data table as an array of flat objects:
//
//	{"items": {"properties": {"Sample_ID": {"type": "string", "pattern": "^[A-Za-z0-9_-]+$"}, ...},
//	           "required": ["Sample_ID"]}}
//
// Validation runs in Draft 4 mode. The keys of items.properties double as the
// default header allow-list for ValidateColumns.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaResource is the in-memory name the compiler files the schema under.
const schemaResource = "samplesheet.schema.json"

// SchemaLoadError reports a schema that could not be read or compiled.
type SchemaLoadError struct {
	Path string // Source path, empty when loading from memory
	Err  error
}

func (e *SchemaLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load schema %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load schema: %v", e.Err)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Err
}

// Schema is a compiled record schema. It is safe for concurrent use.
type Schema struct {
	compiled *jsonschema.Schema
	columns  []string
}

// schemaShape is the part of the schema document read outside the validator.
type schemaShape struct {
	Items struct {
		Properties map[string]json.RawMessage `json:"properties"`
	} `json:"items"`
}

// LoadSchema reads and compiles the schema file at path.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Err: err}
	}

	s, err := ParseSchema(data)
	if err != nil {
		var le *SchemaLoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return s, nil
}

// ParseSchema compiles a schema document held in memory.
func ParseSchema(data []byte) (*Schema, error) {
	var shape schemaShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, &SchemaLoadError{Err: fmt.Errorf("decode: %w", err)}
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft4
	if err := c.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
		return nil, &SchemaLoadError{Err: err}
	}
	compiled, err := c.Compile(schemaResource)
	if err != nil {
		return nil, &SchemaLoadError{Err: err}
	}

	columns := make([]string, 0, len(shape.Items.Properties))
	for name := range shape.Items.Properties {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	return &Schema{compiled: compiled, columns: columns}, nil
}

// Columns returns the property names declared under items.properties, sorted.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// ValidateRecords validates the whole record list and returns one error per
// failing keyword, sorted by schema path.
func (s *Schema) ValidateRecords(records []samplesheet.Record) []ValidationError {
	instance := make([]any, len(records))
	for i, rec := range records {
		obj := make(map[string]any, len(rec))
		for k, v := range rec {
			obj[k] = v
		}
		instance[i] = obj
	}

	err := s.compiled.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []ValidationError{SchemaViolation(nil, err.Error())}
	}

	var errs []ValidationError
	for _, leaf := range leafCauses(ve, nil) {
		errs = append(errs, SchemaViolation(splitPointer(leaf.KeywordLocation), leaf.Message))
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return lessPath(errs[i].Path, errs[j].Path)
	})
	return errs
}

// leafCauses collects the innermost errors of a validation error tree.
func leafCauses(ve *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	for _, c := range ve.Causes {
		out = leafCauses(c, out)
	}
	return out
}

// splitPointer turns "/items/properties/index/pattern" into its unescaped segments.
func splitPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}

	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return parts
}

func lessPath(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
