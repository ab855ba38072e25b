package task

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/peerbench/peerbench/internal/digest"
	"github.com/xeipuuv/gojsonschema"
)

// SourceInfo carries the file-level provenance the dispatcher computes once
// over the raw bytes and threads into every recognizer.
type SourceInfo struct {
	FileName string
	Path     string
	Digest   digest.Digest
}

// Format is one input dialect the reader can normalize. Recognize is a cheap
// structural pre-check that must not fail with an error; Parse performs the
// full conversion to the canonical model.
type Format interface {
	// Name identifies the format ("pb", "oldpb", "medqa", "mmlu-pro").
	Name() string

	// Recognize reports whether the raw parsed rows conform to this
	// format's shape. Side-effect free.
	Recognize(rows []any) bool

	// Parse converts the rows into a Task. The rows are not mutated.
	Parse(rows []any, src SourceInfo) (*Task, error)
}

// validate runs rows against a compiled JSON Schema and converts the first
// violation into a ValidationError (fail-fast per the error contract).
func validate(schema *gojsonschema.Schema, format string, rows []any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(rows))
	if err != nil {
		return fmt.Errorf("%s schema validation: %w", format, err)
	}
	if result.Valid() {
		return nil
	}
	first := result.Errors()[0]
	return &ValidationError{
		Format:  format,
		Field:   first.Field(),
		Message: first.Description(),
	}
}

// recognizes reports whether rows pass the schema without surfacing the
// violation; used by the Recognize pre-checks.
func recognizes(schema *gojsonschema.Schema, rows []any) bool {
	if len(rows) == 0 {
		return false
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(rows))
	return err == nil && result.Valid()
}

// mustCompileSchema compiles an embedded schema document at package init.
func mustCompileSchema(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("task: compile schema: %v", err))
	}
	return schema
}

// decodeRows re-encodes loosely typed rows and unmarshals them into the
// format's typed row slice. Rows have already passed schema validation, so
// a decode failure here is a data-contract violation.
func decodeRows[T any](rows []any) ([]T, error) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("re-encode rows: %w", err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return out, nil
}

// flexInt accepts the numeric encodings row fields arrive in: JSON numbers,
// numeric strings, and the integer types Parquet readers produce.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", string(data))
	}
	*f = flexInt(int(n))
	return nil
}
