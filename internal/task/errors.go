package task

import (
	"errors"
	"fmt"
)

// ErrInvalidTask reports content that is structurally unusable: not valid
// JSON, JSONL or Parquet, or an empty row set.
var ErrInvalidTask = errors.New("invalid task content")

// ErrTaskNotRecognized reports structurally valid content that no known
// format recognizes. Distinct from ErrInvalidTask so callers can suggest a
// manual conversion instead of reporting corrupt input.
var ErrTaskNotRecognized = errors.New("no task format recognized the content")

// ValidationError reports the first field-level schema violation found in a
// recognized-looking record.
type ValidationError struct {
	Format  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s task validation failed at %s: %s", e.Format, e.Field, e.Message)
}
