package task

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peerbench/peerbench/internal/digest"
)

// Reader auto-detects the dialect of raw task content and normalizes it into
// a canonical Task. Formats are tried in the declared order and the first
// one whose Recognize accepts the rows wins; reordering the list changes
// which dialect claims ambiguous content, so the order is part of the
// contract.
type Reader struct {
	formats []Format
}

// NewReader returns a Reader with the default format priority:
// pb, oldpb, medqa, mmlu-pro.
func NewReader() *Reader {
	return &Reader{formats: []Format{
		PBFormat{},
		OldPBFormat{},
		MedQAFormat{},
		MMLUProFormat{},
	}}
}

// NewReaderWithFormats returns a Reader with an explicit priority order,
// used by tests and by callers that restrict the accepted dialects.
func NewReaderWithFormats(formats ...Format) *Reader {
	return &Reader{formats: formats}
}

// ReadFromFile reads and normalizes the task file at path.
func (r *Reader) ReadFromFile(path string) (*Task, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read task file: %w", err)
	}
	return r.ReadFromContent(content, path)
}

// ReadFromContent normalizes raw bytes into a Task and reports which format
// was used. The source file's digests are computed once over the raw bytes
// and threaded into every prompt's provenance.
//
// Binary columnar (Parquet) content is decoded first; otherwise a JSON
// array parse is attempted, then JSON-Lines as a fallback. Content that
// yields no rows fails with ErrInvalidTask; content every format rejects
// fails with ErrTaskNotRecognized.
func (r *Reader) ReadFromContent(content []byte, filePath string) (*Task, string, error) {
	fileName := "memory"
	if filePath != "" {
		fileName = filepath.Base(filePath)
	} else {
		filePath = "memory"
	}
	src := SourceInfo{
		FileName: fileName,
		Path:     filePath,
		Digest:   digest.Sum(content),
	}

	var rows []any
	if IsParquet(content) {
		decoded, err := ReadParquetRows(content)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
		rows = decoded
	} else {
		rows = TryParseJSONArray(content)
		if rows == nil {
			rows = ParseJSONL(content)
		}
	}
	if len(rows) == 0 {
		return nil, "", ErrInvalidTask
	}

	for _, format := range r.formats {
		if !format.Recognize(rows) {
			continue
		}
		t, err := format.Parse(rows, src)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", format.Name(), err)
		}
		return t, format.Name(), nil
	}
	return nil, "", ErrTaskNotRecognized
}
