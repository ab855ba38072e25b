// Package output persists pipeline artifacts. Every saved file is paired
// with a <file>.cid companion holding its content identifier and, when a
// signer is configured, a <file>.signature companion covering that
// identifier. The digest is reproducible from the file bytes; the signature
// scheme itself is a collaborator concern behind the Signer interface.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peerbench/peerbench/internal/aggregate"
	"github.com/peerbench/peerbench/internal/digest"
	"github.com/peerbench/peerbench/internal/task"
)

// Signer produces a signature over a content identifier.
type Signer interface {
	Sign(message string) (string, error)
}

// Format selects the encoding of a saved entity.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// SaveOptions controls where and how SaveEntity writes.
type SaveOptions struct {
	Dir    string
	Prefix string
	// Suffix is appended to the file name, typically a timestamp.
	Suffix string
	Format Format
	// Signer, when non-nil, adds the .signature companion.
	Signer Signer
}

// SaveEntity writes entity under opts.Dir and returns the file path. JSON
// output is indented; CSV output is supported for score and aggregation
// batches. A .cid companion is always written.
func SaveEntity(entity any, opts SaveOptions) (string, error) {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	name := opts.Prefix
	if opts.Suffix != "" {
		name += "-" + opts.Suffix
	}
	name += "." + string(opts.Format)

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.Dir, name)

	var data []byte
	switch opts.Format {
	case FormatJSON:
		encoded, err := json.MarshalIndent(entity, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", name, err)
		}
		data = encoded
	case FormatCSV:
		encoded, err := marshalCSV(entity)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", name, err)
		}
		data = encoded
	default:
		return "", fmt.Errorf("unsupported output format %q", opts.Format)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	cid, err := WriteCIDFile(path)
	if err != nil {
		return "", err
	}
	if opts.Signer != nil {
		if err := WriteSignatureFile(path, cid, opts.Signer); err != nil {
			return "", err
		}
	}
	return path, nil
}

// WriteCIDFile computes the content identifier of the file at path and
// writes it to <path>.cid. Returns the identifier.
func WriteCIDFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read for cid: %w", err)
	}
	cid := digest.Sum(content).CID
	if err := os.WriteFile(path+".cid", []byte(cid), 0o644); err != nil {
		return "", fmt.Errorf("write cid file: %w", err)
	}
	return cid, nil
}

// WriteSignatureFile signs message and writes the signature to
// <path>.signature.
func WriteSignatureFile(path, message string, signer Signer) error {
	signature, err := signer.Sign(message)
	if err != nil {
		return fmt.Errorf("sign %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path+".signature", []byte(signature), 0o644); err != nil {
		return fmt.Errorf("write signature file: %w", err)
	}
	return nil
}

func marshalCSV(entity any) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	switch rows := entity.(type) {
	case []task.PromptScore:
		if err := w.Write([]string{
			"provider", "modelId", "modelName", "modelOwner", "modelHost",
			"taskId", "promptDid", "answerKey", "data", "score",
			"startedAt", "finishedAt", "runId", "sourceFileCid", "sourceFileName",
		}); err != nil {
			return nil, err
		}
		for _, s := range rows {
			record := []string{
				s.Provider, s.ModelID, s.ModelName, s.ModelOwner, s.ModelHost,
				s.TaskID, "", "", "", "",
				strconv.FormatInt(s.StartedAt, 10), "", s.RunID,
				s.SourceTaskFile.CID, s.SourceTaskFile.FileName,
			}
			if s.Prompt != nil {
				record[6] = s.Prompt.DID
				record[7] = s.Prompt.AnswerKey
			}
			if s.Data != nil {
				record[8] = *s.Data
			}
			if s.Score != nil {
				record[9] = strconv.FormatFloat(*s.Score, 'f', -1, 64)
			}
			if s.FinishedAt != nil {
				record[11] = strconv.FormatInt(*s.FinishedAt, 10)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	case []aggregate.AggregatedResult:
		if err := w.Write([]string{
			"provider", "modelId", "totalResponses", "score", "avgScore",
			"wrongAnswers", "missingAnswers", "totalLatency", "avgLatency",
			"runIds", "sourceFileNames",
		}); err != nil {
			return nil, err
		}
		for _, r := range rows {
			if err := w.Write([]string{
				r.Provider, r.ModelID,
				strconv.Itoa(r.TotalResponses),
				strconv.FormatFloat(r.Score, 'f', -1, 64),
				strconv.FormatFloat(r.AvgScore, 'f', -1, 64),
				strconv.Itoa(r.WrongAnswers),
				strconv.Itoa(r.MissingAnswers),
				strconv.FormatInt(r.TotalLatency, 10),
				strconv.FormatFloat(r.AvgLatency, 'f', -1, 64),
				strings.Join(r.RunIDs.Values(), ";"),
				strings.Join(r.SourceFileNames.Values(), ";"),
			}); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("csv encoding not supported for %T", entity)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
