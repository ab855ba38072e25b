// Package task defines the canonical peerbench data model and the format
// recognizers that normalize heterogeneous task files into it. A Task is a
// named collection of Prompts originating from one source file; the file's
// own content digests are the provenance anchor back to the uploaded bytes.
package task

import (
	"github.com/peerbench/peerbench/internal/digest"
)

// Prompt types supported by the pipeline. Only multiple-choice prompts are
// scored by the default scorer; the others require a pluggable scorer.
const (
	TypeMultipleChoice  = "multiple-choice"
	TypeOrderSentences  = "order-sentences"
	TypeTextReplacement = "text-replacement"
	TypeTypo            = "typo"
)

// TaskDIDMultipleChoice identifies a normalized multiple-choice task file.
const TaskDIDMultipleChoice = "did:task:multiple-choice"

// HashedText is a piece of text paired with its content digests. The cid and
// sha256 fields are pure functions of data; recomputing them must always
// reproduce the same values.
type HashedText struct {
	Data   string `json:"data,omitempty"`
	CID    string `json:"cid"`
	SHA256 string `json:"sha256"`
}

// NewHashedText computes the digests for text using the raw codec.
func NewHashedText(text string) HashedText {
	d := digest.SumString(text)
	return HashedText{Data: text, CID: d.CID, SHA256: d.SHA256}
}

// Prompt is one canonical question unit.
type Prompt struct {
	// DID is the globally unique identifier of the prompt. It is reused
	// verbatim when the source format carries a previously minted one,
	// otherwise a fresh time-ordered UUID is assigned.
	DID string `json:"did"`

	// Question is the bare question text plus its digests.
	Question HashedText `json:"question"`

	// Options maps answer letters to answer texts. Insertion order is
	// presentation order. Empty for non-multiple-choice prompt types.
	Options Options `json:"options"`

	// FullPrompt is the fully assembled prompt (question plus formatted
	// options) actually sent to a model, with its digests.
	FullPrompt HashedText `json:"fullPrompt"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Answer is the correct answer's text.
	Answer string `json:"answer"`

	// AnswerKey is the correct option's letter, empty when not applicable.
	AnswerKey string `json:"answerKey"`

	// Metadata carries format-specific provenance (source category, source
	// row number, source file identity).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Task is a named collection of Prompts originating from one source file.
// Constructed once by the format dispatcher and immutable afterward.
type Task struct {
	DID     string   `json:"did"`
	Prompts []Prompt `json:"prompts"`

	// CID and SHA256 are computed over the original raw file content, not
	// the parsed prompts.
	CID    string `json:"cid"`
	SHA256 string `json:"sha256"`

	FileName string `json:"fileName"`
	Path     string `json:"path"`
}

// SourceFileRef identifies the task file a response originated from.
type SourceFileRef struct {
	CID      string `json:"cid"`
	SHA256   string `json:"sha256"`
	FileName string `json:"fileName"`
}

// PromptResponse is the outcome of forwarding one Prompt to one
// (provider, model) pair. Data is nil when the forwarding failed.
type PromptResponse struct {
	Provider   string `json:"provider"`
	ModelID    string `json:"modelId"`
	ModelName  string `json:"modelName"`
	ModelOwner string `json:"modelOwner"`
	ModelHost  string `json:"modelHost"`

	TaskID string  `json:"taskId"`
	Prompt *Prompt `json:"prompt,omitempty"`

	// CID and SHA256 of the response data; nil when the response failed.
	CID    *string `json:"cid,omitempty"`
	SHA256 *string `json:"sha256,omitempty"`
	Data   *string `json:"data,omitempty"`

	// StartedAt and FinishedAt are millisecond Unix timestamps. FinishedAt
	// is nil when the model never replied.
	StartedAt  int64  `json:"startedAt"`
	FinishedAt *int64 `json:"finishedAt,omitempty"`

	// RunID groups all responses produced by one execution batch.
	RunID string `json:"runId"`

	SourceTaskFile SourceFileRef `json:"sourceTaskFile"`
}

// PromptScore is a PromptResponse plus its computed score. Score is nil only
// when the response itself failed (no data).
type PromptScore struct {
	PromptResponse
	Score    *float64       `json:"score,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// StripData returns a copy with the bulky payload fields removed, for the
// compact "no-data" score files. Digests are kept so provenance survives.
func (s PromptScore) StripData() PromptScore {
	out := s
	out.Data = nil
	if s.Prompt != nil {
		p := *s.Prompt
		p.Question.Data = ""
		p.FullPrompt.Data = ""
		p.Answer = ""
		out.Prompt = &p
	}
	return out
}
