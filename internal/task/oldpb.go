package task

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/peerbench/peerbench/internal/digest"
)

// OldPBFormat is the legacy peerbench dialect: lettered multiple-choice rows
// that may carry an embedded "other" provenance block from a previous
// normalization. When that block is complete its identifiers are reused
// verbatim, so re-normalizing already-normalized data never mints new IDs.
type OldPBFormat struct{}

// The "other" object must be present for a row to be treated as legacy
// peerbench data; rows without it belong to the plain lettered dialect.
// Completeness of the block is decided separately by hasStandardFields.
const oldPBSchemaDoc = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["question", "options", "answer_idx", "answer", "other"],
		"properties": {
			"question": {"type": "string"},
			"options": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			},
			"answer_idx": {"type": "string"},
			"answer": {"type": "string"},
			"meta_info": {"type": "string"},
			"other": {"type": "object"}
		}
	}
}`

var oldPBSchema = mustCompileSchema(oldPBSchemaDoc)

type oldPBRow struct {
	Question  string         `json:"question"`
	Options   Options        `json:"options"`
	AnswerIdx string         `json:"answer_idx"`
	Answer    string         `json:"answer"`
	MetaInfo  string         `json:"meta_info,omitempty"`
	Other     map[string]any `json:"other"`
}

// The std* and hash_* fields a complete provenance block must carry.
var oldPBStringFields = []string{
	"hash_full_question",
	"hash_first_sentence",
	"hash_first_question_sentence",
	"hash_last_sentence",
	"stdQuestionUUID",
	"stdFullPromptText",
	"stdFullPromptHash",
	"preSTDsrcFileName",
	"preSTDsrcCID",
}

func (OldPBFormat) Name() string { return "oldpb" }

func (OldPBFormat) Recognize(rows []any) bool {
	return recognizes(oldPBSchema, rows)
}

func (f OldPBFormat) Parse(rows []any, src SourceInfo) (*Task, error) {
	if err := validate(oldPBSchema, f.Name(), rows); err != nil {
		return nil, err
	}
	decoded, err := decodeRows[oldPBRow](rows)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, ErrInvalidTask
	}

	prompts := make([]Prompt, 0, len(decoded))
	for rowNumber, row := range decoded {
		var prompt Prompt
		if hasStandardFields(row.Other) {
			fullPromptText, _ := row.Other["stdFullPromptText"].(string)
			stdUUID, _ := row.Other["stdQuestionUUID"].(string)
			prompt = Prompt{
				DID:        stdUUID,
				Question:   NewHashedText(row.Question),
				Options:    row.Options,
				FullPrompt: NewHashedText(fullPromptText),
				Type:       TypeMultipleChoice,
				Answer:     row.Answer,
				AnswerKey:  row.AnswerIdx,
				Metadata:   row.Other,
			}
		} else {
			fullPromptText := PreparePrompt(row.Question, row.Options)
			hashes := questionHashes(row.Question, row.Options)
			id := uuid.Must(uuid.NewV7()).String()
			prompt = Prompt{
				DID:        id,
				Question:   NewHashedText(row.Question),
				Options:    row.Options,
				FullPrompt: NewHashedText(fullPromptText),
				Type:       TypeMultipleChoice,
				Answer:     row.Answer,
				AnswerKey:  row.AnswerIdx,
				Metadata: map[string]any{
					"hash_full_question":           hashes.fullText,
					"hash_first_sentence":          hashes.firstSentence,
					"hash_first_question_sentence": hashes.firstQuestion,
					"hash_last_sentence":           hashes.lastSentence,
					"src_row_number":               rowNumber,
					"preSTDsrcFileName":            src.FileName,
					"preSTDsrcCID":                 src.Digest.CID,
					"stdQuestionUUID":              id,
					"stdFullPromptText":            fullPromptText,
					"stdFullPromptHash":            hashes.fullPrompt,
				},
			}
		}
		prompts = append(prompts, prompt)
	}

	return &Task{
		DID:      TaskDIDMultipleChoice,
		Prompts:  prompts,
		CID:      src.Digest.CID,
		SHA256:   src.Digest.SHA256,
		FileName: src.FileName,
		Path:     src.Path,
	}, nil
}

// hasStandardFields is the explicit reuse predicate: every provenance field
// must be present and well-typed, otherwise the whole block is recomputed.
func hasStandardFields(other map[string]any) bool {
	if other == nil {
		return false
	}
	for _, field := range oldPBStringFields {
		s, ok := other[field].(string)
		if !ok || s == "" {
			return false
		}
	}
	// src_row_number arrives as a JSON number.
	switch other["src_row_number"].(type) {
	case float64, int:
		return true
	default:
		return false
	}
}

type oldPBHashes struct {
	fullText      string
	firstSentence string
	firstQuestion string
	lastSentence  string
	fullPrompt    string
}

// questionHashes computes the per-question fingerprints used to track a
// question across reformattings: whole text, first sentence, first sentence
// ending in "?" (else the first sentence), last sentence, and the assembled
// full prompt.
func questionHashes(question string, options Options) oldPBHashes {
	sentences := splitSentences(question)
	first := question
	if len(sentences) > 0 {
		first = sentences[0]
	}
	last := first
	if len(sentences) > 1 {
		last = sentences[len(sentences)-1]
	}
	return oldPBHashes{
		fullText:      digest.SumString(question).SHA256,
		firstSentence: digest.SumString(first).SHA256,
		firstQuestion: digest.SumString(firstQuestionSentence(sentences, first)).SHA256,
		lastSentence:  digest.SumString(last).SHA256,
		fullPrompt:    digest.SumString(PreparePrompt(question, options)).SHA256,
	}
}

var sentenceRegexp = regexp.MustCompile(`[^.!?]+[.!?]+\s*`)

// splitSentences splits on common sentence endings and keeps any trailing
// text that lacks final punctuation as its own sentence.
func splitSentences(text string) []string {
	matches := sentenceRegexp.FindAllString(text, -1)
	if matches == nil {
		return []string{text}
	}
	joined := strings.Join(matches, "")
	if len(joined) < len(text) {
		if remainder := text[len(joined):]; strings.TrimSpace(remainder) != "" {
			matches = append(matches, remainder)
		}
	}
	return matches
}

func firstQuestionSentence(sentences []string, fallback string) string {
	for _, s := range sentences {
		if strings.HasSuffix(strings.TrimSpace(s), "?") {
			return s
		}
	}
	return fallback
}

// AsRaw converts a canonical task back into legacy rows. The canonical
// metadata becomes the "other" block so a round trip preserves identifiers.
func (OldPBFormat) AsRaw(t *Task) []map[string]any {
	rows := make([]map[string]any, 0, len(t.Prompts))
	for _, p := range t.Prompts {
		rows = append(rows, map[string]any{
			"question":   p.Question.Data,
			"options":    p.Options,
			"answer_idx": p.AnswerKey,
			"answer":     p.Answer,
			"other":      p.Metadata,
		})
	}
	return rows
}
