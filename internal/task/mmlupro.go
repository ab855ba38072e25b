package task

import (
	"fmt"

	"github.com/google/uuid"
)

// MMLUProFormat is the positional multi-category exam dialect: options are
// an ordered array, the answer is a zero-based index, and rows carry
// category, source and chain-of-thought fields that are preserved as
// metadata. Letters are assigned A, B, C... in array order.
type MMLUProFormat struct{}

const mmluProSchemaDoc = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["question", "options", "answer_index"],
		"properties": {
			"question_id": {"type": ["number", "string"]},
			"question": {"type": "string"},
			"options": {
				"type": "array",
				"items": {"type": "string"}
			},
			"answer": {"type": "string"},
			"answer_index": {"type": ["number", "string"]},
			"cot_content": {"type": "string"},
			"category": {"type": "string"},
			"src": {"type": "string"}
		}
	}
}`

var mmluProSchema = mustCompileSchema(mmluProSchemaDoc)

type mmluProRow struct {
	QuestionID  flexInt  `json:"question_id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	AnswerIndex flexInt  `json:"answer_index"`
	CotContent  string   `json:"cot_content"`
	Category    string   `json:"category"`
	Src         string   `json:"src"`
}

func (MMLUProFormat) Name() string { return "mmlu-pro" }

func (MMLUProFormat) Recognize(rows []any) bool {
	return recognizes(mmluProSchema, rows)
}

func (f MMLUProFormat) Parse(rows []any, src SourceInfo) (*Task, error) {
	if err := validate(mmluProSchema, f.Name(), rows); err != nil {
		return nil, err
	}
	decoded, err := decodeRows[mmluProRow](rows)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, ErrInvalidTask
	}

	prompts := make([]Prompt, 0, len(decoded))
	for rowNumber, row := range decoded {
		answerIndex := int(row.AnswerIndex)
		if answerIndex < 0 || answerIndex >= len(row.Options) {
			return nil, &ValidationError{
				Format:  f.Name(),
				Field:   fmt.Sprintf("%d.answer_index", rowNumber),
				Message: fmt.Sprintf("index %d out of range for %d options", answerIndex, len(row.Options)),
			}
		}

		var options Options
		answerKey := ""
		for i, text := range row.Options {
			letter := string(rune('A' + i))
			options.Set(letter, text)
			if i == answerIndex {
				answerKey = letter
			}
		}

		fullPromptText := PreparePrompt(row.Question, options)
		prompts = append(prompts, Prompt{
			DID:        uuid.Must(uuid.NewV7()).String(),
			Question:   NewHashedText(row.Question),
			Options:    options,
			FullPrompt: NewHashedText(fullPromptText),
			Type:       TypeMultipleChoice,
			Answer:     row.Options[answerIndex],
			AnswerKey:  answerKey,
			Metadata: map[string]any{
				"mmluProCategory":   row.Category,
				"rowNumberInSource": rowNumber,
				"originalSourceFile": map[string]any{
					"name":   src.FileName,
					"cid":    src.Digest.CID,
					"sha256": src.Digest.SHA256,
				},
				"mmluProQuestionId": int(row.QuestionID),
				"mmluProCotContent": row.CotContent,
				"mmluProSource":     row.Src,
			},
		})
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

// AsRaw converts a canonical task back into positional rows. Options are
// re-ordered lexically by letter and the answer index located by matching
// the answer text, so a prompt that did not originate from this dialect
// still converts cleanly.
func (MMLUProFormat) AsRaw(t *Task) []map[string]any {
	rows := make([]map[string]any, 0, len(t.Prompts))
	for _, p := range t.Prompts {
		pairs := p.Options.SortedByLetter()
		options := make([]string, 0, len(pairs))
		answerIndex := -1
		for i, pair := range pairs {
			options = append(options, pair[1])
			if pair[1] == p.Answer {
				answerIndex = i
			}
		}
		meta := p.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		rows = append(rows, map[string]any{
			"question_id":  meta["mmluProQuestionId"],
			"question":     p.Question.Data,
			"options":      options,
			"answer":       p.AnswerKey,
			"answer_index": answerIndex,
			"cot_content":  stringOr(meta["mmluProCotContent"], ""),
			"category":     meta["mmluProCategory"],
			"src":          meta["mmluProSource"],
		})
	}
	return rows
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
