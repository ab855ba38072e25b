package task

import (
	"github.com/google/uuid"
)

// MedQAFormat is the lettered multiple-choice exam dialect: options are
// already a letter map and the answer key arrives as a letter. Rows carry no
// embedded provenance, so every prompt gets a fresh time-ordered ID.
type MedQAFormat struct{}

const medQASchemaDoc = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["question", "options", "answer", "answer_idx"],
		"properties": {
			"question": {"type": "string"},
			"options": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			},
			"answer": {"type": "string"},
			"answer_idx": {"type": "string"},
			"meta_info": {"type": "string"}
		}
	}
}`

var medQASchema = mustCompileSchema(medQASchemaDoc)

type medQARow struct {
	Question  string  `json:"question"`
	Options   Options `json:"options"`
	Answer    string  `json:"answer"`
	AnswerIdx string  `json:"answer_idx"`
	MetaInfo  string  `json:"meta_info,omitempty"`
}

func (MedQAFormat) Name() string { return "medqa" }

func (MedQAFormat) Recognize(rows []any) bool {
	return recognizes(medQASchema, rows)
}

func (f MedQAFormat) Parse(rows []any, src SourceInfo) (*Task, error) {
	if err := validate(medQASchema, f.Name(), rows); err != nil {
		return nil, err
	}
	decoded, err := decodeRows[medQARow](rows)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, ErrInvalidTask
	}

	prompts := make([]Prompt, 0, len(decoded))
	for rowNumber, row := range decoded {
		fullPromptText := PreparePrompt(row.Question, row.Options)
		prompts = append(prompts, Prompt{
			DID:        uuid.Must(uuid.NewV7()).String(),
			Question:   NewHashedText(row.Question),
			Options:    row.Options,
			FullPrompt: NewHashedText(fullPromptText),
			Type:       TypeMultipleChoice,
			Answer:     row.Answer,
			AnswerKey:  row.AnswerIdx,
			Metadata: map[string]any{
				"medqaCategory":     row.MetaInfo,
				"rowNumberInSource": rowNumber,
				"originalSourceFile": map[string]any{
					"name":   src.FileName,
					"cid":    src.Digest.CID,
					"sha256": src.Digest.SHA256,
				},
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
