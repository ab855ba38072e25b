package task

// PBFormat is the canonical peerbench dialect: rows are already normalized
// Prompt objects, so parsing validates and passes them through unchanged.
// Re-reading canonical output must not mint new identifiers or drift hashes.
type PBFormat struct{}

const pbSchemaDoc = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["did", "question", "options", "fullPrompt", "type", "answer", "answerKey"],
		"properties": {
			"did": {"type": "string"},
			"question": {
				"type": "object",
				"required": ["cid", "sha256"],
				"properties": {
					"data": {"type": "string"},
					"cid": {"type": "string"},
					"sha256": {"type": "string"}
				}
			},
			"options": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			},
			"fullPrompt": {
				"type": "object",
				"required": ["cid", "sha256"],
				"properties": {
					"data": {"type": "string"},
					"cid": {"type": "string"},
					"sha256": {"type": "string"}
				}
			},
			"type": {
				"type": "string",
				"enum": ["multiple-choice", "order-sentences", "text-replacement", "typo"]
			},
			"answer": {"type": "string"},
			"answerKey": {"type": "string"},
			"metadata": {"type": "object"}
		}
	}
}`

var pbSchema = mustCompileSchema(pbSchemaDoc)

func (PBFormat) Name() string { return "pb" }

func (PBFormat) Recognize(rows []any) bool {
	return recognizes(pbSchema, rows)
}

func (f PBFormat) Parse(rows []any, src SourceInfo) (*Task, error) {
	if err := validate(pbSchema, f.Name(), rows); err != nil {
		return nil, err
	}
	prompts, err := decodeRows[Prompt](rows)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, ErrInvalidTask
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

// AsRaw converts a canonical task back into this dialect's raw row form.
func (PBFormat) AsRaw(t *Task) []Prompt {
	return t.Prompts
}
