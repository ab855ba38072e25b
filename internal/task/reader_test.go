package task

import (
	"encoding/json"
	"errors"
	"testing"
)

// A legacy row whose provenance block is complete. Both the legacy and the
// plain lettered dialect accept this shape, so it exercises the priority
// order of the reader.
const ambiguousRow = `[{
	"question": "What is the capital of France?",
	"options": {"A": "Paris", "B": "Lyon"},
	"answer": "Paris",
	"answer_idx": "A",
	"other": {
		"hash_full_question": "h1",
		"hash_first_sentence": "h2",
		"hash_first_question_sentence": "h3",
		"hash_last_sentence": "h4",
		"src_row_number": 0,
		"preSTDsrcFileName": "legacy.json",
		"preSTDsrcCID": "bafyold",
		"stdQuestionUUID": "0191c2d4-0000-7000-8000-000000000001",
		"stdFullPromptText": "What is the capital of France?\n\nA: Paris\nB: Lyon\n",
		"stdFullPromptHash": "h5"
	}
}]`

func TestReaderFormatPriority(t *testing.T) {
	t.Parallel()

	_, format, err := NewReader().ReadFromContent([]byte(ambiguousRow), "legacy.json")
	if err != nil {
		t.Fatalf("default reader: %v", err)
	}
	if format != "oldpb" {
		t.Fatalf("default priority picked %q, want %q", format, "oldpb")
	}

	reordered := NewReaderWithFormats(MedQAFormat{}, OldPBFormat{})
	_, format, err = reordered.ReadFromContent([]byte(ambiguousRow), "legacy.json")
	if err != nil {
		t.Fatalf("reordered reader: %v", err)
	}
	if format != "medqa" {
		t.Fatalf("reordered priority picked %q, want %q", format, "medqa")
	}
}

func TestReaderEmptyContent(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "   \n\n", "[]"} {
		_, _, err := NewReader().ReadFromContent([]byte(content), "empty.json")
		if !errors.Is(err, ErrInvalidTask) {
			t.Fatalf("content %q: got %v, want ErrInvalidTask", content, err)
		}
	}
}

func TestReaderUnrecognizedRows(t *testing.T) {
	t.Parallel()

	_, _, err := NewReader().ReadFromContent([]byte(`[{"foo": 1}]`), "odd.json")
	if !errors.Is(err, ErrTaskNotRecognized) {
		t.Fatalf("got %v, want ErrTaskNotRecognized", err)
	}
}

func TestReaderJSONLFallback(t *testing.T) {
	t.Parallel()

	lines := `{"question": "Q1?", "options": {"A": "a1", "B": "b1"}, "answer": "a1", "answer_idx": "A"}

{"question": "Q2?", "options": {"A": "a2", "B": "b2"}, "answer": "b2", "answer_idx": "B"}
`
	task, format, err := NewReader().ReadFromContent([]byte(lines), "rows.jsonl")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if format != "medqa" {
		t.Fatalf("format = %q, want %q", format, "medqa")
	}
	if len(task.Prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(task.Prompts))
	}
	if task.Prompts[1].AnswerKey != "B" {
		t.Fatalf("second prompt answerKey = %q, want %q", task.Prompts[1].AnswerKey, "B")
	}
}

func TestReaderPositionalDialect(t *testing.T) {
	t.Parallel()

	content := `[{"question": "Q1", "options": ["X", "Y"], "answer": "X", "answer_index": 0}]`
	task, format, err := NewReader().ReadFromContent([]byte(content), "positional.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if format != "mmlu-pro" {
		t.Fatalf("format = %q, want %q", format, "mmlu-pro")
	}

	p := task.Prompts[0]
	if text, _ := p.Options.Get("A"); text != "X" {
		t.Fatalf("option A = %q, want %q", text, "X")
	}
	if text, _ := p.Options.Get("B"); text != "Y" {
		t.Fatalf("option B = %q, want %q", text, "Y")
	}
	if p.AnswerKey != "A" {
		t.Fatalf("answerKey = %q, want %q", p.AnswerKey, "A")
	}
	if p.Answer != "X" {
		t.Fatalf("answer = %q, want %q", p.Answer, "X")
	}
}

func TestReaderPositionalIndexOutOfRange(t *testing.T) {
	t.Parallel()

	content := `[{"question": "Q1", "options": ["X", "Y"], "answer_index": 5}]`
	_, _, err := NewReader().ReadFromContent([]byte(content), "positional.json")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want a validation error", err)
	}
}

func TestReaderCanonicalIdempotence(t *testing.T) {
	t.Parallel()

	source := `[{"question": "What is 2+2?", "options": {"A": "3", "B": "4"}, "answer": "4", "answer_idx": "B"}]`
	first, _, err := NewReader().ReadFromContent([]byte(source), "math.json")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}

	encoded, err := json.Marshal(first.Prompts)
	if err != nil {
		t.Fatalf("marshal prompts: %v", err)
	}

	second, format, err := NewReader().ReadFromContent(encoded, "math.normalized.json")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if format != "pb" {
		t.Fatalf("canonical output recognized as %q, want %q", format, "pb")
	}
	if second.Prompts[0].DID != first.Prompts[0].DID {
		t.Fatalf("re-reading minted a new ID: %q vs %q", second.Prompts[0].DID, first.Prompts[0].DID)
	}
	if second.Prompts[0].FullPrompt.SHA256 != first.Prompts[0].FullPrompt.SHA256 {
		t.Fatalf("full prompt hash drifted across a round trip")
	}
}

func TestReaderSourceProvenance(t *testing.T) {
	t.Parallel()

	content := `[{"question": "Q?", "options": {"A": "a"}, "answer": "a", "answer_idx": "A"}]`
	task, _, err := NewReader().ReadFromContent([]byte(content), "/data/exam.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if task.FileName != "exam.json" {
		t.Fatalf("fileName = %q, want %q", task.FileName, "exam.json")
	}
	if task.Path != "/data/exam.json" {
		t.Fatalf("path = %q, want %q", task.Path, "/data/exam.json")
	}
	if task.CID == "" || task.SHA256 == "" {
		t.Fatal("task digests must be populated from the raw bytes")
	}

	meta := task.Prompts[0].Metadata["originalSourceFile"].(map[string]any)
	if meta["cid"] != task.CID {
		t.Fatalf("prompt provenance cid %v does not match task cid %s", meta["cid"], task.CID)
	}
}
