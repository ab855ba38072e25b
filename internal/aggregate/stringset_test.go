package aggregate

import (
	"encoding/json"
	"testing"
)

func TestStringSetStableJSON(t *testing.T) {
	t.Parallel()

	s := NewStringSet()
	s.Add("run-b")
	s.Add("run-a")
	s.Add("run-b")

	encoded, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `["run-a","run-b"]` {
		t.Fatalf("expected sorted deduplicated array, got %s", encoded)
	}

	var decoded StringSet
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Has("run-a") || !decoded.Has("run-b") || decoded.Len() != 2 {
		t.Fatalf("decoded = %v", decoded.Values())
	}
}
