package task

import (
	"encoding/json"
	"strings"
)

// TryParseJSONArray decodes content as a JSON array of objects. Returns nil
// when the content is not a JSON array at all.
func TryParseJSONArray(content []byte) []any {
	var rows []any
	if err := json.Unmarshal(content, &rows); err != nil {
		return nil
	}
	return rows
}

// ParseJSONL decodes JSON-Lines content, one object per line. Empty and
// invalid lines are skipped, mirroring the lenient line filter of the wire
// format's other consumers.
func ParseJSONL(content []byte) []any {
	var rows []any
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var row any
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
