package aggregate

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of strings that serializes as a sorted JSON array, so
// aggregation output is byte-stable regardless of accumulation order.
type StringSet map[string]struct{}

// NewStringSet returns an empty set.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v into the set.
func (s StringSet) Add(v string) { s[v] = struct{}{} }

// Has reports membership of v.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int { return len(s) }

// Values returns the members in sorted order.
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}
