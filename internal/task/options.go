package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Options is an answer-letter to answer-text mapping that preserves
// insertion order, which is the presentation order used when assembling the
// full prompt. The zero value is an empty, usable map.
type Options struct {
	letters []string
	values  map[string]string
}

// NewOptions builds an Options from letter/text pairs in the given order.
func NewOptions(pairs ...[2]string) Options {
	var o Options
	for _, p := range pairs {
		o.Set(p[0], p[1])
	}
	return o
}

// Set adds or replaces an option. A new letter is appended to the order.
func (o *Options) Set(letter, text string) {
	if o.values == nil {
		o.values = make(map[string]string)
	}
	if _, ok := o.values[letter]; !ok {
		o.letters = append(o.letters, letter)
	}
	o.values[letter] = text
}

// Get returns the text for letter and whether it exists.
func (o Options) Get(letter string) (string, bool) {
	text, ok := o.values[letter]
	return text, ok
}

// Len returns the number of options.
func (o Options) Len() int { return len(o.letters) }

// Letters returns the letters in presentation order.
func (o Options) Letters() []string {
	out := make([]string, len(o.letters))
	copy(out, o.letters)
	return out
}

// LetterFor returns the letter whose text equals answer, scanning in
// presentation order. Used to locate the answer key when the source format
// carries the answer text instead of a letter.
func (o Options) LetterFor(answer string) (string, bool) {
	for _, letter := range o.letters {
		if o.values[letter] == answer {
			return letter, true
		}
	}
	return "", false
}

// SortedByLetter returns the letter/text pairs ordered lexically by letter,
// used when converting back to positional source dialects.
func (o Options) SortedByLetter() [][2]string {
	letters := o.Letters()
	sort.Strings(letters)
	out := make([][2]string, 0, len(letters))
	for _, letter := range letters {
		out = append(out, [2]string{letter, o.values[letter]})
	}
	return out
}

// MarshalJSON renders the options as a JSON object in presentation order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, letter := range o.letters {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(letter)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[letter])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected JSON object, got %v", tok)
	}

	*o = Options{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		letter, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("options: non-string key %v", keyTok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options: value for %q: %w", letter, err)
		}
		o.Set(letter, text)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
