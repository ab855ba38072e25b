package task

import "strings"

// PreparePrompt assembles the full prompt that is sent to a model: the
// question, a blank line, then one "<letter>: <text>" line per option in
// presentation order. The exact byte layout matters because the assembled
// text is content-addressed.
func PreparePrompt(question string, options Options) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString("\n\n")
	for _, letter := range options.Letters() {
		text, _ := options.Get(letter)
		b.WriteString(letter)
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
