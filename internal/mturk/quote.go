// Package mturk renders processed templates as crowd-sourcing HIT rows:
// one CSV row per template, each holding a JSON payload in a single
// quoted "var_arrays" column.
package mturk

import "strings"

var quoteReplacer = strings.NewReplacer(
	`'{`, `{`,
	`}'`, `}`,
)

// QuoteHIT makes a JSON payload safe for the single-column CSV. Double
// quotes are doubled unless they follow "}]"; quoted braces lose their
// quotes; backslash pairs become triples; spaces inside span tags go.
func QuoteHIT(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] == '"' && !(i >= 2 && s[i-2] == '}' && s[i-1] == ']') {
			b.WriteByte('"')
		}
	}

	out := quoteReplacer.Replace(b.String())
	out = strings.ReplaceAll(out, `\\`, `\\\`)
	out = strings.ReplaceAll(out, "> ", ">")
	out = strings.ReplaceAll(out, " <", "<")
	return out
}
