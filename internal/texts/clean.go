// Package texts normalizes raw MUC document text and splits raw MUC text
// files into per-document entries.
package texts

import (
	"regexp"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Cleaned is a normalized document. All downstream offsets (sentences,
// tokens, mentions) are computed against Text.
type Cleaned struct {
	Text       string
	Sections   []model.Span // Paragraph offsets into Text
	Paragraphs []string     // Text of each section
}

// Clean splits raw text into blank-line separated paragraphs, collapses
// whitespace runs inside each paragraph to a single space, and joins the
// paragraphs with single spaces.
func Clean(raw string) Cleaned {
	var paragraphs []string
	for _, p := range strings.Split(raw, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, whitespaceRe.ReplaceAllString(p, " "))
	}

	sections := make([]model.Span, 0, len(paragraphs))
	start := 0
	for _, p := range paragraphs {
		sections = append(sections, model.Span{Start: start, End: start + len(p)})
		start += len(p) + 1
	}

	return Cleaned{
		Text:       strings.Join(paragraphs, " "),
		Sections:   sections,
		Paragraphs: paragraphs,
	}
}

// LowerASCII lower-cases ASCII letters only, so byte offsets into the
// result match offsets into s
func LowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
