package locate

import (
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
)

// FindAll returns the spans of every non-overlapping literal occurrence of
// needle in haystack, scanning left to right
func FindAll(haystack, needle string) []model.Span {
	if needle == "" {
		return nil
	}

	var spans []model.Span
	offset := 0
	for {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return spans
		}
		start := offset + i
		spans = append(spans, model.Span{Start: start, End: start + len(needle)})
		offset = start + len(needle)
	}
}

// normalizeBrackets maps square brackets to parentheses, matching the
// sanitized document text
var normalizeBrackets = strings.NewReplacer("[", "(", "]", ")")
