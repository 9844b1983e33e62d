package texts

import (
	"regexp"

	"github.com/ppiankov/mucprep/internal/model"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\s\p{L}\p{N}_]`)

// Token is a word or punctuation mark with its offsets in the source text
type Token struct {
	Text string
	Span model.Span
}

// Tokenize splits text into word and punctuation tokens
func Tokenize(text string) []Token {
	locs := tokenRe.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		tokens = append(tokens, Token{
			Text: text[loc[0]:loc[1]],
			Span: model.Span{Start: loc[0], End: loc[1]},
		})
	}
	return tokens
}

// TokenizeSpan tokenizes text[span] and reports offsets relative to text
func TokenizeSpan(text string, span model.Span) []Token {
	tokens := Tokenize(text[span.Start:span.End])
	for i := range tokens {
		tokens[i].Span.Start += span.Start
		tokens[i].Span.End += span.Start
	}
	return tokens
}
