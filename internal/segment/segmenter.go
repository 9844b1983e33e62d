// Package segment splits cleaned document sections into sentences and
// anchors each sentence back to character offsets in the document.
package segment

import (
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits text into sentence strings. Each returned sentence must
// occur verbatim, in order, in the input.
type Segmenter interface {
	Name() string
	Split(text string) []string
}

// Punkt segments with the pre-trained English Punkt model
type Punkt struct {
	mu        sync.Mutex // serializes access to the shared tokenizer
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunkt loads the English Punkt model
func NewPunkt() (*Punkt, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &Punkt{tokenizer: tokenizer}, nil
}

func (p *Punkt) Name() string {
	return "punkt"
}

// Split returns the trimmed, non-empty sentences of text
func (p *Punkt) Split(text string) []string {
	p.mu.Lock()
	tokens := p.tokenizer.Tokenize(text)
	p.mu.Unlock()

	var out []string
	for _, s := range tokens {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Rule segments on sentence terminators followed by whitespace. It needs
// no model and is used when Punkt cannot be loaded.
type Rule struct{}

func (Rule) Name() string {
	return "rule"
}

// Split breaks after '.', '!' or '?' when the next character is a space or tab
func (Rule) Split(text string) []string {
	var (
		out     []string
		current strings.Builder
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				flush()
			}
		}
	}
	flush()

	return out
}

// New returns the named segmenter: "punkt" (default) or "rule"
func New(name string) (Segmenter, error) {
	switch name {
	case "", "punkt":
		return NewPunkt()
	case "rule":
		return Rule{}, nil
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", name)
	}
}
