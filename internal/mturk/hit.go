package mturk

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/texts"
	"github.com/ppiankov/mucprep/internal/util"
	"golang.org/x/net/html"
)

// Variant selects the HIT layout
type Variant string

const (
	// Evidential HITs show plain sentences
	Evidential Variant = "evidential"
	// Anchors HITs show numbered tokens and token/character alignments
	Anchors Variant = "anchors"
)

// Header is the single CSV column name
const Header = "var_arrays"

// ParseVariant validates a variant name
func ParseVariant(name string) (Variant, error) {
	switch v := Variant(name); v {
	case Evidential, Anchors:
		return v, nil
	default:
		return "", fmt.Errorf("unknown HIT variant %q (want %s or %s)", name, Evidential, Anchors)
	}
}

type sentenceText struct {
	Text string `json:"text"`
}

type evidentialHIT struct {
	Sentences []sentenceText  `json:"sentences"`
	Template  *model.Template `json:"template"`
	HitID     int             `json:"hit_id"`
}

type anchorsHIT struct {
	Sentences []sentenceText  `json:"sentences"`
	Tokens    []string        `json:"tokens"`
	Template  *model.Template `json:"template"`
	HitID     int             `json:"hit_id"`
	Tok2Char  [][]int         `json:"tok2char"`
	Char2Tok  [][]int         `json:"char2tok"`
}

// Renderer turns processed documents into HIT rows
type Renderer struct {
	variant Variant
}

// NewRenderer creates a renderer for the given variant
func NewRenderer(v Variant) *Renderer {
	return &Renderer{variant: v}
}

// Rows renders one row per template, documents in id order. HIT ids count
// templates from zero across the split.
func (r *Renderer) Rows(docs model.ProcessedDocuments) ([]string, error) {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows []string
	hitID := 0
	for _, id := range ids {
		doc := docs[id]

		var payload func(t *model.Template, hitID int) any
		switch r.variant {
		case Anchors:
			a, err := newAlignment(doc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
			payload = func(t *model.Template, hitID int) any {
				return &anchorsHIT{
					Sentences: a.sentences,
					Tokens:    a.tokens,
					Template:  escapeTemplate(t, true),
					HitID:     hitID,
					Tok2Char:  a.tok2char,
					Char2Tok:  a.char2tok,
				}
			}
		default:
			sentences := make([]sentenceText, len(doc.Sentences))
			for i := range doc.Sentences {
				sentences[i] = sentenceText{Text: html.EscapeString(doc.SentenceText(i))}
			}
			payload = func(t *model.Template, hitID int) any {
				return &evidentialHIT{
					Sentences: sentences,
					Template:  escapeTemplate(t, false),
					HitID:     hitID,
				}
			}
		}

		for _, t := range doc.Templates {
			row, err := renderRow(payload(t, hitID))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
			rows = append(rows, row)
			hitID++
		}
	}
	return rows, nil
}

func renderRow(v any) (string, error) {
	var buf bytes.Buffer
	if err := util.EncodeJSON(&buf, v, 0); err != nil {
		return "", err
	}
	return `"` + QuoteHIT(strings.TrimSuffix(buf.String(), "\n")) + `"`, nil
}

// escapeTemplate HTML-escapes every filler string of the list slots,
// optionally lower-casing them first. The input template is not modified.
func escapeTemplate(t *model.Template, lower bool) *model.Template {
	c := t.Clone()
	escape := func(a model.Alternatives) model.Alternatives {
		if a == nil {
			return nil
		}
		out := make(model.Alternatives, len(a))
		for i, s := range a {
			if lower {
				s = strings.ToLower(s)
			}
			out[i] = html.EscapeString(s)
		}
		return out
	}

	for _, slot := range model.FillerSlots {
		if !model.IsListSlot(slot) {
			continue
		}
		for _, f := range c.Fillers(slot) {
			f.Strings = escape(f.Strings)
			f.StringsLHS = escape(f.StringsLHS)
			f.StringsRHS = escape(f.StringsRHS)
		}
	}
	return c
}

// alignment is the token view of a lower-cased document
type alignment struct {
	tokens    []string
	sentences []sentenceText
	tok2char  [][]int
	char2tok  [][]int
}

func newAlignment(doc *model.ProcessedDocument) (*alignment, error) {
	text := texts.LowerASCII(doc.Text)
	tokens := texts.Tokenize(text)

	a := &alignment{
		tokens:   make([]string, len(tokens)),
		tok2char: make([][]int, len(tokens)),
		char2tok: make([][]int, len(text)),
	}
	for i := range a.char2tok {
		a.char2tok[i] = []int{}
	}
	for i, tok := range tokens {
		a.tokens[i] = html.EscapeString(tok.Text)
		chars := make([]int, 0, tok.Span.Len())
		for c := tok.Span.Start; c < tok.Span.End; c++ {
			chars = append(chars, c)
			a.char2tok[c] = []int{i}
		}
		a.tok2char[i] = chars
	}

	offset := 0
	for _, s := range doc.Sentences {
		if s.End <= s.Start || len(a.char2tok[s.Start]) == 0 || len(a.char2tok[s.End-1]) == 0 {
			return nil, fmt.Errorf("sentence %v does not start and end on a token", s)
		}
		first, last := a.char2tok[s.Start][0], a.char2tok[s.End-1][0]

		words := make([]string, 0, last-first+1)
		for i, tok := range tokens[first : last+1] {
			words = append(words, html.EscapeString("["+strconv.Itoa(offset+i)+"] "+tok.Text))
		}
		a.sentences = append(a.sentences, sentenceText{Text: strings.Join(words, " ")})
		offset = last + 1
	}
	if a.sentences == nil {
		a.sentences = []sentenceText{}
	}
	return a, nil
}

// WriteCSV writes the header and one row per line
func WriteCSV(w io.Writer, rows []string) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := io.WriteString(w, row+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSVFile writes rows to path, creating parent directories
func WriteCSVFile(path string, rows []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
