// Package keys parses MUC key files into templates.
//
// A key file is a sequence of fixed-column records:
//
//	0.  MESSAGE: ID                    DEV-MUC3-0001 (NOSC)
//	1.  MESSAGE: TEMPLATE              1
//	...
//	9.  PERP: INDIVIDUAL ID            "TERRORISTS" / "GUERRILLAS"
//
// Each record (chunk) becomes one model.Template, bucketed by document id.
package keys

import (
	"errors"
	"fmt"

	"github.com/ppiankov/mucprep/internal/fixes"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Parser turns key-file chunks into templates
type Parser struct {
	lexer  *Lexer
	fixes  fixes.Tables
	logger zerolog.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithColumnWidth sets the width of the fixed key column
func WithColumnWidth(width int) Option {
	return func(p *Parser) {
		p.lexer = NewLexer(width)
	}
}

// WithFixes replaces the default fix tables
func WithFixes(t fixes.Tables) Option {
	return func(p *Parser) {
		p.fixes = t
	}
}

// WithLogger sets the logger used for data-quality warnings
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// NewParser creates a parser with the default column width and fix tables
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		lexer:  NewLexer(DefaultColumnWidth),
		fixes:  fixes.Default(),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses concatenated key-file lines into templates per document,
// preserving chunk order within each document.
func (p *Parser) Parse(lines []string) (model.TemplatesByDoc, error) {
	out := make(model.TemplatesByDoc)
	for _, chunk := range Chunk(lines) {
		t, err := p.ParseChunk(chunk)
		if err != nil {
			return nil, err
		}
		out[t.MessageID] = append(out[t.MessageID], t)
	}
	return out, nil
}

// ParseFiles reads and parses key files
func (p *Parser) ParseFiles(paths []string) (model.TemplatesByDoc, error) {
	lines, err := ReadFiles(paths)
	if err != nil {
		return nil, err
	}
	return p.Parse(lines)
}

// ParseChunk parses the lines of one record into a template
func (p *Parser) ParseChunk(chunk []string) (*model.Template, error) {
	kvs, err := p.lexer.Split(chunk)
	if err != nil {
		var ge *GrammarError
		if errors.As(err, &ge) && ge.DocID == "" {
			ge.DocID = peekDocID(chunk, p.lexer)
		}
		return nil, err
	}

	docID := ""
	for _, kv := range kvs {
		if kv.Key == model.SlotMessageID {
			docID = CleanDocID(kv.Value)
			break
		}
	}
	if docID == "" {
		return nil, &GrammarError{Slot: model.SlotMessageID, Err: ErrMissingMessageID}
	}

	t := model.NewTemplate(docID)
	for _, kv := range kvs {
		switch kv.Key {
		case model.SlotMessageID:
			t.MessageID = CleanDocID(kv.Value)
		case model.SlotMessageTemplate:
			n, optional, err := ParseTemplateNumber(kv.Value)
			if err != nil {
				return nil, &FormatError{DocID: docID, Slot: kv.Key, Value: kv.Value, Err: err}
			}
			t.MessageTemplate = n
			if optional {
				t.MessageTemplateOptional = true
			}
		case model.SlotIncidentType:
			t.IncidentType = CleanDocID(kv.Value)
		default:
			if !selectedSlots[kv.Key] {
				continue
			}
			f, ok, err := p.parseField(docID, kv.Key, kv.Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", kv.Line, err)
			}
			if ok {
				assign(t, f)
			}
		}
	}

	return t, nil
}

// peekDocID finds the message id of a chunk that failed to lex
func peekDocID(chunk []string, l *Lexer) string {
	for _, line := range chunk {
		key, val := l.columns(line)
		if CleanKey(key) == model.SlotMessageID {
			return CleanDocID(val)
		}
	}
	return ""
}
