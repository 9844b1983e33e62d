package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/texts"
)

const (
	CommunicationType = "muc_document"
	SituationType     = "EVENT_TEMPLATE"
	EntityType        = "ENTITY"
	Tool              = "mucprep"
)

// ErrSectionBounds indicates sentences out of order or outside every section
var ErrSectionBounds = errors.New("export: sentence outside section bounds")

// ErrMisaligned indicates a mention boundary that falls between tokens
var ErrMisaligned = errors.New("export: mention boundary not on a token")

// Builder converts processed documents into communications
type Builder struct {
	roles     []Role
	lowercase bool
	now       func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithRoles sets the exported slots and their roles
func WithRoles(roles []Role) Option {
	return func(b *Builder) {
		b.roles = roles
	}
}

// WithLowercase exports lower-cased text; offsets are unchanged
func WithLowercase(lowercase bool) Option {
	return func(b *Builder) {
		b.lowercase = lowercase
	}
}

// WithClock sets the time source for annotation timestamps
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a builder exporting DefaultRoles
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		roles: DefaultRoles,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Variant names the case variant the builder produces
func (b *Builder) Variant() string {
	if b.lowercase {
		return "lowercase"
	}
	return "uppercase"
}

// Build converts one processed document. Every filler of an exported slot
// becomes one entity whose mentions are the filler's document mentions;
// every template becomes one situation.
func (b *Builder) Build(docID string, doc *model.ProcessedDocument) (*Communication, error) {
	text := doc.Text
	if b.lowercase {
		text = texts.LowerASCII(text)
	}

	sections, tokens, err := buildSections(text, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docID, err)
	}

	char2tok := make([]int, len(text))
	for i := range char2tok {
		char2tok[i] = -1
	}
	for _, tok := range tokens {
		for i := tok.Start; i < tok.End; i++ {
			char2tok[i] = tok.Index
		}
	}

	meta := Metadata{Tool: Tool, Timestamp: b.now().Unix()}
	comm := &Communication{
		ID:            docID,
		Type:          CommunicationType,
		Text:          text,
		Sections:      sections,
		Metadata:      meta,
		EntitySets:    []EntitySet{{Metadata: meta, Entities: []Entity{}}},
		SituationSets: []SituationSet{{Metadata: meta, Situations: []Situation{}}},
	}
	entities := &comm.EntitySets[0]
	situations := &comm.SituationSets[0]

	for _, t := range doc.Templates {
		args := []Argument{}
		for _, r := range b.roles {
			for _, f := range t.Fillers(r.Slot) {
				entity := Entity{
					ID:       fmt.Sprintf("%s-E%d", docID, len(entities.Entities)),
					Type:     EntityType,
					Mentions: []EntityMention{},
				}
				for _, m := range f.DocumentMentions {
					mention, err := toMention(text, char2tok, m)
					if err != nil {
						return nil, fmt.Errorf("%s %s: %w", docID, r.Slot, err)
					}
					entity.Mentions = append(entity.Mentions, mention)
				}
				entities.Entities = append(entities.Entities, entity)
				args = append(args, Argument{Role: r.Role, EntityID: entity.ID})
			}
		}
		situations.Situations = append(situations.Situations, Situation{
			Type:      SituationType,
			Kind:      strings.ToLower(t.IncidentType),
			Arguments: args,
		})
	}

	return comm, nil
}

func toMention(text string, char2tok []int, m model.Span) (EntityMention, error) {
	if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
		return EntityMention{}, fmt.Errorf("%w: span %v", ErrMisaligned, m)
	}
	start, end := char2tok[m.Start], char2tok[m.End-1]
	if start < 0 || end < 0 {
		return EntityMention{}, fmt.Errorf("%w: %q at %v", ErrMisaligned, text[m.Start:m.End], m)
	}
	return EntityMention{TokenStart: start, TokenEnd: end, Text: text[m.Start:m.End]}, nil
}

// buildSections assigns each sentence to the first section, at or after
// the current one, that contains it. Sections without sentences are kept.
func buildSections(text string, doc *model.ProcessedDocument) ([]Section, []Token, error) {
	sections := make([]Section, len(doc.Sections))
	for i, s := range doc.Sections {
		sections[i] = Section{Start: s.Start, End: s.End, Sentences: []Sentence{}}
	}

	var tokens []Token
	cur := 0
	for _, s := range doc.Sentences {
		for cur < len(sections) && !(sections[cur].Start <= s.Start && s.End <= sections[cur].End) {
			cur++
		}
		if cur == len(sections) {
			return nil, nil, fmt.Errorf("%w: sentence %v", ErrSectionBounds, s)
		}

		sent := Sentence{Start: s.Start, End: s.End, Tokens: []Token{}}
		for _, tok := range texts.TokenizeSpan(text, s) {
			t := Token{Index: len(tokens), Text: tok.Text, Start: tok.Span.Start, End: tok.Span.End}
			sent.Tokens = append(sent.Tokens, t)
			tokens = append(tokens, t)
		}
		sections[cur].Sentences = append(sections[cur].Sentences, sent)
	}

	return sections, tokens, nil
}

// BuildAll converts every document, ordered by document id
func (b *Builder) BuildAll(docs model.ProcessedDocuments) ([]*Communication, error) {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Communication, 0, len(ids))
	for _, id := range ids {
		c, err := b.Build(id, docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
