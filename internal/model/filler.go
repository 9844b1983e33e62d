package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FillerType distinguishes the two filler shapes
type FillerType string

const (
	FillerSimpleStrings FillerType = "simple_strings" // "A" / "B"
	FillerColonClause   FillerType = "colon_clause"   // "A": "B"
)

// Span is a [Start, End) character range, serialized as [start, end]
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) MarshalJSON() ([]byte, error) {
	return []byte("[" + strconv.Itoa(s.Start) + "," + strconv.Itoa(s.End) + "]"), nil
}

func (s *Span) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("span: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("span: expected 2 offsets, got %d", len(pair))
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// Alternatives are surface forms of one slot value. The key-file
// literal "-" is a null alternative, held as "" and written as null.
type Alternatives []string

func (a Alternatives) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, s := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if s == "" {
			buf.WriteString("null")
			continue
		}
		b, err := marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (a *Alternatives) UnmarshalJSON(data []byte) error {
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("alternatives: %w", err)
	}
	out := make(Alternatives, len(raw))
	for i, s := range raw {
		if s != nil {
			out[i] = *s
		}
	}
	*a = out
	return nil
}

// SentenceMention groups the spans of a filler found in one sentence
type SentenceMention struct {
	Sentence int
	Spans    []Span
}

// SentenceMentions is an ordered mapping from sentence index to spans,
// serialized as a JSON object with ascending decimal keys.
type SentenceMentions []SentenceMention

// Get returns the spans recorded for sentence i
func (m SentenceMentions) Get(i int) []Span {
	for _, sm := range m {
		if sm.Sentence == i {
			return sm.Spans
		}
	}
	return nil
}

// Total counts spans across all sentences
func (m SentenceMentions) Total() int {
	n := 0
	for _, sm := range m {
		n += len(sm.Spans)
	}
	return n
}

func (m SentenceMentions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sm := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + strconv.Itoa(sm.Sentence) + `":`)
		b, err := marshal(sm.Spans)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *SentenceMentions) UnmarshalJSON(data []byte) error {
	var raw map[string][]Span
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sentence mentions: %w", err)
	}
	out := make(SentenceMentions, 0, len(raw))
	for key, spans := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("sentence mentions: bad sentence index %q", key)
		}
		out = append(out, SentenceMention{Sentence: idx, Spans: spans})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sentence < out[j].Sentence })
	*m = out
	return nil
}

// Filler is one slot value. Exactly one of Strings or StringsLHS/StringsRHS is set.
type Filler struct {
	Type       FillerType
	Strings    Alternatives
	StringsLHS Alternatives
	StringsRHS Alternatives
	Optional   bool // Marked with a leading "?"

	// Set by localization; Located marks that the mention fields are meaningful
	Located          bool
	DocumentMentions []Span
	SentenceMentions SentenceMentions
}

type fillerJSON struct {
	Type             FillerType        `json:"type"`
	Strings          Alternatives      `json:"strings,omitempty"`
	StringsLHS       Alternatives      `json:"strings_lhs,omitempty"`
	StringsRHS       Alternatives      `json:"strings_rhs,omitempty"`
	Optional         bool              `json:"optional,omitempty"`
	DocumentMentions *[]Span           `json:"document_mentions,omitempty"`
	SentenceMentions *SentenceMentions `json:"sentence_mentions,omitempty"`
}

func (f Filler) MarshalJSON() ([]byte, error) {
	out := fillerJSON{
		Type:       f.Type,
		Strings:    f.Strings,
		StringsLHS: f.StringsLHS,
		StringsRHS: f.StringsRHS,
		Optional:   f.Optional,
	}
	if f.Located {
		doc := f.DocumentMentions
		if doc == nil {
			doc = []Span{}
		}
		sent := f.SentenceMentions
		out.DocumentMentions = &doc
		out.SentenceMentions = &sent
	}
	return marshal(out)
}

func (f *Filler) UnmarshalJSON(data []byte) error {
	var in fillerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("filler: %w", err)
	}
	*f = Filler{
		Type:       in.Type,
		Strings:    in.Strings,
		StringsLHS: in.StringsLHS,
		StringsRHS: in.StringsRHS,
		Optional:   in.Optional,
	}
	if in.DocumentMentions != nil {
		f.Located = true
		f.DocumentMentions = *in.DocumentMentions
	}
	if in.SentenceMentions != nil {
		f.Located = true
		f.SentenceMentions = *in.SentenceMentions
	}
	return nil
}

// Mentions returns the strings searched for in the document: Strings, or
// StringsLHS for a colon clause
func (f *Filler) Mentions() Alternatives {
	if f.IsColonClause() {
		return f.StringsLHS
	}
	return f.Strings
}

// ResetMentions clears localization results and marks the filler located
func (f *Filler) ResetMentions() {
	f.Located = true
	f.DocumentMentions = make([]Span, 0)
	f.SentenceMentions = make(SentenceMentions, 0)
}

// NewSimpleFiller builds a simple_strings filler
func NewSimpleFiller(strings ...string) *Filler {
	return &Filler{Type: FillerSimpleStrings, Strings: strings}
}

// NewColonFiller builds a colon_clause filler
func NewColonFiller(lhs, rhs []string) *Filler {
	return &Filler{Type: FillerColonClause, StringsLHS: lhs, StringsRHS: rhs}
}

// IsColonClause reports whether the filler is a "lhs: rhs" qualifier
func (f *Filler) IsColonClause() bool {
	return f.Type == FillerColonClause
}

// Clone returns a deep copy of the filler
func (f *Filler) Clone() *Filler {
	if f == nil {
		return nil
	}
	c := &Filler{
		Type:             f.Type,
		Strings:          cloneStrings(f.Strings),
		StringsLHS:       cloneStrings(f.StringsLHS),
		StringsRHS:       cloneStrings(f.StringsRHS),
		Optional:         f.Optional,
		Located:          f.Located,
		DocumentMentions: cloneSpans(f.DocumentMentions),
	}
	if f.SentenceMentions != nil {
		c.SentenceMentions = make(SentenceMentions, 0, len(f.SentenceMentions))
		for _, sm := range f.SentenceMentions {
			c.SentenceMentions = append(c.SentenceMentions, SentenceMention{
				Sentence: sm.Sentence,
				Spans:    cloneSpans(sm.Spans),
			})
		}
	}
	return c
}

func cloneSpans(s []Span) []Span {
	if s == nil {
		return nil
	}
	return append([]Span{}, s...)
}

func cloneStrings(a Alternatives) Alternatives {
	if a == nil {
		return nil
	}
	return append(Alternatives(nil), a...)
}
