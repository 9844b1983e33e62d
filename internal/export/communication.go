// Package export converts processed documents into interchange
// communications (text, sections, sentences, tokens, entities and
// template situations) and annotates exported archives with model
// predictions.
package export

// Communication is one exported document
type Communication struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Text          string         `json:"text"`
	Sections      []Section      `json:"sections"`
	Metadata      Metadata       `json:"metadata"`
	EntitySets    []EntitySet    `json:"entity_sets"`
	SituationSets []SituationSet `json:"situation_sets"`
}

// Metadata records which tool produced an annotation and when
type Metadata struct {
	Tool      string `json:"tool"`
	Timestamp int64  `json:"timestamp"`
}

// Section is a paragraph of the communication text
type Section struct {
	Start     int        `json:"start"`
	End       int        `json:"end"`
	Sentences []Sentence `json:"sentences"`
}

// Sentence holds its tokens; token offsets are into the communication text
type Sentence struct {
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Tokens []Token `json:"tokens"`
}

// Token is one word or punctuation mark. Index is its position among all
// tokens of the communication.
type Token struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// EntityMention covers tokens TokenStart..TokenEnd, both inclusive
type EntityMention struct {
	TokenStart int    `json:"token_start"`
	TokenEnd   int    `json:"token_end"`
	Text       string `json:"text"`
}

// Entity groups the mentions of one template filler
type Entity struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Mentions []EntityMention `json:"mentions"`
}

// EntitySet is the entities added by one tool
type EntitySet struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
}

// Argument binds a role to an entity
type Argument struct {
	Role     string `json:"role"`
	EntityID string `json:"entity_id"`
}

// Situation is one template: Kind is its incident type
type Situation struct {
	Type      string     `json:"type"`
	Kind      string     `json:"kind"`
	Arguments []Argument `json:"arguments"`
}

// SituationSet is the situations added by one tool
type SituationSet struct {
	Metadata   Metadata    `json:"metadata"`
	Situations []Situation `json:"situations"`
}

// EntitySet returns the entity set produced by tool, or nil
func (c *Communication) EntitySet(tool string) *EntitySet {
	for i := range c.EntitySets {
		if c.EntitySets[i].Metadata.Tool == tool {
			return &c.EntitySets[i]
		}
	}
	return nil
}

// SituationSet returns the situation set produced by tool, adding an empty
// one stamped with meta when there is none
func (c *Communication) SituationSet(meta Metadata) *SituationSet {
	for i := range c.SituationSets {
		if c.SituationSets[i].Metadata.Tool == meta.Tool {
			return &c.SituationSets[i]
		}
	}
	c.SituationSets = append(c.SituationSets, SituationSet{Metadata: meta, Situations: []Situation{}})
	return &c.SituationSets[len(c.SituationSets)-1]
}

// Tokens returns every token in document order
func (c *Communication) Tokens() []Token {
	var out []Token
	for _, sec := range c.Sections {
		for _, sent := range sec.Sentences {
			out = append(out, sent.Tokens...)
		}
	}
	return out
}
