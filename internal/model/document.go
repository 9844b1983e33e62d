package model

// RawDocument is one entry of the docs JSON produced from raw MUC text files
type RawDocument struct {
	DocID      string   `json:"docid"`
	CharStart  int      `json:"char_start"`       // Offset just past the id header in the raw file
	CharBefore int      `json:"char_before"`      // Offset of the id header in the raw file
	CharEnd    int      `json:"char_end"`         // Offset of the next header (or end of file)
	Source     string   `json:"source,omitempty"` // e.g. "NOSC" in "DEV-MUC3-0001 (NOSC)"
	Dateline   string   `json:"dateline"`
	Tags       []string `json:"tags"`
	Text       string   `json:"text"`
}

// RawDocuments maps document id to its raw entry
type RawDocuments map[string]*RawDocument

// ProcessedDocument is a document with cleaned text, segmentation and localized templates
type ProcessedDocument struct {
	Text      string      `json:"text"`
	Sections  []Span      `json:"sections"`  // Paragraph offsets into Text
	Sentences []Span      `json:"sentences"` // Sentence offsets into Text
	Templates []*Template `json:"templates"` // Non-sentinel templates only
}

// SentenceText returns the text of sentence i
func (d *ProcessedDocument) SentenceText(i int) string {
	s := d.Sentences[i]
	return d.Text[s.Start:s.End]
}

// ProcessedDocuments maps document id to its processed entry
type ProcessedDocuments map[string]*ProcessedDocument

// UnlocatableMentions maps document id to the sorted, distinct filler strings
// that were not found in the document text
type UnlocatableMentions map[string][]string
