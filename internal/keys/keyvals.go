package keys

import (
	"regexp"
	"strings"
)

// DefaultColumnWidth is the smallest key column that fits every heading
// in both the dev and test key files.
const DefaultColumnWidth = 33

// Headings is the full MUC key vocabulary, as printed in the key files
var Headings = []string{
	"MESSAGE: ID",
	"MESSAGE: TEMPLATE",
	"INCIDENT: DATE",
	"INCIDENT: LOCATION",
	"INCIDENT: TYPE",
	"INCIDENT: STAGE OF EXECUTION",
	"INCIDENT: INSTRUMENT ID",
	"INCIDENT: INSTRUMENT TYPE",
	"PERP: INCIDENT CATEGORY",
	"PERP: INDIVIDUAL ID",
	"PERP: ORGANIZATION ID",
	"PERP: ORGANIZATION CONFIDENCE",
	"PHYS TGT: ID",
	"PHYS TGT: TYPE",
	"PHYS TGT: NUMBER",
	"PHYS TGT: FOREIGN NATION",
	"PHYS TGT: EFFECT OF INCIDENT",
	"PHYS TGT: TOTAL NUMBER",
	"HUM TGT: NAME",
	"HUM TGT: DESCRIPTION",
	"HUM TGT: TYPE",
	"HUM TGT: NUMBER",
	"HUM TGT: FOREIGN NATION",
	"HUM TGT: EFFECT OF INCIDENT",
	"HUM TGT: TOTAL NUMBER",
}

var (
	nonKeyRe        = regexp.MustCompile(`[^A-Z]+`)
	parentheticalRe = regexp.MustCompile(`\s*\(.*$`)
	knownKeys       = make(map[string]bool, len(Headings))
)

func init() {
	for _, h := range Headings {
		knownKeys[CleanKey(h)] = true
	}
}

// CleanKey turns a key column into a slot name: "0.  MESSAGE: ID" -> "message_id"
func CleanKey(key string) string {
	return strings.ToLower(strings.Trim(nonKeyRe.ReplaceAllString(key, "_"), "_"))
}

// CleanDocID strips a trailing parenthetical annotation: "DEV-MUC3-0001 (NOSC)" -> "DEV-MUC3-0001"
func CleanDocID(value string) string {
	return parentheticalRe.ReplaceAllString(value, "")
}

// IsKnownKey reports whether key is a cleaned MUC heading
func IsKnownKey(key string) bool {
	return knownKeys[key]
}

// KeyVal is one (slot, raw value) pair of a chunk
type KeyVal struct {
	Key   string
	Value string
	Line  int // 1-based line within the chunk
}

// Lexer splits chunk lines into fixed-column key/value pairs
type Lexer struct {
	width int
}

// NewLexer creates a lexer with the given key column width
func NewLexer(width int) *Lexer {
	if width <= 0 {
		width = DefaultColumnWidth
	}
	return &Lexer{width: width}
}

// Split lexes one chunk. A line with a blank key column continues the
// previous key: it is a further value for that key, unless the previous
// value ends in a dangling "/" alternation, in which case it is appended
// to that value.
func (l *Lexer) Split(chunk []string) ([]KeyVal, error) {
	var (
		out    []KeyVal
		curKey string
	)

	for i, line := range chunk {
		keyText, valText := l.columns(line)

		if keyText == "" {
			if curKey == "" {
				return nil, &GrammarError{Value: line, Err: ErrContinuation}
			}
			if valText == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Key == curKey && strings.HasSuffix(out[n-1].Value, "/") {
				out[n-1].Value += " " + valText
				continue
			}
		} else {
			curKey = CleanKey(keyText)
			if !knownKeys[curKey] {
				return nil, &GrammarError{Slot: curKey, Value: keyText, Err: ErrUnknownKey}
			}
		}

		out = append(out, KeyVal{Key: curKey, Value: valText, Line: i + 1})
	}

	return out, nil
}

func (l *Lexer) columns(line string) (string, string) {
	if len(line) <= l.width {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:l.width]), strings.TrimSpace(line[l.width:])
}
