package keys

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by GrammarError and FormatError.
var (
	// ErrUnknownKey indicates a key column outside the MUC key vocabulary.
	ErrUnknownKey = errors.New("keys: unknown key")

	// ErrContinuation indicates a continuation line with no preceding key.
	ErrContinuation = errors.New("keys: continuation before any key")

	// ErrMissingMessageID indicates a chunk without a MESSAGE: ID line.
	ErrMissingMessageID = errors.New("keys: chunk has no message id")

	// ErrTemplateNumber indicates a malformed MESSAGE: TEMPLATE value.
	ErrTemplateNumber = errors.New("keys: bad message_template format")

	// ErrMultipleColons indicates more than one top-level colon in a value.
	ErrMultipleColons = errors.New("keys: multiple colons in value")

	// ErrVocabulary indicates a set-fill value outside the slot's vocabulary.
	ErrVocabulary = errors.New("keys: value outside controlled vocabulary")

	// ErrLocation indicates a location expression the location grammar cannot match.
	ErrLocation = errors.New("keys: malformed location")
)

// GrammarError reports a key-file construct the grammar does not allow.
// Grammar errors are fatal: the input format is fixed and fully known.
type GrammarError struct {
	DocID string
	Slot  string
	Value string
	Err   error
}

func (e *GrammarError) Error() string {
	return describe("grammar error", e.DocID, e.Slot, e.Value, e.Err)
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// FormatError reports a field whose value has the wrong shape
type FormatError struct {
	DocID string
	Slot  string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return describe("format error", e.DocID, e.Slot, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func describe(kind, docID, slot, value string, err error) string {
	msg := kind
	if docID != "" {
		msg += " docid=" + docID
	}
	if slot != "" {
		msg += " slot=" + slot
	}
	if value != "" {
		msg += fmt.Sprintf(" value=%q", value)
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}
