package keys

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
)

var (
	templateNumberRe = regexp.MustCompile(`^\d+$`)
	optionalNumberRe = regexp.MustCompile(`^(\d+) \(OPTIONAL\)$`)
)

// selectedSlots are the slots kept in the output. Other known keys are
// recognised by the lexer and dropped here.
var selectedSlots = map[string]bool{
	model.SlotPerpIndividualID:           true,
	model.SlotPerpOrganizationID:         true,
	model.SlotPerpOrganizationConfidence: true,
	model.SlotPerpIncidentCategory:       true,
	model.SlotPhysTgtID:                  true,
	model.SlotHumTgtName:                 true,
	model.SlotHumTgtDescription:          true,
	model.SlotHumTgtEffectOfIncident:     true,
	model.SlotPhysTgtEffectOfIncident:    true,
	model.SlotIncidentInstrumentID:       true,
	model.SlotIncidentLocation:           true,
	model.SlotIncidentDate:               true,
	model.SlotIncidentStageOfExecution:   true,
}

// IsSelectedSlot reports whether slot values are parsed and kept
func IsSelectedSlot(slot string) bool {
	return selectedSlots[slot]
}

// field is a parsed slot value before assembly
type field struct {
	slot    string
	null    bool
	fillers []*model.Filler
}

// ParseTemplateNumber parses a MESSAGE: TEMPLATE value: "3", "*" or "3 (OPTIONAL)"
func ParseTemplateNumber(value string) (model.TemplateNumber, bool, error) {
	switch {
	case templateNumberRe.MatchString(value):
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, false, err
		}
		return model.TemplateNumber(n), false, nil
	case value == "*":
		return model.NoTemplate, false, nil
	}
	if m := optionalNumberRe.FindStringSubmatch(value); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false, err
		}
		return model.TemplateNumber(n), true, nil
	}
	return 0, false, ErrTemplateNumber
}

// parseField parses the raw value of a selected slot. ok is false when the
// slot is absent ("*").
func (p *Parser) parseField(docID, slot, value string) (field, bool, error) {
	switch value {
	case "*":
		return field{}, false, nil
	case "-":
		return field{slot: slot, null: true}, true, nil
	}

	if slot == model.SlotIncidentLocation {
		fillers, err := p.parseLocation(docID, value)
		if err != nil {
			return field{}, false, err
		}
		return field{slot: slot, fillers: fillers}, true, nil
	}

	value = p.fixes.FixRawValue(docID, value)

	if !strings.Contains(value, `"`) && needsQuotes(slot) {
		p.logger.Warn().
			Str("docid", docID).
			Str("slot", slot).
			Str("value", value).
			Msg("apparent data error, missing quotes; adding back in")
		value = `"` + value + `"`
	}

	filler, err := p.parseFiller(docID, slot, value)
	if err != nil {
		return field{}, false, err
	}
	return field{slot: slot, fillers: []*model.Filler{filler}}, true, nil
}

// needsQuotes reports whether slot strings are quote-delimited in the key files
func needsQuotes(slot string) bool {
	return slot != model.SlotIncidentDate && !model.IsVocabularySlot(slot)
}

// parseFiller parses one filler: an optional "?" marker, then either a
// colon clause or a list of alternatives.
func (p *Parser) parseFiller(docID, slot, value string) (*model.Filler, error) {
	optional := false
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "?") {
		optional = true
		value = strings.TrimLeft(value[1:], " ")
	}

	colons := indexTopLevel(value, ':')
	if len(colons) > 1 {
		return nil, &GrammarError{DocID: docID, Slot: slot, Value: value, Err: ErrMultipleColons}
	}

	if len(colons) == 1 {
		lhs := strings.TrimSpace(value[:colons[0]])
		rhs := strings.TrimSpace(value[colons[0]+1:])
		lhs = strings.TrimPrefix(lhs, "(")
		lhs = strings.TrimSuffix(lhs, ")")

		lhsStrings, err := p.parseAlternatives(docID, slot, lhs)
		if err != nil {
			return nil, err
		}
		// The right-hand side names an entity regardless of slot
		rhsStrings, err := p.parseAlternatives(docID, "", rhs)
		if err != nil {
			return nil, err
		}
		f := model.NewColonFiller(lhsStrings, rhsStrings)
		f.Optional = optional
		return f, nil
	}

	strs, err := p.parseAlternatives(docID, slot, value)
	if err != nil {
		return nil, err
	}
	f := model.NewSimpleFiller(strs...)
	f.Optional = optional
	return f, nil
}

// parseAlternatives splits value on top-level "/" and normalizes each
// alternative for the slot. A bare "-" is a null alternative.
func (p *Parser) parseAlternatives(docID, slot, value string) (model.Alternatives, error) {
	parts := splitTopLevel(strings.TrimSpace(value), '/')
	out := make(model.Alternatives, 0, len(parts))

	for _, part := range parts {
		s := strings.TrimSpace(part)
		if s == "-" {
			out = append(out, "")
			continue
		}

		switch {
		case model.IsVocabularySlot(slot):
			if !model.InVocabulary(slot, s) {
				return nil, &GrammarError{DocID: docID, Slot: slot, Value: s, Err: ErrVocabulary}
			}
		case slot == model.SlotIncidentDate:
			s = strings.TrimPrefix(s, "(")
			s = strings.TrimSuffix(s, ")")
			s = strings.TrimSpace(decodeEscapes(s))
		default:
			if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
				p.logger.Warn().
					Str("docid", docID).
					Str("slot", slot).
					Str("value", s).
					Msg("alternative not fully quoted")
			}
			s = strings.TrimPrefix(s, `"`)
			s = strings.TrimSuffix(s, `"`)
			s = strings.TrimSpace(decodeEscapes(s))
		}

		out = append(out, p.fixes.FixString(s))
	}

	return out, nil
}

// decodeEscapes decodes C-style backslash escapes. A malformed escape is
// kept literally.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for len(s) > 0 {
		if s[0] != '\\' || len(s) == 1 {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		var quote byte
		if s[1] == '"' || s[1] == '\'' {
			quote = s[1]
		}
		r, _, tail, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String()
}

// indexTopLevel returns the offsets of sep outside double-quoted strings
func indexTopLevel(s string, sep byte) []int {
	var idx []int
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && inQuote:
			i++
		case c == '"':
			inQuote = !inQuote
		case c == sep && !inQuote:
			idx = append(idx, i)
		}
	}
	return idx
}

// splitTopLevel splits s on sep outside double-quoted strings
func splitTopLevel(s string, sep byte) []string {
	idx := indexTopLevel(s, sep)
	parts := make([]string, 0, len(idx)+1)
	start := 0
	for _, i := range idx {
		parts = append(parts, s[start:i])
		start = i + 1
	}
	return append(parts, s[start:])
}
