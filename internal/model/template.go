package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TemplateNumber is a template index within a document, or NoTemplate for "*"
type TemplateNumber int

// NoTemplate marks a sentinel record: the document has no annotated incident
const NoTemplate TemplateNumber = -1

func (n TemplateNumber) MarshalJSON() ([]byte, error) {
	if n == NoTemplate {
		return []byte(`"*"`), nil
	}
	return []byte(strconv.Itoa(int(n))), nil
}

func (n *TemplateNumber) UnmarshalJSON(data []byte) error {
	if string(data) == `"*"` {
		*n = NoTemplate
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("template number: %w", err)
	}
	*n = TemplateNumber(v)
	return nil
}

func (n TemplateNumber) String() string {
	if n == NoTemplate {
		return "*"
	}
	return strconv.Itoa(int(n))
}

// SlotValue is either an explicit null ("-" in the key file) or a list of fillers.
// Non-list slots hold at most one filler.
type SlotValue struct {
	Null    bool
	Fillers []*Filler
}

// NullSlot returns an explicit null slot value
func NullSlot() *SlotValue {
	return &SlotValue{Null: true}
}

// Template is one incident record for one document
type Template struct {
	MessageID               string         // Document id, parenthetical suffix removed
	MessageTemplate         TemplateNumber // Index within the document, or NoTemplate
	MessageTemplateOptional bool           // Source marked the index "(OPTIONAL)"
	IncidentType            string         // e.g. "BOMBING", "ATTACK"

	Slots map[string]*SlotValue // Keyed by slot name, absent when "*"
}

// NewTemplate returns an empty template for the given document
func NewTemplate(messageID string) *Template {
	return &Template{
		MessageID: messageID,
		Slots:     make(map[string]*SlotValue),
	}
}

// IsSentinel reports whether the template is a "no incident" record
func (t *Template) IsSentinel() bool {
	return t.MessageTemplate == NoTemplate
}

// Fillers returns the fillers of a slot, or nil when absent or null
func (t *Template) Fillers(slot string) []*Filler {
	v, ok := t.Slots[slot]
	if !ok || v == nil {
		return nil
	}
	return v.Fillers
}

// Clone returns a deep copy of the template
func (t *Template) Clone() *Template {
	c := &Template{
		MessageID:               t.MessageID,
		MessageTemplate:         t.MessageTemplate,
		MessageTemplateOptional: t.MessageTemplateOptional,
		IncidentType:            t.IncidentType,
		Slots:                   make(map[string]*SlotValue, len(t.Slots)),
	}
	for slot, v := range t.Slots {
		if v == nil {
			continue
		}
		cv := &SlotValue{Null: v.Null}
		for _, f := range v.Fillers {
			cv.Fillers = append(cv.Fillers, f.Clone())
		}
		c.Slots[slot] = cv
	}
	return c
}

// MarshalJSON writes the template with keys in canonical order
func (t *Template) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		b, err := marshal(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		buf.Write(b)
		return nil
	}

	if err := write(SlotMessageID, t.MessageID); err != nil {
		return nil, err
	}
	if err := write(SlotMessageTemplate, t.MessageTemplate); err != nil {
		return nil, err
	}
	if t.MessageTemplateOptional {
		if err := write(SlotMessageTemplateOptional, true); err != nil {
			return nil, err
		}
	}
	if t.IncidentType != "" {
		if err := write(SlotIncidentType, t.IncidentType); err != nil {
			return nil, err
		}
	}

	for _, slot := range FillerSlots {
		v, ok := t.Slots[slot]
		if !ok || v == nil {
			continue
		}
		var value any
		switch {
		case v.Null && len(v.Fillers) == 0:
			value = nil
		case !IsListSlot(slot):
			if len(v.Fillers) == 0 {
				value = nil
			} else {
				value = v.Fillers[len(v.Fillers)-1]
			}
		default:
			value = v.Fillers
		}
		if err := write(slot, value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a template written by MarshalJSON
func (t *Template) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	*t = Template{Slots: make(map[string]*SlotValue)}
	for key, msg := range raw {
		var err error
		switch key {
		case SlotMessageID:
			err = json.Unmarshal(msg, &t.MessageID)
		case SlotMessageTemplate:
			err = json.Unmarshal(msg, &t.MessageTemplate)
		case SlotMessageTemplateOptional:
			err = json.Unmarshal(msg, &t.MessageTemplateOptional)
		case SlotIncidentType:
			err = json.Unmarshal(msg, &t.IncidentType)
		default:
			t.Slots[key], err = unmarshalSlot(key, msg)
		}
		if err != nil {
			return fmt.Errorf("template %s: %w", key, err)
		}
	}
	return nil
}

func unmarshalSlot(slot string, msg json.RawMessage) (*SlotValue, error) {
	if string(bytes.TrimSpace(msg)) == "null" {
		return NullSlot(), nil
	}
	if !IsListSlot(slot) {
		var f Filler
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, err
		}
		return &SlotValue{Fillers: []*Filler{&f}}, nil
	}
	var fillers []*Filler
	if err := json.Unmarshal(msg, &fillers); err != nil {
		return nil, err
	}
	return &SlotValue{Fillers: fillers}, nil
}

// TemplatesByDoc maps document id to its templates in key-file order
type TemplatesByDoc map[string][]*Template
