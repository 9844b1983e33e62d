// Package view pretty-prints documents and their key templates, either as
// one text dump or through an interactive pager.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/rs/zerolog"
)

// Offset is the indent of slot values: the longest parsed slot name plus two
var Offset = len(model.SlotPerpOrganizationConfidence) + 2

var (
	entitySlots = []string{
		model.SlotPerpIndividualID,
		model.SlotPerpOrganizationID,
		model.SlotPhysTgtID,
		model.SlotHumTgtName,
		model.SlotHumTgtDescription,
		model.SlotIncidentInstrumentID,
	}
	ruler = strings.Repeat("-", 80)
)

// Printer writes templates in a fixed slot layout. Problems with a
// template (missing slots, unexpected shapes) are logged, never fatal.
type Printer struct {
	w      io.Writer
	indent string
	logger zerolog.Logger
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, logger zerolog.Logger) *Printer {
	return &Printer{
		w:      w,
		indent: strings.Repeat(" ", Offset),
		logger: logger,
	}
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) value(s string) {
	p.line("%s%s", p.indent, s)
}

// PrintDocument writes the document header, its text and its templates
func (p *Printer) PrintDocument(docID, text string, templates []*model.Template) {
	p.line("=============")
	p.line("%s", docID)
	p.line("=============\n")
	p.line("%s\n", text)
	p.line("---------")
	p.line("Templates")
	p.line("---------")
	for _, t := range templates {
		p.line("")
		p.PrintTemplate(t)
	}
}

// PrintTemplate writes one template
func (p *Printer) PrintTemplate(t *model.Template) {
	warn := func() *zerolog.Event {
		return p.logger.Warn().Str("docid", t.MessageID).Str("template", t.MessageTemplate.String())
	}

	p.line("%s:", model.SlotMessageTemplate)
	p.value(t.MessageTemplate.String())

	if t.IncidentType == "" {
		warn().Str("slot", model.SlotIncidentType).Msg("slot missing from template")
	} else {
		p.line("%s:", model.SlotIncidentType)
		p.value(t.IncidentType)
	}

	for _, slot := range []string{model.SlotIncidentStageOfExecution, model.SlotPerpIncidentCategory} {
		v, ok := t.Slots[slot]
		if !ok {
			warn().Str("slot", slot).Msg("slot missing from template")
			continue
		}
		p.line("%s:", slot)
		if v.Null || len(v.Fillers) == 0 {
			p.value("-")
			continue
		}
		strs := v.Fillers[len(v.Fillers)-1].Strings
		if len(strs) != 1 {
			warn().Str("slot", slot).Strs("values", strs).Msg("slot has multiple values")
		}
		if len(strs) > 0 {
			p.value(display(strs[0]))
		}
	}

	p.printDate(t)
	p.printLocation(t, warn)
	p.printPairs(t, model.SlotHumTgtEffectOfIncident)
	p.printPairs(t, model.SlotPhysTgtEffectOfIncident)
	for _, slot := range entitySlots {
		p.printPairs(t, slot)
	}
	p.printPairs(t, model.SlotPerpOrganizationConfidence)
	p.line("%s", ruler)
}

func (p *Printer) printDate(t *model.Template) {
	p.line("%s:", model.SlotIncidentDate)
	for _, f := range t.Fillers(model.SlotIncidentDate) {
		p.value(join(f.Strings))
	}
}

func (p *Printer) printLocation(t *model.Template, warn func() *zerolog.Event) {
	p.line("%s:", model.SlotIncidentLocation)
	fillers := t.Fillers(model.SlotIncidentLocation)
	if len(fillers) == 0 {
		warn().Str("slot", model.SlotIncidentLocation).Msg("slot missing from template")
		return
	}
	for _, f := range fillers {
		if f.IsColonClause() {
			p.value(fmt.Sprintf("%s (%s)", join(f.StringsLHS), join(f.StringsRHS)))
		} else {
			p.value(join(f.Strings))
		}
	}
}

// printPairs writes "lhs: rhs, rhs" for colon clauses and the joined
// alternatives otherwise
func (p *Printer) printPairs(t *model.Template, slot string) {
	p.line("%s:", slot)
	for _, f := range t.Fillers(slot) {
		if f.IsColonClause() {
			lhs := ""
			if len(f.StringsLHS) > 0 {
				lhs = display(f.StringsLHS[0])
			}
			p.value(fmt.Sprintf("%s: %s", lhs, join(f.StringsRHS)))
		} else {
			p.value(join(f.Strings))
		}
	}
}

func display(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func join(a model.Alternatives) string {
	out := make([]string, len(a))
	for i, s := range a {
		out[i] = display(s)
	}
	return strings.Join(out, ", ")
}
