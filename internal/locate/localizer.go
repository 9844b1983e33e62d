// Package locate aligns template filler strings to character offsets in
// their document and in each of its sentences.
package locate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ppiankov/mucprep/internal/fixes"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/rs/zerolog"
)

// ErrFillerShape indicates a colon clause in a slot whose mentions cannot
// be taken from the left-hand side
var ErrFillerShape = errors.New("locate: colon clause filler in entity slot")

// Mismatch records a filler whose sentence-level mention count differs
// from its document-level count, typically a mention spanning a sentence
// boundary
type Mismatch struct {
	Slot          string
	Mentions      []string // Strings whose counts disagreed
	DocumentCount int
	SentenceCount int
}

// Result is the outcome of localizing one document
type Result struct {
	DocID                string
	Templates            []*model.Template // Non-sentinel templates, localized in place
	UnlocatableEntities  []string          // Sorted, distinct
	UnlocatableLocations []string          // Sorted, distinct
	Mismatches           []Mismatch
	Located              int // Fillers with at least one document mention
	Unlocated            int // Fillers with none
}

// Localizer finds filler mentions in document text
type Localizer struct {
	fixes  fixes.Tables
	logger zerolog.Logger
}

// NewLocalizer creates a localizer using the given fix tables
func NewLocalizer(t fixes.Tables, logger zerolog.Logger) *Localizer {
	return &Localizer{
		fixes:  t,
		logger: logger,
	}
}

// LocateDocument localizes every entity filler of the document's
// non-sentinel templates. Templates are modified in place; mention fields
// are recomputed from scratch, so running twice gives the same result.
// Sentence-level spans are relative to the start of their sentence.
func (l *Localizer) LocateDocument(docID, text string, sentences []model.Span, templates []*model.Template) (*Result, error) {
	res := &Result{
		DocID:     docID,
		Templates: make([]*model.Template, 0, len(templates)),
	}
	entities := make(map[string]bool)
	locations := make(map[string]bool)

	for _, t := range templates {
		if t.IsSentinel() {
			continue
		}

		for _, slot := range model.EntitySlots {
			for _, f := range t.Fillers(slot) {
				ok, err := l.locateFiller(docID, slot, text, sentences, f, res, entities, locations)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				if len(f.DocumentMentions) > 0 {
					res.Located++
				} else {
					res.Unlocated++
				}
			}
		}

		res.Templates = append(res.Templates, t)
	}

	res.UnlocatableEntities = sortedKeys(entities)
	res.UnlocatableLocations = sortedKeys(locations)
	return res, nil
}

// locateFiller fills in the mentions of one filler. ok is false when the
// filler is skipped entirely.
func (l *Localizer) locateFiller(
	docID, slot, text string,
	sentences []model.Span,
	f *model.Filler,
	res *Result,
	entities, locations map[string]bool,
) (bool, error) {
	if f.IsColonClause() {
		switch slot {
		case model.SlotIncidentLocation:
		case model.SlotHumTgtDescription:
			// The entity on the right is already a hum_tgt_name filler
			return false, nil
		default:
			return false, fmt.Errorf("%w: docid=%s slot=%s", ErrFillerShape, docID, slot)
		}
	}

	mentions := l.filterExcluded(docID, f.Mentions())
	if f.IsColonClause() {
		f.StringsLHS = mentions
	} else {
		f.Strings = mentions
	}

	f.ResetMentions()
	bySentence := make(map[int][]model.Span)

	var (
		docTotal, sentTotal int
		mismatched          []string
	)

	for _, m := range mentions {
		if m == "" {
			l.logger.Warn().
				Str("docid", docID).
				Str("slot", slot).
				Msg("skipping null alternative")
			continue
		}

		m = normalizeBrackets.Replace(l.fixes.FixString(m))

		docSpans := FindAll(text, m)
		if len(docSpans) == 0 {
			if slot == model.SlotIncidentLocation {
				locations[m] = true
			} else {
				entities[m] = true
			}
			continue
		}
		f.DocumentMentions = append(f.DocumentMentions, docSpans...)

		inSentences := 0
		for i, s := range sentences {
			spans := FindAll(text[s.Start:s.End], m)
			if len(spans) > 0 {
				bySentence[i] = append(bySentence[i], spans...)
				inSentences += len(spans)
			}
		}

		docTotal += len(docSpans)
		sentTotal += inSentences
		if inSentences != len(docSpans) {
			mismatched = append(mismatched, m)
		}
	}

	f.SentenceMentions = toSentenceMentions(bySentence)

	if len(mismatched) > 0 {
		res.Mismatches = append(res.Mismatches, Mismatch{
			Slot:          slot,
			Mentions:      mismatched,
			DocumentCount: docTotal,
			SentenceCount: sentTotal,
		})
		l.logger.Warn().
			Str("docid", docID).
			Str("slot", slot).
			Strs("mentions", mismatched).
			Int("document_mentions", docTotal).
			Int("sentence_mentions", sentTotal).
			Msg("document-level and sentence-level mention counts differ")
	}

	return true, nil
}

// filterExcluded drops mentions on the document's exclusion list
func (l *Localizer) filterExcluded(docID string, mentions model.Alternatives) model.Alternatives {
	if len(l.fixes.ExcludedMentions[docID]) == 0 {
		return mentions
	}
	out := make(model.Alternatives, 0, len(mentions))
	for _, m := range mentions {
		if l.fixes.Excluded(docID, m) {
			l.logger.Debug().Str("docid", docID).Str("mention", m).Msg("excluded mention")
			continue
		}
		out = append(out, m)
	}
	return out
}

func toSentenceMentions(bySentence map[int][]model.Span) model.SentenceMentions {
	out := make(model.SentenceMentions, 0, len(bySentence))
	for i, spans := range bySentence {
		out = append(out, model.SentenceMention{Sentence: i, Spans: spans})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Sentence < out[b].Sentence })
	return out
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
