// Package skeleton writes per-split files for incident summary annotation:
// one entry per gold template with an empty (or drafted) summary.
package skeleton

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Indent is the JSON indent width of skeleton files
const Indent = 2

// Entry is one template to summarize
type Entry struct {
	MessageTemplate model.TemplateNumber `json:"message_template"`
	IncidentType    string               `json:"incident_type"`
	Summary         string               `json:"summary"`
}

// Skeleton maps document ids to the entries of their templates
type Skeleton map[string][]Entry

// Drafter fills in a suggested summary for a template
type Drafter interface {
	Summarize(ctx context.Context, docID, text string, t *model.Template) (string, error)
}

// Generator builds skeletons, optionally with drafted summaries
type Generator struct {
	drafter Drafter
	logger  zerolog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithDrafter sets the summary drafter
func WithDrafter(d Drafter) Option {
	return func(g *Generator) {
		g.drafter = d
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a generator; without a drafter summaries stay empty
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{logger: log.Logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build returns the skeleton of one split and the number of templates in it.
// Documents without templates, or whose first template is the sentinel,
// are left out.
func Build(keys model.TemplatesByDoc) (Skeleton, int) {
	out := make(Skeleton)
	total := 0
	for docID, templates := range keys {
		if !hasTemplates(templates) {
			continue
		}
		entries := make([]Entry, 0, len(templates))
		for _, t := range templates {
			entries = append(entries, Entry{
				MessageTemplate: t.MessageTemplate,
				IncidentType:    t.IncidentType,
			})
			total++
		}
		out[docID] = entries
	}
	return out, total
}

func hasTemplates(templates []*model.Template) bool {
	return len(templates) > 0 && !templates[0].IsSentinel()
}

// Generate builds the skeleton and drafts summaries when a drafter is set.
// docs supplies the text drafts are written from and may be nil otherwise.
func (g *Generator) Generate(ctx context.Context, keys model.TemplatesByDoc, docs model.RawDocuments) (Skeleton, int, error) {
	sk, total := Build(keys)
	if g.drafter == nil {
		return sk, total, nil
	}

	ids := make([]string, 0, len(sk))
	for id := range sk {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	drafted := 0
	for _, id := range ids {
		doc, ok := docs[id]
		if !ok {
			g.logger.Warn().Str("docid", id).Msg("no document text, leaving summaries empty")
			continue
		}
		for i, t := range keys[id] {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			summary, err := g.drafter.Summarize(ctx, id, doc.Text, t)
			if err != nil {
				return nil, 0, fmt.Errorf("%s: draft template %s: %w", id, t.MessageTemplate, err)
			}
			if summary != "" {
				drafted++
			}
			sk[id][i].Summary = summary
		}
	}

	g.logger.Info().Int("templates", total).Int("drafted", drafted).Msg("summaries drafted")
	return sk, total, nil
}

// OutputPath returns {dir}/{split}_to_annotate.json
func OutputPath(dir, split string) string {
	return filepath.Join(dir, split+"_to_annotate.json")
}

// Write writes a skeleton file
func Write(path string, sk Skeleton) error {
	if err := util.WriteJSON(path, sk, Indent); err != nil {
		return fmt.Errorf("write skeleton: %w", err)
	}
	return nil
}
