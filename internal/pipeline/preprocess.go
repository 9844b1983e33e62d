// Package pipeline turns a split's semiprocessed documents and keys into
// processed documents with sentence offsets and localized templates.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/ppiankov/mucprep/internal/locate"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/ppiankov/mucprep/internal/segment"
	"github.com/ppiankov/mucprep/internal/texts"
	"github.com/ppiankov/mucprep/internal/util"
	"github.com/ppiankov/mucprep/internal/worker"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SplitResult is the outcome of preprocessing one split
type SplitResult struct {
	Split                string
	Documents            model.ProcessedDocuments
	UnlocatableEntities  model.UnlocatableMentions
	UnlocatableLocations model.UnlocatableMentions
	Located              int
	Unlocated            int
	Mismatches           int
}

// Preprocessor orchestrates cleaning, sentence splitting and localization
type Preprocessor struct {
	splitter  *segment.Splitter
	localizer *locate.Localizer
	workers   int
	indent    int
	logger    zerolog.Logger
}

// Option configures a Preprocessor
type Option func(*Preprocessor)

// WithWorkers sets the number of documents processed in parallel
func WithWorkers(n int) Option {
	return func(p *Preprocessor) {
		p.workers = n
	}
}

// WithIndent sets the JSON indent width of written files
func WithIndent(n int) Option {
	return func(p *Preprocessor) {
		p.indent = n
	}
}

// WithLogger sets the logger used for progress and warnings
func WithLogger(l zerolog.Logger) Option {
	return func(p *Preprocessor) {
		p.logger = l
	}
}

// NewPreprocessor creates a preprocessor from its components
func NewPreprocessor(splitter *segment.Splitter, localizer *locate.Localizer, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		splitter:  splitter,
		localizer: localizer,
		workers:   1,
		indent:    4,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// docOutput carries one document through the worker pool
type docOutput struct {
	doc    *model.ProcessedDocument
	result *locate.Result
}

// Process preprocesses every document of a split. Templates are taken from
// keys by document id and cloned, so keys is left untouched. The output
// does not depend on the worker count.
func (p *Preprocessor) Process(ctx context.Context, split string, docs model.RawDocuments, keys model.TemplatesByDoc) (*SplitResult, error) {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	progress := worker.NewProgress(split, len(ids), 2*time.Second, p.logger)
	batch := worker.NewBatchProcessor[*docOutput](p.workers, progress)

	results, err := batch.Process(ctx, ids, func(ctx context.Context, docID string) (*docOutput, error) {
		return p.processDocument(docID, docs[docID], keys[docID])
	})
	if err != nil {
		return nil, fmt.Errorf("preprocess %s: %w", split, err)
	}

	out := &SplitResult{
		Split:                split,
		Documents:            make(model.ProcessedDocuments, len(results)),
		UnlocatableEntities:  make(model.UnlocatableMentions),
		UnlocatableLocations: make(model.UnlocatableMentions),
	}
	for _, r := range results {
		res := r.Value.result
		out.Documents[r.DocID] = r.Value.doc
		if len(res.UnlocatableEntities) > 0 {
			out.UnlocatableEntities[r.DocID] = res.UnlocatableEntities
		}
		if len(res.UnlocatableLocations) > 0 {
			out.UnlocatableLocations[r.DocID] = res.UnlocatableLocations
		}
		out.Located += res.Located
		out.Unlocated += res.Unlocated
		out.Mismatches += len(res.Mismatches)
	}

	p.logger.Info().
		Str("split", split).
		Int("documents", len(out.Documents)).
		Int("located", out.Located).
		Int("unlocated", out.Unlocated).
		Int("mismatches", out.Mismatches).
		Msg("split preprocessed")

	return out, nil
}

func (p *Preprocessor) processDocument(docID string, raw *model.RawDocument, templates []*model.Template) (*docOutput, error) {
	cleaned := texts.Clean(raw.Text)

	sentences, err := p.splitter.SentenceSpans(cleaned.Paragraphs, cleaned.Sections)
	if err != nil {
		return nil, fmt.Errorf("split sentences: %w", err)
	}
	if sentences == nil {
		sentences = []model.Span{}
	}

	cloned := make([]*model.Template, len(templates))
	for i, t := range templates {
		cloned[i] = t.Clone()
	}

	res, err := p.localizer.LocateDocument(docID, cleaned.Text, sentences, cloned)
	if err != nil {
		return nil, err
	}

	return &docOutput{
		doc: &model.ProcessedDocument{
			Text:      cleaned.Text,
			Sections:  cleaned.Sections,
			Sentences: sentences,
			Templates: res.Templates,
		},
		result: res,
	}, nil
}

// SplitFiles names the inputs and outputs of one split
type SplitFiles struct {
	Docs                 string
	Keys                 string
	Processed            string
	UnlocatableEntities  string
	UnlocatableLocations string
}

// FilesFor lays out split files under the semiprocessed and processed roots:
// {root}/{split}/{split}_docs.json and so on
func FilesFor(semiprocessed, processed, split string) SplitFiles {
	in := filepath.Join(semiprocessed, split)
	out := filepath.Join(processed, split)
	return SplitFiles{
		Docs:                 filepath.Join(in, split+"_docs.json"),
		Keys:                 filepath.Join(in, split+"_keys.json"),
		Processed:            filepath.Join(out, split+".json"),
		UnlocatableEntities:  filepath.Join(out, split+"_unlocatable_entities.json"),
		UnlocatableLocations: filepath.Join(out, split+"_unlocatable_locations.json"),
	}
}

// RunSplit reads a split's docs and keys, preprocesses them and writes the
// processed documents and both unlocatable-mention reports
func (p *Preprocessor) RunSplit(ctx context.Context, split string, files SplitFiles) (*SplitResult, error) {
	var docs model.RawDocuments
	if err := util.ReadJSON(files.Docs, &docs); err != nil {
		return nil, err
	}
	var keys model.TemplatesByDoc
	if err := util.ReadJSON(files.Keys, &keys); err != nil {
		return nil, err
	}

	res, err := p.Process(ctx, split, docs, keys)
	if err != nil {
		return nil, err
	}

	if err := util.WriteJSON(files.Processed, res.Documents, p.indent); err != nil {
		return nil, err
	}
	if err := util.WriteJSON(files.UnlocatableEntities, res.UnlocatableEntities, p.indent); err != nil {
		return nil, err
	}
	if err := util.WriteJSON(files.UnlocatableLocations, res.UnlocatableLocations, p.indent); err != nil {
		return nil, err
	}
	return res, nil
}
