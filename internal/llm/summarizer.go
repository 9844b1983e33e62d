package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ppiankov/mucprep/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Summarizer drafts template summaries. Failures never abort a run: a
// missing or failing provider yields an empty draft and a logged warning.
type Summarizer struct {
	provider Provider
	config   Config
	logger   zerolog.Logger

	once      sync.Once
	available bool
}

// NewSummarizer creates a summarizer; an empty provider name disables it
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	return &Summarizer{
		provider: provider,
		config:   config,
		logger:   log.Logger,
	}, nil
}

// WithLogger replaces the summarizer's logger
func (s *Summarizer) WithLogger(logger zerolog.Logger) *Summarizer {
	s.logger = logger
	return s
}

// IsEnabled returns true if a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Summarize drafts a summary of one template. It returns "" without an
// error when drafting is disabled, unavailable or fails.
func (s *Summarizer) Summarize(ctx context.Context, docID, text string, t *model.Template) (string, error) {
	if s.provider == nil {
		return "", nil
	}

	s.once.Do(func() {
		s.available = s.provider.IsAvailable(ctx)
		if !s.available {
			s.logger.Warn().Str("provider", s.provider.Name()).Msg("LLM provider not available, skipping drafts")
		}
	})
	if !s.available {
		return "", nil
	}

	resp, err := s.provider.Draft(ctx, DraftRequest{
		DocID:     docID,
		Text:      text,
		Template:  t,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("doc", docID).Msg("summary draft failed")
		return "", nil
	}

	missing := unmentioned(resp.Summary, t)
	s.logger.Debug().
		Str("doc", docID).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Strs("unmentioned", missing).
		Msg("summary drafted")

	return resp.Summary, nil
}

// unmentioned lists the perpetrator, target and victim fillers whose
// strings all fail to appear in the summary
func unmentioned(summary string, t *model.Template) []string {
	lower := strings.ToLower(summary)
	var missing []string
	for _, slot := range []string{
		model.SlotPerpIndividualID,
		model.SlotPerpOrganizationID,
		model.SlotPhysTgtID,
		model.SlotHumTgtName,
	} {
		for _, f := range t.Fillers(slot) {
			found := false
			for _, s := range f.Mentions() {
				if s != "" && strings.Contains(lower, strings.ToLower(s)) {
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, firstString(f.Mentions()))
			}
		}
	}
	return missing
}
