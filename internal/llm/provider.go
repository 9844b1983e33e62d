// Package llm drafts incident summaries for annotation skeletons with a
// language model. Drafts are suggestions for annotators, never ground truth.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/mucprep/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Draft writes a short summary of one incident template
	Draft(ctx context.Context, req DraftRequest) (*DraftResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// DraftRequest contains the input for one summary draft
type DraftRequest struct {
	// DocID identifies the source document
	DocID string

	// Text is the document text the template was annotated on
	Text string

	// Template is the incident to summarize
	Template *model.Template

	// Prompt overrides the default prompt when set
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// DraftResponse contains the LLM's draft
type DraftResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Proxy URL; empty uses the environment
	Proxy string
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
		Proxy:     c.Proxy,
	}
}

const systemPrompt = "You summarize terrorism incident reports for annotators. You only restate what the document and the template say."

// BuildPrompt constructs the default drafting prompt
func BuildPrompt(text string, t *model.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Write a 1-2 sentence summary of the %s incident described by this template.

RULES:
1. Use only facts stated in the document.
2. Mention the perpetrators, targets and victims listed in the template when present.
3. Do not add dates, places or names that are not in the document.

Template:
`, strings.ToLower(t.IncidentType))

	for _, slot := range model.FillerSlots {
		fillers := t.Fillers(slot)
		if len(fillers) == 0 {
			continue
		}
		var values []string
		for _, f := range fillers {
			values = append(values, fillerText(f))
		}
		fmt.Fprintf(&b, "- %s: %s\n", slot, strings.Join(values, "; "))
	}

	fmt.Fprintf(&b, "\nDocument:\n%s\n", text)
	return b.String()
}

func fillerText(f *model.Filler) string {
	if f.IsColonClause() {
		return firstString(f.StringsLHS) + ": " + firstString(f.StringsRHS)
	}
	return firstString(f.Strings)
}

func firstString(a model.Alternatives) string {
	for _, s := range a {
		if s != "" {
			return s
		}
	}
	return "-"
}
