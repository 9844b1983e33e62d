package cli

import (
	"fmt"

	"github.com/ppiankov/mucprep/internal/fixes"
	"github.com/ppiankov/mucprep/internal/model"
	"github.com/spf13/viper"
)

// setDefaults registers every config key so env variables reach Unmarshal
func setDefaults() {
	d := model.DefaultConfig()
	defaults := map[string]any{
		"keys.column_width":   d.Keys.ColumnWidth,
		"paths.semiprocessed": d.Paths.Semiprocessed,
		"paths.processed":     d.Paths.Processed,
		"paths.concrete":      d.Paths.Concrete,
		"paths.splits":        d.Paths.Splits,
		"paths.role_mapping":  d.Paths.RoleMapping,
		"sentences.segmenter": d.Sentences.Segmenter,
		"sentences.lowercase": d.Sentences.Lowercase,
		"cache.enabled":       d.Cache.Enabled,
		"cache.dir":           d.Cache.Dir,
		"cache.memory_ttl":    d.Cache.MemoryTTL,
		"cache.disk_ttl":      d.Cache.DiskTTL,
		"concurrency.workers": d.Concurrency.Workers,
		"fixes.file":          d.Fixes.File,
		"llm.provider":        d.LLM.Provider,
		"llm.model":           d.LLM.Model,
		"llm.api_key":         d.LLM.APIKey,
		"llm.base_url":        d.LLM.BaseURL,
		"llm.proxy":           d.LLM.Proxy,
		"llm.max_tokens":      d.LLM.MaxTokens,
		"llm.timeout":         d.LLM.Timeout,
		"output.indent":       d.Output.Indent,
		"output.verbose":      d.Output.Verbose,
	}
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// loadConfig merges defaults, config file, env and bound flags
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadFixes returns the configured fix tables, or the built-in ones
func loadFixes(cfg model.Config) (fixes.Tables, error) {
	if cfg.Fixes.File == "" {
		return fixes.Default(), nil
	}
	t, err := fixes.Load(cfg.Fixes.File)
	if err != nil {
		return fixes.Tables{}, fmt.Errorf("load fixes: %w", err)
	}
	return t, nil
}

// splitsFor returns the requested split, or every configured split
func splitsFor(cfg model.Config, split string) ([]string, error) {
	if split == "" {
		return cfg.Paths.Splits, nil
	}
	for _, s := range cfg.Paths.Splits {
		if s == split {
			return []string{split}, nil
		}
	}
	return nil, fmt.Errorf("unknown split %q (configured: %v)", split, cfg.Paths.Splits)
}
