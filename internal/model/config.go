package model

import "time"

// Config holds all mucprep configuration
type Config struct {
	Keys        KeysConfig        `yaml:"keys" mapstructure:"keys"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Sentences   SentencesConfig   `yaml:"sentences" mapstructure:"sentences"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Fixes       FixesConfig       `yaml:"fixes" mapstructure:"fixes"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// KeysConfig controls key-file lexing
type KeysConfig struct {
	ColumnWidth int `yaml:"column_width" mapstructure:"column_width"` // Width of the fixed key column
}

// PathsConfig locates the data directories of a split layout
type PathsConfig struct {
	Semiprocessed string   `yaml:"semiprocessed" mapstructure:"semiprocessed"` // {split}/{split}_docs.json, {split}_keys.json
	Processed     string   `yaml:"processed" mapstructure:"processed"`         // {split}/{split}.json and unlocatable reports
	Concrete      string   `yaml:"concrete" mapstructure:"concrete"`           // Interchange archives
	Splits        []string `yaml:"splits" mapstructure:"splits"`
	RoleMapping   string   `yaml:"role_mapping,omitempty" mapstructure:"role_mapping"` // Optional slot -> role YAML
}

// SentencesConfig controls sentence segmentation
type SentencesConfig struct {
	Segmenter string `yaml:"segmenter" mapstructure:"segmenter"` // "punkt" or "rule"
	Lowercase bool   `yaml:"lowercase" mapstructure:"lowercase"` // Segment lower-cased text (all-caps text segments poorly)
}

// CacheConfig holds segmentation cache settings
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig holds worker settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // Documents localized in parallel
}

// FixesConfig points at an optional replacement for the built-in fix tables
type FixesConfig struct {
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

// LLMConfig holds settings for optional summary drafts
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "openai", "ollama" or "" (disabled)
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"` // From env, never written out
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Proxy     string        `yaml:"proxy,omitempty" mapstructure:"proxy"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Indent  int  `yaml:"indent" mapstructure:"indent"` // JSON indent width
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns configuration matching the standard data layout
func DefaultConfig() Config {
	return Config{
		Keys: KeysConfig{
			ColumnWidth: 33,
		},
		Paths: PathsConfig{
			Semiprocessed: "data/semiprocessed",
			Processed:     "data/processed",
			Concrete:      "data/concrete",
			Splits:        []string{"train", "dev", "test"},
		},
		Sentences: SentencesConfig{
			Segmenter: "punkt",
			Lowercase: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".mucprep-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			MaxTokens: 256,
			Timeout:   60 * time.Second,
		},
		Output: OutputConfig{
			Indent: 4,
		},
	}
}
