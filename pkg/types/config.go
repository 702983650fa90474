// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for search and article fetches.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "answer-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// KiwixConfig holds settings for the local Kiwix Wikipedia server.
type KiwixConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the base URL of the Kiwix server (default "http://localhost:8080").
	URL string `json:"url" yaml:"url"`

	// Book is the ZIM book slug used to build direct article URLs
	// (default "wikipedia_en_all_maxi_2024-01").
	Book string `json:"book" yaml:"book"`

	// ProbeTimeout bounds direct-lookup HEAD probes (default 2s).
	ProbeTimeout time.Duration `json:"probe_timeout" yaml:"probe_timeout"`

	// AbstractTimeout bounds abstract fetches (default 5s).
	AbstractTimeout time.Duration `json:"abstract_timeout" yaml:"abstract_timeout"`

	// AutoStart controls whether a kiwix-serve process is launched when
	// the server is not reachable at startup.
	AutoStart bool `json:"auto_start" yaml:"auto_start"`
}

// ApplyDefaults fills in zero-valued fields with package defaults.
func (c *KiwixConfig) ApplyDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:8080"
	}
	if c.Book == "" {
		c.Book = "wikipedia_en_all_maxi_2024-01"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = 2 * time.Second
	}
	if c.AbstractTimeout == 0 {
		c.AbstractTimeout = 5 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "answer-engine/0.1"
	}
}

// OllamaConfig holds settings for the local Ollama model server.
type OllamaConfig struct {
	// Host is the Ollama base URL (default "http://localhost:11434").
	Host string `json:"host" yaml:"host"`

	// GenerationModel is the synthesis model. Empty means auto-detect.
	GenerationModel string `json:"generation_model,omitempty" yaml:"generation_model,omitempty"`

	// SelectionModel is the article classification model. Empty means auto-detect.
	SelectionModel string `json:"selection_model,omitempty" yaml:"selection_model,omitempty"`
}

// ApplyDefaults fills in zero-valued fields with package defaults.
func (c *OllamaConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "http://localhost:11434"
	}
}

// RetrievalConfig holds settings for the candidate retrieval stage.
type RetrievalConfig struct {
	// PerTermResults is the result cap requested per search probe (default 25).
	PerTermResults int `json:"per_term_results" yaml:"per_term_results"`
}

// CacheConfig holds settings for the local article cache.
type CacheConfig struct {
	// Enabled controls whether fetched abstracts and article bodies are cached.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default "cache/articles.db").
	Path string `json:"path" yaml:"path"`

	// TTL is how long a cached article stays fresh (default 7 days).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// ApplyDefaults fills in zero-valued fields with package defaults.
func (c *RetrievalConfig) ApplyDefaults() {
	if c.PerTermResults == 0 {
		c.PerTermResults = 25
	}
}

// ApplyDefaults fills in zero-valued fields with package defaults.
func (c *CacheConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "cache/articles.db"
	}
	if c.TTL == 0 {
		c.TTL = 7 * 24 * time.Hour
	}
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Kiwix     KiwixConfig     `json:"kiwix" yaml:"kiwix"`
	Ollama    OllamaConfig    `json:"ollama" yaml:"ollama"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
}

// ApplyDefaults fills in zero-valued fields across all stage configurations.
func (c *PipelineConfig) ApplyDefaults() {
	c.Kiwix.ApplyDefaults()
	c.Ollama.ApplyDefaults()
	c.Retrieval.ApplyDefaults()
	c.Cache.ApplyDefaults()
}
