package config

// Config is the root configuration for the RAG engine.
type Config struct {
	Logging   LoggingConfig    `json:"logging" yaml:"logging"`
	LLM       LLMConfig        `json:"llm" yaml:"llm"`
	Embedding EmbeddingConfig  `json:"embedding" yaml:"embedding"`
	VectorDB  VectorDBConfig   `json:"vectordb" yaml:"vectordb"`
	Plan      PlanConfig       `json:"plan" yaml:"plan"`
	Retrieval RetrievalConfig  `json:"retrieval" yaml:"retrieval"`
	Rerank    RerankConfig     `json:"rerank" yaml:"rerank"`
	Context   ContextConfig    `json:"context" yaml:"context"`
	Models    ModelsConfig     `json:"models" yaml:"models"`
	Safety    SafetyConfig     `json:"safety" yaml:"safety"`
	Cache     CacheConfig      `json:"cache" yaml:"cache"`
	Session   SessionConfig    `json:"session" yaml:"session"`
	HTTP      HTTPClientConfig `json:"http" yaml:"http"`
}

// LoggingConfig controls the logging facade.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// LLMConfig defines the language-model collaborator.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // Available options: openai
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Model is the fallback when the selector has no opinion.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// Stream asks the provider to use streaming transport and accumulate
	// the chunks into one response.
	Stream bool `json:"stream,omitempty" yaml:"stream,omitempty"`
}

// EmbeddingConfig defines the embedding collaborator.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// VectorDBConfig defines the similarity-search backend.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: milvus
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
}

// PlanConfig defines the subscription-plan/feature-flag collaborator.
type PlanConfig struct {
	Provider string          `json:"provider,omitempty" yaml:"provider,omitempty"` // static, http
	Tier     string          `json:"tier,omitempty" yaml:"tier,omitempty"`         // static provider
	Features map[string]bool `json:"features,omitempty" yaml:"features,omitempty"` // static provider
	Endpoint string          `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // http provider
	APIKey   string          `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// RetrievalConfig tunes the retriever stage.
type RetrievalConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty"`
	MaxCandidates       int     `json:"max_candidates,omitempty" yaml:"max_candidates,omitempty"`
	CacheTTLSeconds     int     `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// RerankWeights are the five signal weights; they must sum to 1.
type RerankWeights struct {
	Similarity   float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
	ContentType  float64 `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Freshness    float64 `json:"freshness,omitempty" yaml:"freshness,omitempty"`
	Quality      float64 `json:"quality,omitempty" yaml:"quality,omitempty"`
	ContextMatch float64 `json:"context_match,omitempty" yaml:"context_match,omitempty"`
}

// RerankConfig tunes the re-ranker stage.
type RerankConfig struct {
	MaxChunks int           `json:"max_chunks,omitempty" yaml:"max_chunks,omitempty"`
	Weights   RerankWeights `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// ContextConfig tunes context-window assembly.
type ContextConfig struct {
	// MaxChunkChars is the per-chunk character budget before sentence-safe
	// truncation kicks in.
	MaxChunkChars int `json:"max_chunk_chars,omitempty" yaml:"max_chunk_chars,omitempty"`
	// TokenEncoding names the tiktoken encoding for token estimation;
	// a chars-per-token approximation is used when it cannot be loaded.
	TokenEncoding string `json:"token_encoding,omitempty" yaml:"token_encoding,omitempty"`
	CharsPerToken int    `json:"chars_per_token,omitempty" yaml:"chars_per_token,omitempty"`
	// HistoryTurns caps how many prior conversation turns reach the prompt.
	HistoryTurns int `json:"history_turns,omitempty" yaml:"history_turns,omitempty"`
}

// ModelsConfig maps capability tiers to concrete models and sets the context
// size thresholds used by the selector.
type ModelsConfig struct {
	Top      string `json:"top,omitempty" yaml:"top,omitempty"`
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`
	Economy  string `json:"economy,omitempty" yaml:"economy,omitempty"`
	// LargeContextTokens is the estimated-token threshold above which a
	// top-tier plan escalates to the most capable model.
	LargeContextTokens    int `json:"large_context_tokens,omitempty" yaml:"large_context_tokens,omitempty"`
	ModerateContextTokens int `json:"moderate_context_tokens,omitempty" yaml:"moderate_context_tokens,omitempty"`
}

// SafetyConfig tunes the safety checker.
type SafetyConfig struct {
	// Level: strict, moderate, relaxed. Moderate is the default balance.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// CacheConfig controls the in-process cache facade.
type CacheConfig struct {
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// SessionConfig controls the conversation store.
type SessionConfig struct {
	MaxSessions int `json:"max_sessions,omitempty" yaml:"max_sessions,omitempty"`
	TTLSeconds  int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig configures outbound HTTP defaults (plan service etc.).
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// Default returns a configuration with every knob at its default policy value.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with the default policy constants.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.VectorDB.Provider == "" {
		c.VectorDB.Provider = "milvus"
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "store_knowledge"
	}
	if c.Plan.Provider == "" {
		c.Plan.Provider = "static"
	}
	if c.Plan.Tier == "" {
		c.Plan.Tier = "starter"
	}
	if c.Retrieval.SimilarityThreshold == 0 {
		c.Retrieval.SimilarityThreshold = 0.5
	}
	if c.Retrieval.MaxCandidates <= 0 {
		c.Retrieval.MaxCandidates = 10
	}
	if c.Retrieval.CacheTTLSeconds <= 0 {
		c.Retrieval.CacheTTLSeconds = 300
	}
	if c.Rerank.MaxChunks <= 0 {
		c.Rerank.MaxChunks = 5
	}
	if c.Rerank.Weights == (RerankWeights{}) {
		c.Rerank.Weights = RerankWeights{
			Similarity:   0.35,
			ContentType:  0.20,
			Freshness:    0.15,
			Quality:      0.15,
			ContextMatch: 0.15,
		}
	}
	if c.Context.MaxChunkChars <= 0 {
		c.Context.MaxChunkChars = 1200
	}
	if c.Context.TokenEncoding == "" {
		c.Context.TokenEncoding = "cl100k_base"
	}
	if c.Context.CharsPerToken <= 0 {
		c.Context.CharsPerToken = 4
	}
	if c.Context.HistoryTurns <= 0 {
		c.Context.HistoryTurns = 6
	}
	if c.Models.Top == "" {
		c.Models.Top = "gpt-4o"
	}
	if c.Models.Standard == "" {
		c.Models.Standard = "gpt-4o-mini"
	}
	if c.Models.Economy == "" {
		c.Models.Economy = "gpt-4o-mini"
	}
	if c.Models.LargeContextTokens <= 0 {
		c.Models.LargeContextTokens = 2500
	}
	if c.Models.ModerateContextTokens <= 0 {
		c.Models.ModerateContextTokens = 1000
	}
	if c.Safety.Level == "" {
		c.Safety.Level = "moderate"
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 500
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Session.MaxSessions <= 0 {
		c.Session.MaxSessions = 1000
	}
	if c.Session.TTLSeconds <= 0 {
		c.Session.TTLSeconds = 24 * 3600
	}
}
