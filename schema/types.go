package schema

import (
	"fmt"
	"time"
)

// Well-known content types. The set is open; unknown values are carried
// through untouched.
const (
	ContentTypePolicy  = "policy"
	ContentTypeProduct = "product"
	ContentTypeFAQ     = "faq"
	ContentTypePost    = "post"
	ContentTypePage    = "page"
)

// Chunk is a retrieved knowledge fragment with its relevance scores.
type Chunk struct {
	Content         string            `json:"content"`
	ContentType     string            `json:"content_type"`
	SourceTitle     string            `json:"source_title,omitempty"`
	SourceURL       string            `json:"source_url,omitempty"`
	SimilarityScore float64           `json:"similarity_score"`
	// RerankScore is assigned by the re-ranker; nil until re-ranking runs.
	RerankScore  *float64          `json:"rerank_score,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified *time.Time        `json:"last_modified,omitempty"`
}

// NewChunk validates invariants at creation time.
func NewChunk(content, contentType string, similarity float64) (Chunk, error) {
	if content == "" {
		return Chunk{}, fmt.Errorf("chunk content must not be empty")
	}
	if similarity < 0 || similarity > 1 {
		return Chunk{}, fmt.Errorf("similarity score %f out of range [0,1]", similarity)
	}
	return Chunk{Content: content, ContentType: contentType, SimilarityScore: similarity}, nil
}

// SetRerankScore annotates the chunk with its composite score, clamped to [0,1].
func (c *Chunk) SetRerankScore(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	c.RerankScore = &score
}

// Relevance returns the rerank score when present, otherwise the raw
// similarity score.
func (c *Chunk) Relevance() float64 {
	if c.RerankScore != nil {
		return *c.RerankScore
	}
	return c.SimilarityScore
}

// Clone returns a deep copy; metadata maps are never shared.
func (c Chunk) Clone() Chunk {
	out := c
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	if c.RerankScore != nil {
		s := *c.RerankScore
		out.RerankScore = &s
	}
	if c.LastModified != nil {
		t := *c.LastModified
		out.LastModified = &t
	}
	return out
}

// CloneChunks deep-copies a slice of chunks.
func CloneChunks(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return nil
	}
	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = c.Clone()
	}
	return out
}

// ContextItem is one content entry inside a context window.
type ContextItem struct {
	Content        string  `json:"content"`
	Type           string  `json:"type"`
	Source         string  `json:"source"`
	SourceURL      string  `json:"source_url,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ContextWindow is the token-budgeted assembly fed into prompt construction.
// It exists only for the duration of one pipeline invocation.
type ContextWindow struct {
	Query           string            `json:"query"`
	RelevantContent []ContextItem     `json:"relevant_content"`
	TotalChunks     int               `json:"total_chunks"`
	EstimatedTokens int               `json:"estimated_tokens"`
	UserContext     map[string]string `json:"user_context,omitempty"`
}

// SourceRef identifies one knowledge source consumed by a response.
type SourceRef struct {
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Relevance float64 `json:"relevance"`
}

// RetrievalStats summarizes how retrieval fed the response.
type RetrievalStats struct {
	ChunksConsidered int     `json:"chunks_considered"`
	ChunksUsed       int     `json:"chunks_used"`
	AverageRelevance float64 `json:"average_relevance"`
}

// ResponseMetadata carries generation parameters for observability.
type ResponseMetadata struct {
	ResponseMode   string  `json:"response_mode"`
	ModelUsed      string  `json:"model_used"`
	GenerationTime float64 `json:"generation_time"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
}

// RagResult is the pipeline's output envelope, immutable once produced.
type RagResult struct {
	Response         string           `json:"response"`
	Confidence       float64          `json:"confidence"`
	SourcesUsed      []SourceRef      `json:"sources_used"`
	RetrievalStats   RetrievalStats   `json:"retrieval_stats"`
	SafetyPassed     bool             `json:"safety_passed"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

// RawMatch is what the similarity-search collaborator returns before
// normalization into Chunks.
type RawMatch struct {
	Content      string            `json:"content"`
	ContentType  string            `json:"content_type"`
	SourceTitle  string            `json:"source_title"`
	SourceURL    string            `json:"source_url"`
	Score        float64           `json:"score"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified *time.Time        `json:"last_modified,omitempty"`
}

// SearchOptions configures a similarity search call.
type SearchOptions struct {
	TopK      int
	Threshold float64
	Filter    map[string]string
}
