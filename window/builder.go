package window

import (
	"github.com/storechat/ragengine/schema"
)

// Options tune a single build call.
type Options struct {
	MaxChunks int
}

// Builder assembles a token-budgeted context window from re-ranked chunks
// plus caller-supplied conversation/page context.
type Builder struct {
	maxChunkChars int
	estimator     TokenEstimator
}

func NewBuilder(maxChunkChars int, estimator TokenEstimator) *Builder {
	if maxChunkChars <= 0 {
		maxChunkChars = 1200
	}
	if estimator == nil {
		estimator = CharEstimator{CharsPerToken: 4}
	}
	return &Builder{maxChunkChars: maxChunkChars, estimator: estimator}
}

// Build produces a ContextWindow from at most opts.MaxChunks chunks, in
// rerank order. Chunk content is truncated sentence-safe; user context
// passes through untouched.
func (b *Builder) Build(query string, chunks []schema.Chunk, userContext map[string]string, opts Options) *schema.ContextWindow {
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 || maxChunks > len(chunks) {
		maxChunks = len(chunks)
	}

	items := make([]schema.ContextItem, 0, maxChunks)
	totalChars := 0
	for _, chunk := range chunks[:maxChunks] {
		content := TruncateSentences(chunk.Content, b.maxChunkChars)
		items = append(items, schema.ContextItem{
			Content:        content,
			Type:           chunk.ContentType,
			Source:         chunk.SourceTitle,
			SourceURL:      chunk.SourceURL,
			RelevanceScore: chunk.Relevance(),
		})
		totalChars += len(content)
	}

	return &schema.ContextWindow{
		Query:           query,
		RelevantContent: items,
		TotalChunks:     len(items),
		EstimatedTokens: b.estimateTokens(items),
		UserContext:     userContext,
	}
}

func (b *Builder) estimateTokens(items []schema.ContextItem) int {
	total := 0
	for _, item := range items {
		total += b.estimator.Estimate(item.Content)
	}
	return total
}
