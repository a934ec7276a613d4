package retriever

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storechat/ragengine/cache"
	"github.com/storechat/ragengine/common/logger"
	"github.com/storechat/ragengine/embedding"
	"github.com/storechat/ragengine/metrics"
	"github.com/storechat/ragengine/schema"
	"github.com/storechat/ragengine/vectordb"
)

// Options tune a single retrieval call. Zero values fall back to the
// retriever defaults.
type Options struct {
	SimilarityThreshold float64
	MaxCandidates       int
}

// Result is a normalized retrieval outcome.
type Result struct {
	Chunks     []schema.Chunk
	TotalFound int
	CacheHit   bool
}

// Error wraps any collaborator failure during retrieval.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("retrieval %s failed: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Retriever turns a query into normalized, threshold-filtered chunks,
// reading and writing results through the cache facade.
type Retriever struct {
	embed    embedding.Provider
	store    vectordb.Provider
	cache    cache.Cache[*Result]
	cacheTTL time.Duration
	defaults Options
}

func New(embed embedding.Provider, store vectordb.Provider, c cache.Cache[*Result], cacheTTL time.Duration, defaults Options) *Retriever {
	if defaults.MaxCandidates <= 0 {
		defaults.MaxCandidates = 10
	}
	if defaults.SimilarityThreshold <= 0 {
		defaults.SimilarityThreshold = 0.5
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Retriever{embed: embed, store: store, cache: c, cacheTTL: cacheTTL, defaults: defaults}
}

// CacheKey derives the deterministic key for one retrieval call.
func CacheKey(query string, opts Options) string {
	return cache.Key("retrieve",
		cache.NormalizeQuery(query),
		strconv.FormatFloat(opts.SimilarityThreshold, 'f', 4, 64),
		strconv.Itoa(opts.MaxCandidates),
	)
}

// Retrieve embeds the query, runs similarity search and normalizes matches
// into Chunks. Cached results short-circuit the collaborators entirely.
func (r *Retriever) Retrieve(ctx context.Context, query string, userContext map[string]string, opts Options) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, schema.ErrInvalidQuery()
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = r.defaults.MaxCandidates
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = r.defaults.SimilarityThreshold
	}

	key := CacheKey(query, opts)
	if r.cache != nil {
		if res, ok := r.cache.Get(key); ok {
			metrics.IncRetrievalCache(true)
			logger.Debugf("retriever: cache hit for %q", query)
			return &Result{Chunks: schema.CloneChunks(res.Chunks), TotalFound: res.TotalFound, CacheHit: true}, nil
		}
		metrics.IncRetrievalCache(false)
	}

	vector, err := r.embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, &Error{Op: "embedding", Err: err}
	}

	// one extra candidate pads for a possible self-match upstream
	searchOpts := &schema.SearchOptions{
		TopK:      opts.MaxCandidates + 1,
		Threshold: opts.SimilarityThreshold,
	}
	matches, total, err := r.store.SearchSimilar(ctx, vector, searchOpts)
	if err != nil {
		return nil, &Error{Op: "search", Err: err}
	}

	chunks := make([]schema.Chunk, 0, len(matches))
	for _, m := range matches {
		if m.Score < opts.SimilarityThreshold {
			continue
		}
		chunk, err := schema.NewChunk(m.Content, m.ContentType, m.Score)
		if err != nil {
			logger.Warnf("retriever: dropping malformed match: %v", err)
			continue
		}
		chunk.SourceTitle = m.SourceTitle
		chunk.SourceURL = m.SourceURL
		chunk.Metadata = m.Metadata
		chunk.LastModified = m.LastModified
		chunks = append(chunks, chunk)
		if len(chunks) >= opts.MaxCandidates {
			break
		}
	}

	res := &Result{Chunks: chunks, TotalFound: total}
	if r.cache != nil {
		r.cache.Set(key, &Result{Chunks: schema.CloneChunks(chunks), TotalFound: total}, r.cacheTTL)
	}
	return res, nil
}
