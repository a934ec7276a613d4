package rerank

import (
	"sort"
	"time"

	"github.com/storechat/ragengine/config"
	"github.com/storechat/ragengine/schema"
)

// Options tune a single rerank call.
type Options struct {
	MaxChunks int
}

// ReRanker recomputes a composite relevance score per chunk from five
// weighted signals and re-sorts the candidate set. It is a pure function of
// its inputs and never errors.
type ReRanker struct {
	weights config.RerankWeights
	now     func() time.Time
}

func New(weights config.RerankWeights) *ReRanker {
	return &ReRanker{weights: weights, now: time.Now}
}

// WithClock fixes the freshness reference time, for tests.
func (r *ReRanker) WithClock(now func() time.Time) *ReRanker {
	r.now = now
	return r
}

// Score computes the composite [0,1] relevance of one chunk: the weighted
// sum of the five signals, amplified by the boost factor, then clamped.
func Score(query string, chunk schema.Chunk, userContext map[string]string, weights config.RerankWeights, now time.Time) float64 {
	composite := weights.Similarity*chunk.SimilarityScore +
		weights.ContentType*ContentTypeScore(query, chunk.ContentType) +
		weights.Freshness*FreshnessScore(chunk.LastModified, now) +
		weights.Quality*QualityScore(chunk) +
		weights.ContextMatch*ContextMatchScore(chunk, userContext)
	return clamp01(composite * BoostFactor(query, chunk, userContext))
}

// Rerank annotates each chunk with its composite score and returns them
// sorted by score descending, truncated to opts.MaxChunks. Ties break on the
// original similarity score, then input order.
func (r *ReRanker) Rerank(query string, chunks []schema.Chunk, userContext map[string]string, opts Options) []schema.Chunk {
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = 5
	}
	now := r.now()

	scored := schema.CloneChunks(chunks)
	for i := range scored {
		scored[i].SetRerankScore(Score(query, scored[i], userContext, r.weights, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		si, sj := scored[i].Relevance(), scored[j].Relevance()
		if si != sj {
			return si > sj
		}
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})

	if len(scored) > maxChunks {
		scored = scored[:maxChunks]
	}
	return scored
}
