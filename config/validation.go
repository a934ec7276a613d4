package config

import (
	"fmt"
	"math"
)

// Validate checks cross-field invariants after defaults have been applied.
func (c *Config) Validate() error {
	if c.Retrieval.SimilarityThreshold < 0 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("invalid config: similarity_threshold %f out of range [0,1]", c.Retrieval.SimilarityThreshold)
	}
	if c.Retrieval.MaxCandidates <= 0 {
		return fmt.Errorf("invalid config: max_candidates must be positive")
	}
	w := c.Rerank.Weights
	sum := w.Similarity + w.ContentType + w.Freshness + w.Quality + w.ContextMatch
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("invalid config: rerank weights sum to %f, want 1.0", sum)
	}
	for name, v := range map[string]float64{
		"similarity":    w.Similarity,
		"content_type":  w.ContentType,
		"freshness":     w.Freshness,
		"quality":       w.Quality,
		"context_match": w.ContextMatch,
	} {
		if v < 0 {
			return fmt.Errorf("invalid config: rerank weight %s is negative", name)
		}
	}
	switch c.Safety.Level {
	case "strict", "moderate", "relaxed":
	default:
		return fmt.Errorf("invalid config: unknown safety level %q", c.Safety.Level)
	}
	switch c.Plan.Provider {
	case "static", "http":
	default:
		return fmt.Errorf("invalid config: unknown plan provider %q", c.Plan.Provider)
	}
	if c.Plan.Provider == "http" && c.Plan.Endpoint == "" {
		return fmt.Errorf("invalid config: http plan provider requires endpoint")
	}
	return nil
}
