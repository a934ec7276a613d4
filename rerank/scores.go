package rerank

import (
	"strings"
	"time"

	"github.com/storechat/ragengine/schema"
)

// Each scoring function returns a normalized [0,1] signal. Missing inputs
// yield the neutral contribution, never an error.

var policyTerms = []string{
	"policy", "policies", "return", "returns", "refund", "refunds",
	"shipping", "delivery", "warranty", "exchange", "privacy", "terms",
}

var purchaseTerms = []string{
	"buy", "purchase", "order", "price", "cost", "cheap", "cheapest",
	"deal", "discount", "coupon", "sale",
}

var questionWords = map[string]struct{}{
	"how": {}, "what": {}, "why": {}, "when": {}, "where": {}, "who": {},
	"can": {}, "do": {}, "does": {}, "is": {}, "are": {}, "which": {},
}

func hasAnyTerm(query string, terms []string) bool {
	for _, w := range strings.Fields(query) {
		w = strings.Trim(w, ".,!?;:\"'")
		for _, t := range terms {
			if w == t {
				return true
			}
		}
	}
	return false
}

// HasPolicyIntent reports whether the query reads like a store-policy question.
func HasPolicyIntent(query string) bool {
	return hasAnyTerm(strings.ToLower(query), policyTerms)
}

// HasPurchaseIntent reports whether the query reads like purchase intent.
func HasPurchaseIntent(query string) bool {
	return hasAnyTerm(strings.ToLower(query), purchaseTerms)
}

// IsQuestion reports whether the query is phrased as a question.
func IsQuestion(query string) bool {
	q := strings.TrimSpace(strings.ToLower(query))
	if strings.HasSuffix(q, "?") {
		return true
	}
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return false
	}
	_, ok := questionWords[fields[0]]
	return ok
}

// ContentTypeScore matches query intent against the chunk's content type.
func ContentTypeScore(query, contentType string) float64 {
	switch contentType {
	case schema.ContentTypeProduct:
		if HasPurchaseIntent(query) {
			return 0.95
		}
		if IsQuestion(query) {
			return 0.5
		}
		return 0.4
	case schema.ContentTypePolicy:
		if HasPolicyIntent(query) {
			return 0.85
		}
		if IsQuestion(query) {
			return 0.6
		}
		return 0.4
	case schema.ContentTypeFAQ:
		if HasPolicyIntent(query) || IsQuestion(query) {
			return 0.85
		}
		return 0.5
	case schema.ContentTypePage:
		if HasPolicyIntent(query) {
			return 0.5
		}
		return 0.4
	default:
		return 0.4
	}
}

// FreshnessScore decays by age bucket. Discrete buckets avoid over-penalizing
// stale-but-correct policy text. A missing timestamp is neutral.
func FreshnessScore(lastModified *time.Time, now time.Time) float64 {
	if lastModified == nil {
		return 0.5
	}
	age := now.Sub(*lastModified)
	switch {
	case age <= 24*time.Hour:
		return 1.0
	case age <= 14*24*time.Hour:
		return 0.9
	case age <= 30*24*time.Hour:
		return 0.8
	case age <= 90*24*time.Hour:
		return 0.7
	case age <= 180*24*time.Hour:
		return 0.6
	case age <= 365*24*time.Hour:
		return 0.45
	default:
		return 0.3
	}
}

const qualitySaturationChars = 600

// QualityScore rewards substantive content, titling and metadata richness.
func QualityScore(chunk schema.Chunk) float64 {
	length := float64(len(chunk.Content))
	score := minf(length/qualitySaturationChars, 1.0) * 0.5
	if strings.TrimSpace(chunk.SourceTitle) != "" {
		score += 0.2
	}
	if _, ok := chunk.Metadata["title"]; ok {
		score += 0.1
	} else if _, ok := chunk.Metadata["summary"]; ok {
		score += 0.1
	}
	score += minf(float64(len(chunk.Metadata))/5.0, 1.0) * 0.2
	return clamp01(score)
}

// ContextMatchScore rates how well the chunk fits the caller's current page
// and intent. Baseline is neutral 0.5.
func ContextMatchScore(chunk schema.Chunk, userContext map[string]string) float64 {
	score := 0.5
	if pageType := userContext["page_type"]; pageType != "" && pageType == chunk.ContentType {
		score = 0.75
	}
	if userContext["intent"] == "purchase" && chunk.ContentType == schema.ContentTypeProduct && score < 0.65 {
		score = 0.65
	}
	return score
}

const minKeywordLength = 3

// SalientKeywords extracts the query terms worth exact-matching against
// chunk content.
func SalientKeywords(query string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,!?;:\"'")
		if len(w) <= minKeywordLength {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// BoostFactor is a multiplicative amplifier, always >= 1.0. Exact keyword
// hits, high-priority types and recently-viewed sources each raise it.
func BoostFactor(query string, chunk schema.Chunk, userContext map[string]string) float64 {
	boost := 1.0
	content := strings.ToLower(chunk.Content)
	matched := 0
	for _, kw := range SalientKeywords(query) {
		if strings.Contains(content, kw) {
			matched++
		}
	}
	if matched > 0 {
		boost += minf(0.05*float64(matched), 0.2)
	}
	if chunk.ContentType == schema.ContentTypeFAQ {
		boost *= 1.05
	}
	if sourceID := chunk.Metadata["source_id"]; sourceID != "" && recentlyViewed(userContext, sourceID) {
		boost *= 1.15
	}
	return boost
}

func recentlyViewed(userContext map[string]string, sourceID string) bool {
	for _, id := range strings.Split(userContext["recently_viewed"], ",") {
		if strings.TrimSpace(id) == sourceID {
			return true
		}
	}
	return false
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
