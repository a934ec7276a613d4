package rerank

import (
	"testing"
	"time"

	"github.com/storechat/ragengine/schema"
)

func TestFreshnessScoreBuckets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"same day", 2 * time.Hour, 1.0},
		{"one week", 7 * 24 * time.Hour, 0.9},
		{"three weeks", 21 * 24 * time.Hour, 0.8},
		{"two months", 60 * 24 * time.Hour, 0.7},
		{"five months", 150 * 24 * time.Hour, 0.6},
		{"ten months", 300 * 24 * time.Hour, 0.45},
		{"two years", 730 * 24 * time.Hour, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := now.Add(-tt.age)
			if got := FreshnessScore(&ts, now); got != tt.want {
				t.Errorf("FreshnessScore(age=%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestFreshnessScoreMissingTimestamp(t *testing.T) {
	if got := FreshnessScore(nil, time.Now()); got != 0.5 {
		t.Errorf("FreshnessScore(nil) = %v, want 0.5", got)
	}
}

func TestFreshnessScoreMonotonic(t *testing.T) {
	now := time.Now()
	prev := 2.0
	for days := 0; days <= 800; days += 5 {
		ts := now.Add(-time.Duration(days) * 24 * time.Hour)
		got := FreshnessScore(&ts, now)
		if got > prev {
			t.Fatalf("freshness increased with age at %d days: %v > %v", days, got, prev)
		}
		prev = got
	}
}

func TestContentTypeScore(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contentType string
		want        float64
	}{
		{"purchase intent on product", "where can I buy this jacket", schema.ContentTypeProduct, 0.95},
		{"policy intent on policy", "what is your return policy", schema.ContentTypePolicy, 0.85},
		{"question on faq", "how long does delivery take?", schema.ContentTypeFAQ, 0.85},
		{"question on product", "does this come in blue?", schema.ContentTypeProduct, 0.5},
		{"question on policy", "is the store open today?", schema.ContentTypePolicy, 0.6},
		{"statement on faq", "jacket sizing chart", schema.ContentTypeFAQ, 0.5},
		{"policy intent on page", "shipping details", schema.ContentTypePage, 0.5},
		{"statement on page", "jacket sizing chart", schema.ContentTypePage, 0.4},
		{"unknown type", "anything", "banner", 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentTypeScore(tt.query, tt.contentType); got != tt.want {
				t.Errorf("ContentTypeScore(%q, %q) = %v, want %v", tt.query, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestQualityScoreThinContent(t *testing.T) {
	thin := schema.Chunk{Content: "Yes."}
	if got := QualityScore(thin); got >= 0.5 {
		t.Errorf("thin content quality = %v, want < 0.5", got)
	}

	rich := schema.Chunk{
		Content:     string(make([]byte, 700)),
		SourceTitle: "Return Policy",
		Metadata:    map[string]string{"title": "Returns", "summary": "30 day returns", "category": "policies"},
	}
	if got := QualityScore(rich); got <= QualityScore(thin) {
		t.Errorf("rich content quality %v not above thin %v", got, QualityScore(thin))
	}
}

func TestContextMatchScore(t *testing.T) {
	product := schema.Chunk{ContentType: schema.ContentTypeProduct}
	if got := ContextMatchScore(product, nil); got != 0.5 {
		t.Errorf("no context = %v, want neutral 0.5", got)
	}
	if got := ContextMatchScore(product, map[string]string{"page_type": "product"}); got != 0.75 {
		t.Errorf("page type match = %v, want 0.75", got)
	}
	if got := ContextMatchScore(product, map[string]string{"intent": "purchase"}); got != 0.65 {
		t.Errorf("purchase intent on product = %v, want 0.65", got)
	}
}

func TestBoostFactorNeverBelowOne(t *testing.T) {
	chunk := schema.Chunk{Content: "completely unrelated text", ContentType: schema.ContentTypePage}
	if got := BoostFactor("quantum flux capacitors", chunk, nil); got < 1.0 {
		t.Errorf("BoostFactor = %v, want >= 1.0", got)
	}
}

func TestBoostFactorKeywordAndRecency(t *testing.T) {
	chunk := schema.Chunk{
		Content:     "This waterproof jacket ships worldwide.",
		ContentType: schema.ContentTypeProduct,
		Metadata:    map[string]string{"source_id": "prod-42"},
	}
	plain := BoostFactor("waterproof jacket", chunk, nil)
	if plain <= 1.0 {
		t.Errorf("keyword matches should raise boost, got %v", plain)
	}

	viewed := BoostFactor("waterproof jacket", chunk, map[string]string{"recently_viewed": "prod-7, prod-42"})
	if viewed <= plain {
		t.Errorf("recently viewed boost %v not above plain %v", viewed, plain)
	}
}

func TestSalientKeywords(t *testing.T) {
	got := SalientKeywords("What is your return policy? Return shipping?")
	want := map[string]bool{"what": true, "your": true, "return": true, "policy": true, "shipping": true}
	if len(got) != len(want) {
		t.Fatalf("SalientKeywords = %v, want keys %v", got, want)
	}
	for _, kw := range got {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
	}
}
