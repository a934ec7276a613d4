package post

import (
	"testing"

	"github.com/storechat/ragengine/llm"
	"github.com/storechat/ragengine/schema"
)

func scoredChunk(contentType, title string, rerank float64) schema.Chunk {
	c := schema.Chunk{
		Content:     "Returns are accepted within 30 days of delivery with the original receipt.",
		ContentType: contentType,
		SourceTitle: title,
		SourceURL:   "https://store.example/" + title,
	}
	c.SetRerankScore(rerank)
	return c
}

func TestConfidenceFloorWithoutSources(t *testing.T) {
	if got := CalculateResponseConfidence("I could not find that information.", nil); got != 0.3 {
		t.Errorf("no-source confidence = %v, want 0.3", got)
	}
}

func TestConfidenceSingleSourceBelowMultiSource(t *testing.T) {
	response := "You can return items within 30 days of delivery for a full refund."
	one := CalculateResponseConfidence(response, []schema.Chunk{
		scoredChunk(schema.ContentTypePolicy, "returns", 0.8),
	})
	three := CalculateResponseConfidence(response, []schema.Chunk{
		scoredChunk(schema.ContentTypePolicy, "returns", 0.8),
		scoredChunk(schema.ContentTypeFAQ, "faq", 0.8),
		scoredChunk(schema.ContentTypePage, "help", 0.8),
	})
	if one >= three {
		t.Errorf("single source confidence %v not below multi source %v", one, three)
	}
	if one <= 0.3 {
		t.Errorf("sourced confidence %v should beat the no-source floor", one)
	}
}

func TestConfidenceTracksRelevance(t *testing.T) {
	response := "You can return items within 30 days of delivery for a full refund."
	weak := CalculateResponseConfidence(response, []schema.Chunk{scoredChunk(schema.ContentTypePage, "a", 0.4)})
	strong := CalculateResponseConfidence(response, []schema.Chunk{scoredChunk(schema.ContentTypePage, "a", 0.95)})
	if weak >= strong {
		t.Errorf("confidence did not track relevance: weak %v >= strong %v", weak, strong)
	}
}

func TestConfidenceWithinUnitInterval(t *testing.T) {
	chunks := []schema.Chunk{
		scoredChunk(schema.ContentTypePolicy, "a", 1.0),
		scoredChunk(schema.ContentTypePolicy, "b", 1.0),
		scoredChunk(schema.ContentTypePolicy, "c", 1.0),
		scoredChunk(schema.ContentTypePolicy, "d", 1.0),
	}
	got := CalculateResponseConfidence("A perfectly grounded answer with plenty of support behind it.", chunks)
	if got < 0 || got > 1 {
		t.Errorf("confidence %v out of [0,1]", got)
	}
}

func TestProcessBuildsResultEnvelope(t *testing.T) {
	p := NewProcessor()
	gen := &llm.Generation{
		Response:       "  You can return items within 30 days.  ",
		Model:          "gpt-4o-mini",
		GenerationTime: 1.25,
	}
	used := []schema.Chunk{
		scoredChunk(schema.ContentTypePolicy, "returns", 0.9),
		scoredChunk(schema.ContentTypeFAQ, "faq", 0.7),
	}

	result := p.Process(gen, used, 8, "standard", Selection{Model: "gpt-4o-mini", Temperature: 0.5, MaxTokens: 400})

	if result.Response != "You can return items within 30 days." {
		t.Errorf("response not trimmed: %q", result.Response)
	}
	if len(result.SourcesUsed) != 2 {
		t.Fatalf("sources_used = %d, want 2", len(result.SourcesUsed))
	}
	if result.SourcesUsed[0].Type != schema.ContentTypePolicy || result.SourcesUsed[0].Relevance != 0.9 {
		t.Errorf("first source = %+v", result.SourcesUsed[0])
	}
	if result.RetrievalStats.ChunksConsidered != 8 || result.RetrievalStats.ChunksUsed != 2 {
		t.Errorf("retrieval stats = %+v", result.RetrievalStats)
	}
	if got := result.RetrievalStats.AverageRelevance; got < 0.79 || got > 0.81 {
		t.Errorf("average relevance = %v, want ~0.8", got)
	}
	if !result.SafetyPassed {
		t.Error("safety_passed = false on a successful pipeline run")
	}
	md := result.ResponseMetadata
	if md.ModelUsed != "gpt-4o-mini" || md.ResponseMode != "standard" || md.Temperature != 0.5 || md.MaxTokens != 400 || md.GenerationTime != 1.25 {
		t.Errorf("response metadata = %+v", md)
	}
}

func TestProcessEmptyChunks(t *testing.T) {
	p := NewProcessor()
	gen := &llm.Generation{Response: "I do not have that information.", Model: "gpt-4o-mini"}
	result := p.Process(gen, nil, 0, "concise", Selection{Model: "gpt-4o-mini", Temperature: 0.3, MaxTokens: 200})

	if result.Confidence != 0.3 {
		t.Errorf("confidence = %v, want floor 0.3", result.Confidence)
	}
	if result.SourcesUsed == nil || len(result.SourcesUsed) != 0 {
		t.Errorf("sources_used should be empty non-nil, got %#v", result.SourcesUsed)
	}
	if result.RetrievalStats.AverageRelevance != 0 {
		t.Errorf("average relevance = %v, want 0", result.RetrievalStats.AverageRelevance)
	}
}
