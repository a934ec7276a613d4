package post

import (
	"strings"

	"github.com/storechat/ragengine/llm"
	"github.com/storechat/ragengine/schema"
)

// Confidence shape: a retrieval-quality term dominates, source breadth and a
// response length sanity check contribute the rest.
const (
	noSourceConfidence = 0.3

	relevanceWeight = 0.6
	breadthWeight   = 0.25

	lengthBonusFull = 0.15
	lengthBonusThin = 0.05

	minSaneChars = 40
	maxSaneChars = 4000
)

// Processor assembles the final result envelope from a raw generation and
// the chunks that informed it.
type Processor struct{}

func NewProcessor() *Processor { return &Processor{} }

// Selection mirrors the generation parameters chosen for this request.
type Selection struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Process builds the RagResult. chunksConsidered is the pre-rerank candidate
// count; usedChunks are the chunks the context window actually carried.
func (p *Processor) Process(gen *llm.Generation, usedChunks []schema.Chunk, chunksConsidered int, mode string, sel Selection) *schema.RagResult {
	sources := make([]schema.SourceRef, 0, len(usedChunks))
	var relevanceSum float64
	for _, c := range usedChunks {
		sources = append(sources, schema.SourceRef{
			Type:      c.ContentType,
			Title:     c.SourceTitle,
			URL:       c.SourceURL,
			Relevance: c.Relevance(),
		})
		relevanceSum += c.Relevance()
	}
	avgRelevance := 0.0
	if len(usedChunks) > 0 {
		avgRelevance = relevanceSum / float64(len(usedChunks))
	}

	return &schema.RagResult{
		Response:    strings.TrimSpace(gen.Response),
		Confidence:  CalculateResponseConfidence(gen.Response, usedChunks),
		SourcesUsed: sources,
		RetrievalStats: schema.RetrievalStats{
			ChunksConsidered: chunksConsidered,
			ChunksUsed:       len(usedChunks),
			AverageRelevance: avgRelevance,
		},
		SafetyPassed: true,
		ResponseMetadata: schema.ResponseMetadata{
			ResponseMode:   mode,
			ModelUsed:      gen.Model,
			GenerationTime: gen.GenerationTime,
			Temperature:    sel.Temperature,
			MaxTokens:      sel.MaxTokens,
		},
	}
}

// CalculateResponseConfidence scores how much trust to place in a response.
// With no supporting chunks the score is pinned at the 0.3 floor. Otherwise
// average chunk relevance carries most of the weight, corroboration across
// up to three sources adds more, and responses of unreasonable length lose
// the sanity bonus.
func CalculateResponseConfidence(response string, usedChunks []schema.Chunk) float64 {
	if len(usedChunks) == 0 {
		return noSourceConfidence
	}

	var relevanceSum float64
	for _, c := range usedChunks {
		relevanceSum += c.Relevance()
	}
	avg := relevanceSum / float64(len(usedChunks))

	breadth := float64(len(usedChunks))
	if breadth > 3 {
		breadth = 3
	}

	lengthBonus := lengthBonusThin
	if n := len(strings.TrimSpace(response)); n >= minSaneChars && n <= maxSaneChars {
		lengthBonus = lengthBonusFull
	}

	score := avg*relevanceWeight + breadth/3*breadthWeight + lengthBonus
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
