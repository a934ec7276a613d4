package metrics

import (
	"encoding/json"
	"time"

	"github.com/storechat/ragengine/common/logger"
)

// RequestMetrics records the full trace of one pipeline invocation. It is
// logged as a single JSON line so downstream observability can aggregate it.
type RequestMetrics struct {
	RequestID string    `json:"request_id"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`

	SafetyLevel  string `json:"safety_level"`
	ResponseMode string `json:"response_mode"`
	PlanTier     string `json:"plan_tier,omitempty"`

	CacheHit        bool `json:"cache_hit"`
	ChunksRetrieved int  `json:"chunks_retrieved"`
	ChunksReranked  int  `json:"chunks_reranked"`
	ChunksInContext int  `json:"chunks_in_context"`
	EstimatedTokens int  `json:"estimated_tokens"`

	ModelUsed       string  `json:"model_used,omitempty"`
	GenerationTimeS float64 `json:"generation_time_s,omitempty"`
	Confidence      float64 `json:"confidence"`

	RetrievalLatencyMs int64 `json:"retrieval_latency_ms"`
	GenerateLatencyMs  int64 `json:"generate_latency_ms"`
	TotalLatencyMs     int64 `json:"total_latency_ms"`

	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewRequestMetrics starts a record for one request.
func NewRequestMetrics(requestID, query string) *RequestMetrics {
	return &RequestMetrics{RequestID: requestID, Query: query, Timestamp: time.Now()}
}

// LogJSON emits the record as one structured log line.
func (m *RequestMetrics) LogJSON() {
	m.TotalLatencyMs = time.Since(m.Timestamp).Milliseconds()
	data, err := json.Marshal(m)
	if err != nil {
		logger.Warnf("metrics: marshal request record failed: %v", err)
		return
	}
	logger.Infof("rag_request: %s", string(data))
}
