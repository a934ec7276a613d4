package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	stageLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rag_stage_latency_ms",
		Help:    "Latency of pipeline stages in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 400, 800, 1500, 3000, 6000},
	}, []string{"stage"})

	retrievalCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_retrieval_cache_total",
		Help: "Retrieval cache lookups by outcome",
	}, []string{"outcome"})

	safetyBlocks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_safety_blocked_total",
		Help: "Queries blocked by the safety checker, by level",
	}, []string{"level"})

	modelSelected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_model_selected_total",
		Help: "Model selections by model name",
	}, []string{"model"})

	responseConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rag_response_confidence",
		Help:    "Distribution of response confidence scores",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})

	pipelineErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_pipeline_errors_total",
		Help: "Pipeline failures by error code",
	}, []string{"code"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(stageLatency, retrievalCache, safetyBlocks, modelSelected, responseConfidence, pipelineErrors)
	})
}

// ObserveStage records the latency of one pipeline stage.
func ObserveStage(stage string, start time.Time) {
	ensureRegistered()
	stageLatency.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
}

// IncRetrievalCache records a retrieval cache hit or miss.
func IncRetrievalCache(hit bool) {
	ensureRegistered()
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	retrievalCache.WithLabelValues(outcome).Inc()
}

// IncSafetyBlocked records a query blocked at the given safety level.
func IncSafetyBlocked(level string) {
	ensureRegistered()
	safetyBlocks.WithLabelValues(level).Inc()
}

// IncModelSelected records which model the selector chose.
func IncModelSelected(model string) {
	ensureRegistered()
	modelSelected.WithLabelValues(model).Inc()
}

// ObserveConfidence records the confidence of a produced response.
func ObserveConfidence(c float64) {
	ensureRegistered()
	responseConfidence.Observe(c)
}

// IncPipelineError records a pipeline failure by caller-facing code.
func IncPipelineError(code string) {
	ensureRegistered()
	pipelineErrors.WithLabelValues(code).Inc()
}
