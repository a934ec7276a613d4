package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storechat/ragengine/common/logger"
	"github.com/storechat/ragengine/llm"
	"github.com/storechat/ragengine/metrics"
	"github.com/storechat/ragengine/modelselect"
	"github.com/storechat/ragengine/plan"
	"github.com/storechat/ragengine/post"
	"github.com/storechat/ragengine/prompt"
	"github.com/storechat/ragengine/rerank"
	"github.com/storechat/ragengine/retriever"
	"github.com/storechat/ragengine/safety"
	"github.com/storechat/ragengine/schema"
	"github.com/storechat/ragengine/session"
	"github.com/storechat/ragengine/window"
)

// Options tune a single pipeline invocation. Zero values fall back to the
// orchestrator's configured defaults.
type Options struct {
	SimilarityThreshold float64
	MaxChunks           int
	ResponseMode        string
	SafetyLevel         string
	// History is prior conversation turns, oldest first.
	History []session.ChatMessage
}

// Orchestrator runs the full query-to-answer pipeline: safety screening,
// retrieval, re-ranking, context assembly, prompt construction, model
// selection, generation and post-processing. Each collaborator is injected
// so tests can swap any stage.
type Orchestrator struct {
	Safety    *safety.Checker
	Retriever *retriever.Retriever
	ReRanker  *rerank.ReRanker
	Window    *window.Builder
	Prompt    *prompt.Builder
	Selector  *modelselect.Selector
	Plan      plan.Provider
	LLM       llm.Provider
	Post      *post.Processor

	DefaultSafetyLevel string
	DefaultMaxChunks   int
	// Stream asks the LLM provider for streaming transport on every
	// generation call.
	Stream bool
}

// GenerateRagResponse executes the pipeline for one query. Every error it
// returns is a *schema.PipelineError carrying one of the closed error codes;
// downstream failure detail stays in logs, never in the returned message.
func (o *Orchestrator) GenerateRagResponse(ctx context.Context, query string, userContext map[string]string, opts Options) (*schema.RagResult, error) {
	rec := metrics.NewRequestMetrics(uuid.NewString(), query)
	res, err := o.run(ctx, query, userContext, opts, rec)
	if err != nil {
		rec.Success = false
		rec.ErrorCode = string(schema.CodeOf(err))
		metrics.IncPipelineError(rec.ErrorCode)
	} else {
		rec.Success = true
		rec.Confidence = res.Confidence
		rec.ModelUsed = res.ResponseMetadata.ModelUsed
		rec.GenerationTimeS = res.ResponseMetadata.GenerationTime
		metrics.ObserveConfidence(res.Confidence)
	}
	rec.LogJSON()
	return res, err
}

func (o *Orchestrator) run(ctx context.Context, query string, userContext map[string]string, opts Options, rec *metrics.RequestMetrics) (*schema.RagResult, error) {
	mode := prompt.NormalizeMode(opts.ResponseMode)
	level := safety.ParseLevel(opts.SafetyLevel)
	if opts.SafetyLevel == "" && o.DefaultSafetyLevel != "" {
		level = safety.ParseLevel(o.DefaultSafetyLevel)
	}
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = o.DefaultMaxChunks
	}
	if maxChunks <= 0 {
		maxChunks = 5
	}
	rec.SafetyLevel = string(level)
	rec.ResponseMode = string(mode)

	if err := ctx.Err(); err != nil {
		return nil, schema.ErrCancelled(err)
	}

	start := time.Now()
	if err := o.Safety.Check(query, level); err != nil {
		metrics.IncSafetyBlocked(string(level))
		logger.Warnf("orchestrator: query blocked: %v", err)
		return nil, schema.ErrSafetyViolation("")
	}
	metrics.ObserveStage("safety", start)

	start = time.Now()
	retrieved, err := o.Retriever.Retrieve(ctx, query, userContext, retriever.Options{
		SimilarityThreshold: opts.SimilarityThreshold,
		MaxCandidates:       0,
	})
	metrics.ObserveStage("retrieve", start)
	rec.RetrievalLatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return nil, translate(err)
	}
	rec.CacheHit = retrieved.CacheHit
	rec.ChunksRetrieved = len(retrieved.Chunks)

	start = time.Now()
	ranked := o.ReRanker.Rerank(query, retrieved.Chunks, userContext, rerank.Options{MaxChunks: maxChunks})
	metrics.ObserveStage("rerank", start)
	rec.ChunksReranked = len(ranked)

	start = time.Now()
	cw := o.Window.Build(query, ranked, userContext, window.Options{MaxChunks: maxChunks})
	metrics.ObserveStage("window", start)
	rec.ChunksInContext = cw.TotalChunks
	rec.EstimatedTokens = cw.EstimatedTokens

	tier := o.currentTier(ctx)
	rec.PlanTier = tier
	sel := o.Selector.Select(cw, tier, mode)
	metrics.IncModelSelected(sel.Model)

	promptText := o.Prompt.Build(query, cw, opts.History, mode)

	if err := ctx.Err(); err != nil {
		return nil, schema.ErrCancelled(err)
	}

	start = time.Now()
	gen, err := o.LLM.GenerateResponse(ctx, promptText, llm.GenerateOptions{
		Model:       sel.Model,
		Temperature: sel.Temperature,
		MaxTokens:   sel.MaxTokens,
		Stream:      o.Stream,
	})
	metrics.ObserveStage("generate", start)
	rec.GenerateLatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return nil, translate(fmt.Errorf("generate response failed, err: %w", err))
	}

	// A response that itself trips an unambiguous pattern never ships.
	if err := o.Safety.Check(gen.Response, safety.LevelRelaxed); err != nil {
		logger.Warnf("orchestrator: generated response blocked: %v", err)
		return nil, schema.ErrSafetyViolation("")
	}

	result := o.Post.Process(gen, ranked[:cw.TotalChunks], retrieved.TotalFound, string(mode), post.Selection{
		Model:       sel.Model,
		Temperature: sel.Temperature,
		MaxTokens:   sel.MaxTokens,
	})
	return result, nil
}

// currentTier asks the plan provider, degrading to the entry tier when the
// provider fails so a plan outage never takes chat down with it.
func (o *Orchestrator) currentTier(ctx context.Context) string {
	if o.Plan == nil {
		return plan.TierStarter
	}
	tier, err := o.Plan.CurrentPlan(ctx)
	if err != nil {
		logger.Warnf("orchestrator: plan lookup failed, using %s tier: %v", plan.TierStarter, err)
		return plan.TierStarter
	}
	return tier
}

// translate maps collaborator errors onto the closed pipeline error set.
func translate(err error) error {
	var pe *schema.PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	if schema.IsCancellation(err) {
		return schema.ErrCancelled(err)
	}
	return schema.ErrUpstream(err)
}
