package ragengine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storechat/ragengine/cache"
	"github.com/storechat/ragengine/common/logger"
	"github.com/storechat/ragengine/config"
	"github.com/storechat/ragengine/embedding"
	"github.com/storechat/ragengine/llm"
	"github.com/storechat/ragengine/modelselect"
	"github.com/storechat/ragengine/orchestrator"
	"github.com/storechat/ragengine/plan"
	"github.com/storechat/ragengine/post"
	"github.com/storechat/ragengine/prompt"
	"github.com/storechat/ragengine/rerank"
	"github.com/storechat/ragengine/retriever"
	"github.com/storechat/ragengine/safety"
	"github.com/storechat/ragengine/schema"
	"github.com/storechat/ragengine/session"
	"github.com/storechat/ragengine/vectordb"
	"github.com/storechat/ragengine/window"
)

// Engine wires every pipeline stage from configuration and exposes the
// public operations: answering questions and managing the knowledge base.
type Engine struct {
	cfg      *config.Config
	orch     *orchestrator.Orchestrator
	embed    embedding.Provider
	store    vectordb.Provider
	sessions session.Store
}

// NewEngine builds a fully wired engine from cfg. The caller owns Close.
func NewEngine(cfg *config.Config) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config failed, err: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	embedProvider, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider failed, err: %w", err)
	}
	storeProvider, err := vectordb.NewProvider(&cfg.VectorDB, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("create vectordb provider failed, err: %w", err)
	}
	llmProvider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}
	planProvider, err := plan.NewProvider(cfg.Plan, cfg.HTTP)
	if err != nil {
		return nil, fmt.Errorf("create plan provider failed, err: %w", err)
	}

	resultCache := cache.NewLRU[*retriever.Result](cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	ret := retriever.New(embedProvider, storeProvider, resultCache,
		time.Duration(cfg.Retrieval.CacheTTLSeconds)*time.Second,
		retriever.Options{
			SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
			MaxCandidates:       cfg.Retrieval.MaxCandidates,
		})

	estimator := window.NewEstimator(cfg.Context.TokenEncoding, cfg.Context.CharsPerToken)

	orch := &orchestrator.Orchestrator{
		Safety:             safety.NewChecker(),
		Retriever:          ret,
		ReRanker:           rerank.New(cfg.Rerank.Weights),
		Window:             window.NewBuilder(cfg.Context.MaxChunkChars, estimator),
		Prompt:             prompt.NewBuilder(cfg.Context.HistoryTurns),
		Selector:           modelselect.New(cfg.Models),
		Plan:               planProvider,
		LLM:                llmProvider,
		Post:               post.NewProcessor(),
		DefaultSafetyLevel: cfg.Safety.Level,
		DefaultMaxChunks:   cfg.Rerank.MaxChunks,
		Stream:             cfg.LLM.Stream,
	}

	return &Engine{
		cfg:   cfg,
		orch:  orch,
		embed: embedProvider,
		store: storeProvider,
		sessions: session.NewMemoryStore(
			time.Duration(cfg.Session.TTLSeconds)*time.Second,
			cfg.Session.MaxSessions,
		),
	}, nil
}

// GenerateRagResponse runs the pipeline once, without conversation state.
func (e *Engine) GenerateRagResponse(ctx context.Context, query string, userContext map[string]string, opts orchestrator.Options) (*schema.RagResult, error) {
	return e.orch.GenerateRagResponse(ctx, query, userContext, opts)
}

// Chat runs the pipeline inside a conversation: prior turns feed the prompt
// and both the question and the answer are recorded on the session. The
// returned session id is stable across calls; pass "" to start a new one.
func (e *Engine) Chat(ctx context.Context, sessionID, query string, userContext map[string]string, opts orchestrator.Options) (string, *schema.RagResult, error) {
	sess := e.sessions.GetOrCreate(sessionID)
	e.sessions.SetAttributes(sess.ID, userContext)
	opts.History = e.sessions.History(sess.ID, e.cfg.Context.HistoryTurns)

	result, err := e.orch.GenerateRagResponse(ctx, query, userContext, opts)
	if err != nil {
		return sess.ID, nil, err
	}

	e.sessions.Append(sess.ID, session.ChatMessage{Role: session.RoleUser, Content: query})
	e.sessions.Append(sess.ID, session.ChatMessage{Role: session.RoleAssistant, Content: result.Response})
	return sess.ID, result, nil
}

// CreateChunksFromText splits raw text into chunks, embeds each and stores
// them as documents of the given content type. It returns the stored ids.
func (e *Engine) CreateChunksFromText(ctx context.Context, text, contentType, sourceTitle, sourceURL string, metadata map[string]string) ([]string, error) {
	pieces := splitText(text, e.cfg.Context.MaxChunkChars)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("no content to index")
	}
	if contentType == "" {
		contentType = schema.ContentTypePage
	}

	docs := make([]vectordb.Document, 0, len(pieces))
	ids := make([]string, 0, len(pieces))
	now := time.Now()
	for _, piece := range pieces {
		vector, err := e.embed.GetEmbedding(ctx, piece)
		if err != nil {
			return nil, fmt.Errorf("embed chunk failed, err: %w", err)
		}
		id := uuid.NewString()
		docs = append(docs, vectordb.Document{
			ID:           id,
			Content:      piece,
			ContentType:  contentType,
			SourceTitle:  sourceTitle,
			SourceURL:    sourceURL,
			Metadata:     metadata,
			LastModified: now,
			Vector:       vector,
		})
		ids = append(ids, id)
	}
	if err := e.store.AddDocs(ctx, docs); err != nil {
		return nil, fmt.Errorf("store chunks failed, err: %w", err)
	}
	logger.Infof("engine: indexed %d chunks from %q", len(ids), sourceTitle)
	return ids, nil
}

// SearchChunks runs a raw similarity search without the chat pipeline.
func (e *Engine) SearchChunks(ctx context.Context, query string, topK int, threshold float64) ([]schema.RawMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, schema.ErrInvalidQuery()
	}
	if topK <= 0 {
		topK = e.cfg.Retrieval.MaxCandidates
	}
	if threshold <= 0 {
		threshold = e.cfg.Retrieval.SimilarityThreshold
	}
	vector, err := e.embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed, err: %w", err)
	}
	matches, _, err := e.store.SearchSimilar(ctx, vector, &schema.SearchOptions{TopK: topK, Threshold: threshold})
	if err != nil {
		return nil, fmt.Errorf("search chunks failed, err: %w", err)
	}
	return matches, nil
}

// ListChunks returns up to limit stored documents.
func (e *Engine) ListChunks(ctx context.Context, limit int) ([]vectordb.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.store.ListDocs(ctx, limit)
}

// DeleteChunk removes one stored document by id.
func (e *Engine) DeleteChunk(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("chunk id must not be empty")
	}
	return e.store.DeleteDocs(ctx, []string{id})
}

// Close releases backend connections.
func (e *Engine) Close() error {
	return e.store.Close()
}

// splitText cuts text into chunks of at most maxChars, preferring paragraph
// boundaries. Oversized paragraphs are rebuilt sentence by sentence so a
// chunk never starts or ends mid-sentence; a single sentence over the budget
// becomes its own chunk rather than being cut.
func splitText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = 1200
	}
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxChars {
			out = append(out, para)
			continue
		}
		var b strings.Builder
		for _, sentence := range window.SplitSentences(para) {
			added := len(sentence)
			if b.Len() > 0 {
				added++ // joining space
			}
			if b.Len() > 0 && b.Len()+added > maxChars {
				out = append(out, b.String())
				b.Reset()
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(sentence)
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}
