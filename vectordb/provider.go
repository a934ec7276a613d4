package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/storechat/ragengine/config"
	"github.com/storechat/ragengine/schema"
)

// Document is a stored knowledge fragment with its vector.
type Document struct {
	ID           string            `json:"id"`
	Content      string            `json:"content"`
	ContentType  string            `json:"content_type"`
	SourceTitle  string            `json:"source_title,omitempty"`
	SourceURL    string            `json:"source_url,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	Vector       []float32         `json:"-"`
}

// Provider is the similarity-search collaborator contract.
type Provider interface {
	// SearchSimilar returns matches above opts.Threshold plus the total
	// number of candidates the backend considered.
	SearchSimilar(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.RawMatch, int, error)
	AddDocs(ctx context.Context, docs []Document) error
	ListDocs(ctx context.Context, limit int) ([]Document, error)
	DeleteDocs(ctx context.Context, ids []string) error
	Close() error
}

// NewProvider creates a vector store provider from config.
func NewProvider(cfg *config.VectorDBConfig, dim int) (Provider, error) {
	switch cfg.Provider {
	case "milvus":
		return newMilvusProvider(cfg, dim)
	default:
		return nil, fmt.Errorf("unknown vectordb provider: %s", cfg.Provider)
	}
}
