package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/storechat/ragengine/common/logger"
	"github.com/storechat/ragengine/config"
	"github.com/storechat/ragengine/schema"
)

const (
	fieldID           = "id"
	fieldContent      = "content"
	fieldContentType  = "content_type"
	fieldSourceTitle  = "source_title"
	fieldSourceURL    = "source_url"
	fieldMetadata     = "metadata"
	fieldLastModified = "last_modified"
	fieldVector       = "vector"

	defaultEf = 64
)

var outputFields = []string{fieldID, fieldContent, fieldContentType, fieldSourceTitle, fieldSourceURL, fieldMetadata, fieldLastModified}

type milvusProvider struct {
	cli        client.Client
	collection string
	dim        int
}

func newMilvusProvider(cfg *config.VectorDBConfig, dim int) (*milvusProvider, error) {
	if dim <= 0 {
		dim = 1536
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cli, err := client.NewClient(ctx, client.Config{
		Address:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus failed, err: %w", err)
	}
	p := &milvusProvider{cli: cli, collection: cfg.Collection, dim: dim}
	if err := p.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *milvusProvider) ensureCollection(ctx context.Context) error {
	has, err := p.cli.HasCollection(ctx, p.collection)
	if err != nil {
		return fmt.Errorf("check collection failed, err: %w", err)
	}
	if has {
		return p.cli.LoadCollection(ctx, p.collection, false)
	}

	sch := entity.NewSchema().WithName(p.collection).
		WithDescription("storefront knowledge fragments").
		WithField(entity.NewField().WithName(fieldID).WithDataType(entity.FieldTypeVarChar).WithIsPrimaryKey(true).WithMaxLength(256)).
		WithField(entity.NewField().WithName(fieldContent).WithDataType(entity.FieldTypeVarChar).WithMaxLength(8192)).
		WithField(entity.NewField().WithName(fieldContentType).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64)).
		WithField(entity.NewField().WithName(fieldSourceTitle).WithDataType(entity.FieldTypeVarChar).WithMaxLength(512)).
		WithField(entity.NewField().WithName(fieldSourceURL).WithDataType(entity.FieldTypeVarChar).WithMaxLength(1024)).
		WithField(entity.NewField().WithName(fieldMetadata).WithDataType(entity.FieldTypeJSON)).
		WithField(entity.NewField().WithName(fieldLastModified).WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().WithName(fieldVector).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(p.dim)))

	if err := p.cli.CreateCollection(ctx, sch, 1); err != nil {
		return fmt.Errorf("create collection failed, err: %w", err)
	}
	idx, err := entity.NewIndexHNSW(entity.IP, 8, 64)
	if err != nil {
		return fmt.Errorf("build index definition failed, err: %w", err)
	}
	if err := p.cli.CreateIndex(ctx, p.collection, fieldVector, idx, false); err != nil {
		return fmt.Errorf("create index failed, err: %w", err)
	}
	return p.cli.LoadCollection(ctx, p.collection, false)
}

func (p *milvusProvider) SearchSimilar(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.RawMatch, int, error) {
	topK := 10
	threshold := 0.0
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		threshold = opts.Threshold
	}
	sp, err := entity.NewIndexHNSWSearchParam(defaultEf)
	if err != nil {
		return nil, 0, fmt.Errorf("build search param failed, err: %w", err)
	}
	results, err := p.cli.Search(ctx, p.collection, nil, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)}, fieldVector, entity.IP, topK, sp)
	if err != nil {
		return nil, 0, fmt.Errorf("search docs failed, err: %w", err)
	}

	matches := make([]schema.RawMatch, 0, topK)
	total := 0
	for _, res := range results {
		total += res.ResultCount
		for i := 0; i < res.ResultCount; i++ {
			score := clamp01(float64(res.Scores[i]))
			if score < threshold {
				continue
			}
			m := schema.RawMatch{Score: score}
			m.Content = varcharAt(res.Fields.GetColumn(fieldContent), i)
			m.ContentType = varcharAt(res.Fields.GetColumn(fieldContentType), i)
			m.SourceTitle = varcharAt(res.Fields.GetColumn(fieldSourceTitle), i)
			m.SourceURL = varcharAt(res.Fields.GetColumn(fieldSourceURL), i)
			m.Metadata = metadataAt(res.Fields.GetColumn(fieldMetadata), i)
			if ts := int64At(res.Fields.GetColumn(fieldLastModified), i); ts > 0 {
				t := time.Unix(ts, 0).UTC()
				m.LastModified = &t
			}
			matches = append(matches, m)
		}
	}
	return matches, total, nil
}

func (p *milvusProvider) AddDocs(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	n := len(docs)
	ids := make([]string, n)
	contents := make([]string, n)
	contentTypes := make([]string, n)
	titles := make([]string, n)
	urls := make([]string, n)
	metas := make([][]byte, n)
	modified := make([]int64, n)
	vectors := make([][]float32, n)
	for i, d := range docs {
		ids[i] = d.ID
		contents[i] = d.Content
		contentTypes[i] = d.ContentType
		titles[i] = d.SourceTitle
		urls[i] = d.SourceURL
		meta := d.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal metadata failed, err: %w", err)
		}
		metas[i] = raw
		modified[i] = d.LastModified.Unix()
		vectors[i] = d.Vector
	}
	_, err := p.cli.Insert(ctx, p.collection, "",
		entity.NewColumnVarChar(fieldID, ids),
		entity.NewColumnVarChar(fieldContent, contents),
		entity.NewColumnVarChar(fieldContentType, contentTypes),
		entity.NewColumnVarChar(fieldSourceTitle, titles),
		entity.NewColumnVarChar(fieldSourceURL, urls),
		entity.NewColumnJSONBytes(fieldMetadata, metas),
		entity.NewColumnInt64(fieldLastModified, modified),
		entity.NewColumnFloatVector(fieldVector, p.dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("add docs failed, err: %w", err)
	}
	return nil
}

func (p *milvusProvider) ListDocs(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rs, err := p.cli.Query(ctx, p.collection, nil, "", outputFields, client.WithLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list docs failed, err: %w", err)
	}
	var (
		count int
	)
	for _, col := range rs {
		if col.Name() == fieldID {
			count = col.Len()
		}
	}
	docs := make([]Document, 0, count)
	get := func(name string) entity.Column {
		for _, col := range rs {
			if col.Name() == name {
				return col
			}
		}
		return nil
	}
	for i := 0; i < count; i++ {
		d := Document{
			ID:          varcharAt(get(fieldID), i),
			Content:     varcharAt(get(fieldContent), i),
			ContentType: varcharAt(get(fieldContentType), i),
			SourceTitle: varcharAt(get(fieldSourceTitle), i),
			SourceURL:   varcharAt(get(fieldSourceURL), i),
			Metadata:    metadataAt(get(fieldMetadata), i),
		}
		if ts := int64At(get(fieldLastModified), i); ts > 0 {
			d.LastModified = time.Unix(ts, 0).UTC()
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (p *milvusProvider) DeleteDocs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := p.cli.DeleteByPks(ctx, p.collection, "", entity.NewColumnVarChar(fieldID, ids)); err != nil {
		return fmt.Errorf("delete docs failed, err: %w", err)
	}
	return nil
}

func (p *milvusProvider) Close() error {
	return p.cli.Close()
}

func varcharAt(col entity.Column, i int) string {
	vc, ok := col.(*entity.ColumnVarChar)
	if !ok || i >= vc.Len() {
		return ""
	}
	v, err := vc.ValueByIdx(i)
	if err != nil {
		return ""
	}
	return v
}

func int64At(col entity.Column, i int) int64 {
	ic, ok := col.(*entity.ColumnInt64)
	if !ok || i >= ic.Len() {
		return 0
	}
	v, err := ic.ValueByIdx(i)
	if err != nil {
		return 0
	}
	return v
}

func metadataAt(col entity.Column, i int) map[string]string {
	jc, ok := col.(*entity.ColumnJSONBytes)
	if !ok || i >= jc.Len() {
		return nil
	}
	raw, err := jc.ValueByIdx(i)
	if err != nil || len(raw) == 0 {
		return nil
	}
	meta := map[string]string{}
	if err := json.Unmarshal(raw, &meta); err != nil {
		logger.Warnf("vectordb: malformed metadata at row %d: %v", i, err)
		return nil
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
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
