package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/askdocs/kbretrieve/internal/embedder"
	"github.com/askdocs/kbretrieve/internal/index"
	"github.com/askdocs/kbretrieve/pkg/types"
)

// Common errors
var (
	ErrEmptyCorpus = errors.New("cannot build index over zero documents")
)

const (
	// DefaultSearchK is the number of nearest neighbors fetched from
	// the index per query.
	DefaultSearchK = 4

	// TopDocuments is the number of ranked results a typical consumer
	// inserts into its downstream prompt. Search returns up to
	// DefaultSearchK candidates; callers are free to use all of them.
	TopDocuments = 3

	// DefaultBuildWorkers bounds concurrent embedding calls during the
	// build phase.
	DefaultBuildWorkers = 4
)

// Fallback placeholder entries. Downstream prompt assembly always
// receives at least one (name, content) pair, so degenerate queries and
// empty result sets are modeled as synthetic documents rather than
// errors.
const (
	FallbackName       = "no_document.html"
	FallbackNoQuestion = "Please ask a specific question about the services in the knowledge base."
	FallbackNoMatch    = "I couldn't find information related to your question in the knowledge base."
)

// nnIndex is the slice of the flat index the retriever depends on.
type nnIndex interface {
	Search(query []float32, k int) ([]float64, []int, error)
	Size() int
	Dimension() int
}

// Options configures index construction.
type Options struct {
	// Workers bounds concurrent embedding calls during build.
	// Defaults to DefaultBuildWorkers.
	Workers int

	// SearchK overrides the per-query neighbor count. Defaults to
	// DefaultSearchK.
	SearchK int

	// CacheSize is the capacity of the optional query-result cache.
	// Defaults to DefaultCacheSize.
	CacheSize int

	// Logger receives build and serve diagnostics. Defaults to a nop
	// logger.
	Logger *zap.Logger
}

// Retriever answers similarity queries against a build-once, read-only
// vector index over the knowledge base.
//
// After Build returns, the document list and index are never mutated, so
// Search may be called concurrently without coordination. The only
// mutable state is the optional query cache, which carries its own lock.
type Retriever struct {
	embedder embedder.Embedder
	index    nnIndex
	docs     []types.Document
	searchK  int
	logger   *zap.Logger
	cache    *queryCache
}

// Build embeds every document and constructs the retriever's index.
// The vector dimension is discovered from the first document's embedding
// and fixed for the lifetime of the index; any later embedding of a
// different length aborts the build.
//
// Document embeddings are generated concurrently but inserted in
// enumeration order, so index position i always corresponds to docs[i].
func Build(ctx context.Context, docs []types.Document, emb embedder.Embedder, opts *Options) (*Retriever, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultBuildWorkers
	}
	searchK := opts.SearchK
	if searchK <= 0 {
		searchK = DefaultSearchK
	}

	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	start := time.Now()

	// Embed concurrently, slotting each vector by document position so
	// completion order cannot break positional correspondence.
	vectors := make([][]float32, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		g.Go(func() error {
			result, err := emb.Embed(gctx, docs[i].Content)
			if err != nil {
				return fmt.Errorf("embedding document %s: %w", docs[i].Name, err)
			}
			vectors[i] = result.Vector
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The first document's vector fixes the index dimension.
	dim := len(vectors[0])
	idx, err := index.New(dim)
	if err != nil {
		return nil, fmt.Errorf("allocating index: %w", err)
	}
	for i, vec := range vectors {
		if err := idx.Add(vec); err != nil {
			return nil, fmt.Errorf("indexing document %s: %w", docs[i].Name, err)
		}
	}

	logger.Info("knowledge base indexed",
		zap.Int("documents", len(docs)),
		zap.Int("dimension", dim),
		zap.String("provider", emb.Provider()),
		zap.String("model", emb.Model()),
		zap.Duration("duration", time.Since(start)),
	)

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	return &Retriever{
		embedder: emb,
		index:    idx,
		docs:     append([]types.Document(nil), docs...),
		searchK:  searchK,
		logger:   logger,
		cache:    newQueryCache(cacheSize),
	}, nil
}

// SearchRequest contains parameters for a retrieval operation.
type SearchRequest struct {
	Query string

	// K overrides the neighbor count for this request. Zero means the
	// retriever default.
	K int

	// UseCache serves repeated queries from the result cache. Off by
	// default: the uncached path performs exactly one embedding call
	// per query.
	UseCache bool

	// CacheTTL bounds the lifetime of a cached entry. Zero means
	// DefaultCacheTTL.
	CacheTTL time.Duration
}

// SearchResponse contains ranked results and retrieval metadata.
type SearchResponse struct {
	Results  []types.ScoredDocument
	Duration time.Duration
	CacheHit bool

	// Fallback is true when Results holds a synthetic placeholder
	// entry instead of real knowledge base documents.
	Fallback bool
}

// Search embeds the query and returns the nearest documents, closest
// first. Blank queries and empty result sets yield a single fallback
// entry rather than an error or an empty list.
func (r *Retriever) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return &SearchResponse{
			Results:  []types.ScoredDocument{fallbackResult(FallbackNoQuestion)},
			Duration: time.Since(start),
			Fallback: true,
		}, nil
	}

	k := req.K
	if k <= 0 {
		k = r.searchK
	}

	if req.UseCache {
		if cached, ok := r.cache.get(req.Query, k); ok {
			cached.CacheHit = true
			cached.Duration = time.Since(start)
			return cached, nil
		}
	}

	queryEmbedding, err := r.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// A query vector of the wrong length is an environment fault, not
	// a bad query; the index rejects it rather than truncating.
	distances, positions, err := r.index.Search(queryEmbedding.Vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := make([]types.ScoredDocument, 0, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(r.docs) {
			r.logger.Warn("dropping out-of-range neighbor position",
				zap.Int("position", pos),
				zap.Int("documents", len(r.docs)),
			)
			continue
		}
		results = append(results, types.ScoredDocument{
			Document: r.docs[pos],
			Rank:     len(results) + 1,
			Distance: distances[i],
		})
	}

	if len(results) == 0 {
		return &SearchResponse{
			Results:  []types.ScoredDocument{fallbackResult(FallbackNoMatch)},
			Duration: time.Since(start),
			Fallback: true,
		}, nil
	}

	response := &SearchResponse{
		Results:  results,
		Duration: time.Since(start),
	}

	if req.UseCache {
		r.cache.put(req.Query, k, req.CacheTTL, response)
	}

	return response, nil
}

// Retrieve is the plain consumer entry point: ranked documents for a
// query string, with default parameters.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]types.ScoredDocument, error) {
	resp, err := r.Search(ctx, SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// DocumentCount returns the number of indexed documents.
func (r *Retriever) DocumentCount() int {
	return len(r.docs)
}

// Dimension returns the embedding dimension the index was built with.
func (r *Retriever) Dimension() int {
	return r.index.Dimension()
}

// fallbackResult fabricates the single placeholder entry returned for
// degenerate queries and empty result sets.
func fallbackResult(message string) types.ScoredDocument {
	return types.ScoredDocument{
		Document: types.Document{
			Name:    FallbackName,
			Content: message,
		},
		Rank:     1,
		Fallback: true,
	}
}
