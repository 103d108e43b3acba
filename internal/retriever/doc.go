// Package retriever builds and queries the in-memory vector index over
// the knowledge base.
//
// The lifecycle is strictly two-phase. Build runs once at startup: every
// document is embedded (concurrently, bounded by a worker pool), the
// index dimension is fixed from the first document's vector, and all
// vectors are inserted in document order. From then on the index and
// document list are read-only, so Search needs no locking and may be
// called from any number of goroutines.
//
//	docs, err := kb.Load(cfg.Dir, cfg.Extensions)
//	...
//	ret, err := retriever.Build(ctx, docs, emb, nil)
//	...
//	results, err := ret.Retrieve(ctx, "Is physiotherapy covered?")
//
// Position i of the index corresponds to docs[i]; that positional join
// is the only association between a vector and its source document.
//
// # Degenerate Queries
//
// Blank queries never reach the embedding provider; they return a single
// placeholder entry immediately. Likewise, if every neighbor position is
// filtered out, a "nothing relevant" placeholder is returned instead of
// an empty list, so the downstream prompt always has something to cite.
//
// # Query Cache
//
// SearchRequest.UseCache opts a request into an LRU result cache with
// TTL expiry. It is off by default; the uncached path performs exactly
// one embedding call per query.
package retriever
