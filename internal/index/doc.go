// Package index implements an exact, in-memory nearest-neighbor index
// over squared Euclidean (L2) distance.
//
// The index is a flat structure: every stored vector is scanned on each
// query. At knowledge-base scale (tens of documents, built once per
// process start) exact scan is both the simplest and the fastest option;
// approximate structures only pay off at orders of magnitude more
// vectors.
//
// # Usage
//
//	idx, err := index.New(1536)
//	if err != nil { ... }
//
//	for _, vec := range vectors {
//	    if err := idx.Add(vec); err != nil { ... }
//	}
//
//	distances, positions, err := idx.Search(queryVec, 4)
//
// Positions are insertion-order offsets: the i-th Add call stores at
// position i. The caller is responsible for keeping whatever parallel
// list associates positions with source entities.
//
// # Lifecycle
//
// Add calls must all happen before the first Search; after that the
// index is read-only and Search may be called concurrently from any
// number of goroutines without locking.
package index
