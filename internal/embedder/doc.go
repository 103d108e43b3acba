// Package embedder converts text into dense embedding vectors by calling
// an external embedding provider.
//
// The package supports Azure OpenAI deployments (the original home of
// the knowledge base), the plain OpenAI API, and a deterministic local
// provider for offline use. All providers implement the Embedder
// interface:
//
//	emb, err := embedder.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	result, err := emb.Embed(ctx, "What dental services are covered?")
//	fmt.Printf("dimension: %d\n", result.Dimension)
//
// # Gateway Contract
//
// Each Embed call is exactly one outbound round trip. The gateway does
// not retry, cache, batch, or rate-limit; any such policy belongs to the
// caller. Provider errors (transport, auth, quota) are returned wrapped
// in ErrProviderFailed and are never converted into an empty success.
//
// The embedding dimension is whatever the provider returns; callers that
// need a consistent dimension across calls (the index build does) must
// verify it themselves.
package embedder
