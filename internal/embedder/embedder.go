package embedder

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrEmptyText           = errors.New("text cannot be empty")
	ErrProviderFailed      = errors.New("embedding provider failed")
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrMissingCredentials  = errors.New("embedding provider credentials not set")
	ErrMissingEndpoint     = errors.New("embedding provider endpoint not set")
)

// Embedding is a dense vector representation of a piece of text.
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
}

// Embedder converts text into a fixed-dimension embedding vector via a
// single call to an external provider.
//
// The gateway is deliberately thin: one outbound round trip per Embed
// call, no retries, no caching, no batching. Transport, auth, and quota
// errors propagate to the caller wrapped in ErrProviderFailed; retry
// policy, if any, belongs to whoever invokes the build or search that
// triggered the call.
type Embedder interface {
	// Embed generates the embedding vector for text.
	Embed(ctx context.Context, text string) (*Embedding, error)

	// Provider returns the provider name.
	Provider() string

	// Model returns the model or deployment identifier in use.
	Model() string

	// Close releases any resources held by the embedder.
	Close() error
}

// validateText rejects empty input before any network call is made.
// Blank-but-nonempty text is allowed here; the retriever short-circuits
// blank queries before reaching the gateway.
func validateText(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	return nil
}
