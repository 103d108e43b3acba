package embedder

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables recognized by NewFromEnv. The Azure names match
// the deployment environment the knowledge base originally shipped with.
const (
	EnvProvider        = "KBRETRIEVE_EMBEDDING_PROVIDER"
	EnvAzureEndpoint   = "AZURE_OPENAI_EMBEDDING_ENDPOINT"
	EnvAzureAPIKey     = "AZURE_OPENAI_EMBEDDING_API_KEY"
	EnvAzureAPIVersion = "AZURE_OPENAI_EMBEDDING_API_VERSION"
	EnvAzureDeployment = "AZURE_OPENAI_EMBEDDING_DEPLOYMENT"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
)

// Config holds embedder configuration resolved from file or environment.
type Config struct {
	Provider   string
	APIKey     string
	Model      string // OpenAI model or Azure deployment name
	Endpoint   string // Azure endpoint or OpenAI base URL override
	APIVersion string // Azure only
	Timeout    time.Duration
}

// New creates an embedder with explicit configuration.
func New(cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderAzure:
		return NewAzureProvider(AzureConfig{
			Endpoint:   cfg.Endpoint,
			APIKey:     cfg.APIKey,
			APIVersion: cfg.APIVersion,
			Deployment: cfg.Model,
			Timeout:    cfg.Timeout,
		})
	case ProviderOpenAI:
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.Endpoint,
			Timeout: cfg.Timeout,
		})
	case ProviderLocal:
		return NewLocalProvider()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. KBRETRIEVE_EMBEDDING_PROVIDER (azure, openai, local)
//  2. Azure credentials if AZURE_OPENAI_EMBEDDING_API_KEY is set
//  3. OpenAI if OPENAI_API_KEY is set
//  4. Local as a last resort
func NewFromEnv() (Embedder, error) {
	cfg := Config{Provider: DetectProvider()}

	switch cfg.Provider {
	case ProviderAzure:
		cfg.Endpoint = os.Getenv(EnvAzureEndpoint)
		cfg.APIKey = os.Getenv(EnvAzureAPIKey)
		cfg.APIVersion = os.Getenv(EnvAzureAPIVersion)
		cfg.Model = os.Getenv(EnvAzureDeployment)
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv(EnvOpenAIAPIKey)
	}

	return New(cfg)
}

// DetectProvider returns the provider that would be selected from the
// current environment.
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvAzureAPIKey) != "" {
		return ProviderAzure
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
