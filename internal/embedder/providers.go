package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider configuration
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	// Default models
	DefaultOpenAIModel = "text-embedding-3-small"
	DefaultAPIVersion  = "2024-02-15-preview"

	// OpenAI API base
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// Local provider dimension
	LocalDimension = 384

	// Default outbound request timeout
	DefaultTimeout = 30 * time.Second
)

// embeddingResponse is the wire shape shared by the OpenAI and Azure
// OpenAI embeddings endpoints.
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// AzureProvider implements Embedder using an Azure OpenAI embeddings
// deployment. The deployment name is part of the URL and the key is
// passed in the api-key header, per the Azure REST surface.
type AzureProvider struct {
	endpoint   string
	apiKey     string
	apiVersion string
	deployment string
	httpClient *http.Client
}

// AzureConfig configures an Azure OpenAI embeddings provider.
type AzureConfig struct {
	Endpoint   string // e.g. "https://myresource.openai.azure.com"
	APIKey     string
	APIVersion string // defaults to DefaultAPIVersion
	Deployment string // embedding deployment name
	Timeout    time.Duration
}

// NewAzureProvider creates an Azure OpenAI embedder.
func NewAzureProvider(cfg AzureConfig) (*AzureProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: azure endpoint required", ErrMissingEndpoint)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: azure api key required", ErrMissingCredentials)
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("%w: azure embedding deployment required", ErrMissingEndpoint)
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &AzureProvider{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		deployment: cfg.Deployment,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (a *AzureProvider) embedURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/embeddings?api-version=%s",
		a.endpoint, url.PathEscape(a.deployment), url.QueryEscape(a.apiVersion))
}

func (a *AzureProvider) Embed(ctx context.Context, text string) (*Embedding, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	// Azure routes by deployment in the URL, so no model field here.
	body, err := json.Marshal(map[string]any{"input": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.embedURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.apiKey)

	vector, model, err := doEmbeddingRequest(a.httpClient, req)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = a.deployment
	}

	return &Embedding{
		Vector:    vector,
		Dimension: len(vector),
		Provider:  ProviderAzure,
		Model:     model,
	}, nil
}

func (a *AzureProvider) Provider() string {
	return ProviderAzure
}

func (a *AzureProvider) Model() string {
	return a.deployment
}

func (a *AzureProvider) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// OpenAIProvider implements Embedder using the OpenAI embeddings API.
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// OpenAIConfig configures an OpenAI embeddings provider.
type OpenAIConfig struct {
	APIKey  string
	Model   string // defaults to DefaultOpenAIModel
	BaseURL string // defaults to DefaultOpenAIBaseURL; overridable for tests
	Timeout time.Duration
}

// NewOpenAIProvider creates an OpenAI embedder.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key required", ErrMissingCredentials)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &OpenAIProvider{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, text string) (*Embedding, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"input": text,
		"model": o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	vector, model, err := doEmbeddingRequest(o.httpClient, req)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = o.model
	}

	return &Embedding{
		Vector:    vector,
		Dimension: len(vector),
		Provider:  ProviderOpenAI,
		Model:     model,
	}, nil
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// doEmbeddingRequest executes one embeddings round trip and extracts the
// first vector from the response. This is the single suspension point of
// the gateway: no retry, no caching.
func doEmbeddingRequest(client *http.Client, req *http.Request) ([]float32, string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("%w: api error %d: %s", ErrProviderFailed, resp.StatusCode, string(bodyBytes))
	}

	var apiResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, "", fmt.Errorf("%w: decode response: %v", ErrProviderFailed, err)
	}

	if len(apiResp.Data) == 0 || len(apiResp.Data[0].Embedding) == 0 {
		return nil, "", fmt.Errorf("%w: no embedding returned", ErrProviderFailed)
	}

	return apiResp.Data[0].Embedding, apiResp.Model, nil
}

// LocalProvider generates deterministic hash-derived vectors without any
// network dependency. It exists for offline development and tests; the
// vectors carry no semantic signal.
type LocalProvider struct {
	model string
}

// NewLocalProvider creates a local embedder.
func NewLocalProvider() (*LocalProvider, error) {
	return &LocalProvider{model: "local-embeddings"}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, text string) (*Embedding, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, LocalDimension)
	textHash := sha256.Sum256([]byte(text))
	for i := 0; i < LocalDimension; i++ {
		vector[i] = float32(textHash[i%len(textHash)]) / 255.0
	}

	return &Embedding{
		Vector:    vector,
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     l.model,
	}, nil
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	return nil
}
