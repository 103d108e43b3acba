package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/askdocs/kbretrieve/internal/embedder"
)

// Common errors
var (
	ErrMissingKBDir = errors.New("knowledge base directory not configured")
)

// Environment variables recognized by FromEnv, in addition to the
// provider credentials handled by the embedder package.
const (
	EnvConfigPath   = "KBRETRIEVE_CONFIG"
	EnvKBDir        = "KBRETRIEVE_KB_DIR"
	EnvCacheEnabled = "KBRETRIEVE_CACHE_ENABLED"
	EnvLogLevel     = "KBRETRIEVE_LOG_LEVEL"
)

// Config is the complete service configuration.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Cache         CacheConfig         `yaml:"cache"`
	LogLevel      string              `yaml:"log_level"`
}

// KnowledgeBaseConfig locates the document corpus.
type KnowledgeBaseConfig struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // azure, openai, local; empty = detect from env
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	APIVersion string `yaml:"api_version"`
	Model      string `yaml:"model"` // OpenAI model or Azure deployment
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig controls the query-result cache.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Size    int      `yaml:"size"`
	TTL     Duration `yaml:"ttl"`
}

// Duration wraps time.Duration so YAML values like "30m" parse with
// time.ParseDuration syntax.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		KnowledgeBase: KnowledgeBaseConfig{
			Dir: "./kb_data",
		},
		Cache: CacheConfig{
			Size: 1000,
			TTL:  Duration(time.Hour),
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the YAML file at path, layered over
// defaults, then applies environment overrides. An empty path skips the
// file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets environment variables override file values. Credentials
// come from the environment only; they have no place in a config file
// checked into a repo.
func (c *Config) applyEnv() {
	if dir := os.Getenv(EnvKBDir); dir != "" {
		c.KnowledgeBase.Dir = dir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if enabled := os.Getenv(EnvCacheEnabled); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			c.Cache.Enabled = v
		}
	}

	if provider := os.Getenv(embedder.EnvProvider); provider != "" {
		c.Embedding.Provider = provider
	}
	if endpoint := os.Getenv(embedder.EnvAzureEndpoint); endpoint != "" {
		c.Embedding.Endpoint = endpoint
	}
	if key := os.Getenv(embedder.EnvAzureAPIKey); key != "" {
		c.Embedding.APIKey = key
	}
	if version := os.Getenv(embedder.EnvAzureAPIVersion); version != "" {
		c.Embedding.APIVersion = version
	}
	if deployment := os.Getenv(embedder.EnvAzureDeployment); deployment != "" {
		c.Embedding.Model = deployment
	}
	if c.Embedding.APIKey == "" {
		if key := os.Getenv(embedder.EnvOpenAIAPIKey); key != "" {
			c.Embedding.APIKey = key
		}
	}
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if c.KnowledgeBase.Dir == "" {
		return ErrMissingKBDir
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must be >= 0, got %d", c.Cache.Size)
	}
	return nil
}

// EmbedderConfig translates the embedding section into the embedder
// package's config. When no provider is named, detection falls back to
// the environment-based rules.
func (c *Config) EmbedderConfig() embedder.Config {
	provider := c.Embedding.Provider
	if provider == "" {
		provider = embedder.DetectProvider()
	}
	return embedder.Config{
		Provider:   provider,
		APIKey:     c.Embedding.APIKey,
		Model:      c.Embedding.Model,
		Endpoint:   c.Embedding.Endpoint,
		APIVersion: c.Embedding.APIVersion,
		Timeout:    time.Duration(c.Embedding.TimeoutSec) * time.Second,
	}
}
