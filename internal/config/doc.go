// Package config loads service configuration from an optional YAML file
// layered under environment-variable overrides.
//
// Provider credentials are environment-only (AZURE_OPENAI_EMBEDDING_*,
// OPENAI_API_KEY); the file carries everything that is safe to commit:
// the knowledge base location, provider selection, timeouts, cache
// tuning, and log level.
package config
