package embedding

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// EMBEDDING_ENDPOINT must point to the root of the OpenAI-compatible
// service, e.g. https://api.openai.com/v1. The provider appends
// /embeddings itself.

const (
	DefaultHTTPTimeoutSeconds = 30
	DefaultMaxBatchSize       = 128
	DefaultMaxConcurrency     = 4
)

// Config holds the embeddings endpoint and batching limits.
type Config struct {
	Endpoint string // Base URL of the embeddings API
	APIKey   string // Sent as a bearer token when non-empty
	Model    string // Model name passed with every request

	// Dimensions asks models that support it for shorter vectors. Zero
	// leaves the model default.
	Dimensions int

	HTTPTimeoutS int // HTTP timeout seconds (default 30)

	// MaxBatchSize caps the number of texts per request; larger inputs are
	// split and sent concurrently.
	MaxBatchSize int

	// MaxConcurrency caps the number of requests in flight for one call.
	MaxConcurrency int
}

// NewConfig reads from environment variables. EMBEDDING_SERVICE_TOKEN is
// accepted as a fallback for EMBEDDING_API_KEY.
func NewConfig() *Config {
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("EMBEDDING_SERVICE_TOKEN")
	}

	return &Config{
		Endpoint:       os.Getenv("EMBEDDING_ENDPOINT"),
		APIKey:         apiKey,
		Model:          os.Getenv("EMBEDDING_MODEL"),
		Dimensions:     envInt("EMBEDDING_DIMENSIONS", 0),
		HTTPTimeoutS:   envInt("EMBEDDING_HTTP_TIMEOUT_SECONDS", DefaultHTTPTimeoutSeconds),
		MaxBatchSize:   envInt("EMBEDDING_MAX_BATCH_SIZE", DefaultMaxBatchSize),
		MaxConcurrency: envInt("EMBEDDING_MAX_CONCURRENCY", DefaultMaxConcurrency),
	}
}

// Validate ensures required fields are present and fills zero limits with
// their defaults.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_ENDPOINT")
	}
	u, err := url.ParseRequestURI(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("embedding: invalid endpoint %q", c.Endpoint)
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	if c.Dimensions < 0 {
		return fmt.Errorf("embedding: dimensions must not be negative")
	}
	if c.HTTPTimeoutS <= 0 {
		c.HTTPTimeoutS = DefaultHTTPTimeoutSeconds
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	return nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
