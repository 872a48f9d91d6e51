package embedding

import (
	"context"
	"fmt"
)

// Provider turns texts into vectors, one per input, in input order.
// It has the same shape as chroma.EmbeddingFunction.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Logger is the logging surface the provider needs.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// APIError is a non-2xx answer from the embeddings API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("embedding: http %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("embedding: http %d: %s", e.StatusCode, e.Message)
}

// Retryable reports rate limiting and server-side failures.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

type embeddingRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format"`
	Dimensions     int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
