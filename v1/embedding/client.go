package embedding

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/chroma-go/v1/observability"
)

// Client is the public entrypoint for computing embeddings. It satisfies
// chroma.EmbeddingFunction, so it can be handed straight to a collection:
//
//	col = col.WithEmbeddingFunction(embedClient)
type Client struct {
	provider Provider
}

// NewClient validates cfg and builds a Client backed by an InferenceProvider.
func NewClient(cfg *Config) (*Client, error) {
	p, err := NewInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}
	return &Client{provider: p}, nil
}

// NewClientWithProvider wraps any Provider.
func NewClientWithProvider(p Provider) *Client {
	return &Client{provider: p}
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return c.provider.Embed(ctx, texts)
}

// WithLogger forwards logger to the provider when it accepts one.
func (c *Client) WithLogger(logger Logger) *Client {
	if p, ok := c.provider.(*InferenceProvider); ok && logger != nil {
		p.WithLogger(logger)
	}
	return c
}

// WithObserver forwards observer to the provider when it accepts one.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	if p, ok := c.provider.(*InferenceProvider); ok && observer != nil {
		p.WithObserver(observer)
	}
	return c
}

// Close releases resources held by the provider, if it has any.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
