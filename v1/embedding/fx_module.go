package embedding

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/chroma-go/v1/logger"
	"github.com/Aleph-Alpha/chroma-go/v1/observability"
)

// FXModule wires the embedding client into Fx.
//
// It provides:
//   - *Config          (NewConfig)
//   - *Client          (NewClientWithDI)
//   - Lifecycle hook   (RegisterEmbeddingLifecycle)
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewConfig,
		NewClientWithDI,
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// EmbeddingParams groups the dependencies needed to create a Client.
type EmbeddingParams struct {
	fx.In

	Config   *Config
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a Client from injected dependencies.
func NewClientWithDI(params EmbeddingParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	return client.WithObserver(params.Observer), nil
}

// RegisterEmbeddingLifecycle closes the client on shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
