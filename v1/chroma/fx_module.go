package chroma

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/chroma-go/v1/logger"
	"github.com/Aleph-Alpha/chroma-go/v1/observability"
	"github.com/Aleph-Alpha/chroma-go/v1/vectordb"
)

// FXModule provides a *Client, the vectordb.Service adapter backed by it,
// and a lifecycle hook that probes the server on start when
// Config.HeartbeatOnStart is set.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,  // optional
//	    metrics.FXModule, // optional, provides observability.Observer
//	    chroma.FXModule,
//	    fx.Provide(chroma.NewConfig),
//	)
var FXModule = fx.Module("chroma",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			NewAdapter,
			fx.As(new(vectordb.Service)),
		),
	),
	fx.Invoke(RegisterChromaLifecycle),
)

// ChromaParams groups the dependencies needed to create a Client.
type ChromaParams struct {
	fx.In

	Config   *Config
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI builds a Client from injected dependencies. Logger and
// Observer are optional.
func NewClientWithDI(params ChromaParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	return client, nil
}

// RegisterChromaLifecycle checks server reachability on start when
// HeartbeatOnStart is enabled, so a misconfigured URL fails the app early.
func RegisterChromaLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !client.cfg.HeartbeatOnStart {
				return nil
			}
			ns, err := client.Heartbeat(ctx)
			if err != nil {
				client.t.logger.ErrorWithContext(ctx, "chroma heartbeat failed", err, map[string]interface{}{
					"url": client.cfg.URL,
				})
				return err
			}
			client.t.logger.InfoWithContext(ctx, "connected to chroma", nil, map[string]interface{}{
				"url":       client.cfg.URL,
				"tenant":    client.cfg.Tenant,
				"database":  client.cfg.Database,
				"heartbeat": ns,
			})
			return nil
		},
	})
}
