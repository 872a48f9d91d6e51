package chroma

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Aleph-Alpha/chroma-go/v1/logger"
	"github.com/Aleph-Alpha/chroma-go/v1/observability"
	"github.com/Aleph-Alpha/chroma-go/v1/vectordb"
)

func TestFXModule(t *testing.T) {
	fake := newFakeChroma(t)
	obs := &TestObserver{}

	var (
		client  *Client
		service vectordb.Service
	)
	app := fxtest.New(t,
		fx.Provide(
			func() *Config { return FromURL(fake.URL()) },
			fx.Annotate(
				func() *TestObserver { return obs },
				fx.As(new(observability.Observer)),
			),
		),
		FXModule,
		fx.Populate(&client, &service),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, client)
	require.NotNil(t, service)

	// heartbeat on start is off by default
	assert.Equal(t, int64(0), fake.Requests())

	ctx := context.Background()
	require.NoError(t, service.EnsureCollection(ctx, "docs", nil))

	names, err := service.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)

	if len(obs.GetOperations()) == 0 {
		t.Fatal("expected the injected observer to receive operations")
	}
}

func TestFXModuleHeartbeatOnStart(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		fake := newFakeChroma(t)
		cfg := FromURL(fake.URL())
		cfg.HeartbeatOnStart = true

		app := fxtest.New(t,
			fx.Provide(func() *Config { return cfg }),
			FXModule,
		)
		app.RequireStart()
		app.RequireStop()

		assert.Equal(t, int64(1), fake.Requests())
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(nil)
		url := server.URL
		server.Close()

		cfg := FromURL(url)
		cfg.HeartbeatOnStart = true

		app := fxtest.New(t,
			fx.Provide(func() *Config { return cfg }),
			FXModule,
		)
		err := app.Start(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConnectivity)
	})
}

func TestFXModuleInvalidConfig(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() *Config { return FromURL("") }),
		FXModule,
	)
	err := app.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFXModuleLogger(t *testing.T) {
	t.Run("logger module", func(t *testing.T) {
		fake := newFakeChroma(t)

		var client *Client
		app := fxtest.New(t,
			fx.Provide(
				func() *Config { return FromURL(fake.URL()) },
				func() logger.Config { return logger.Config{Level: logger.Error, ServiceName: "test"} },
			),
			logger.FXModule,
			FXModule,
			fx.Populate(&client),
		)
		require.NoError(t, app.Err())

		_, isNoop := client.t.logger.(noopLogger)
		assert.False(t, isNoop)
		assert.IsType(t, &logger.LoggerClient{}, client.t.logger)
	})

	t.Run("heartbeat is logged", func(t *testing.T) {
		fake := newFakeChroma(t)
		cfg := FromURL(fake.URL())
		cfg.HeartbeatOnStart = true

		core, logs := observer.New(zap.InfoLevel)
		app := fxtest.New(t,
			fx.Provide(
				func() *Config { return cfg },
				fx.Annotate(
					func() *logger.LoggerClient { return logger.NewFromZap(zap.New(core), false) },
					fx.As(new(logger.Logger)),
				),
			),
			FXModule,
		)
		app.RequireStart()
		app.RequireStop()

		assert.Equal(t, 1, logs.FilterMessage("connected to chroma").Len())
	})
}
