package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/chroma-go/v1/logger"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("EMBEDDING_ENDPOINT", "https://api.openai.com/v1")
	t.Setenv("EMBEDDING_API_KEY", "")
	t.Setenv("EMBEDDING_SERVICE_TOKEN", "fallback")
	t.Setenv("EMBEDDING_MODEL", "text-embedding-3-small")
	t.Setenv("EMBEDDING_DIMENSIONS", "256")
	t.Setenv("EMBEDDING_HTTP_TIMEOUT_SECONDS", "x")
	t.Setenv("EMBEDDING_MAX_BATCH_SIZE", "64")
	t.Setenv("EMBEDDING_MAX_CONCURRENCY", "-3")

	cfg := NewConfig()
	assert.Equal(t, "https://api.openai.com/v1", cfg.Endpoint)
	assert.Equal(t, "fallback", cfg.APIKey)
	assert.Equal(t, "text-embedding-3-small", cfg.Model)
	assert.Equal(t, 256, cfg.Dimensions)
	assert.Equal(t, DefaultHTTPTimeoutSeconds, cfg.HTTPTimeoutS)
	assert.Equal(t, 64, cfg.MaxBatchSize)
	assert.Equal(t, DefaultMaxConcurrency, cfg.MaxConcurrency)
	assert.NoError(t, cfg.Validate())

	t.Setenv("EMBEDDING_API_KEY", "primary")
	assert.Equal(t, "primary", NewConfig().APIKey)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing endpoint", Config{Model: "m"}, true},
		{"relative endpoint", Config{Endpoint: "api/v1", Model: "m"}, true},
		{"unsupported scheme", Config{Endpoint: "grpc://host", Model: "m"}, true},
		{"missing model", Config{Endpoint: "http://host"}, true},
		{"negative dimensions", Config{Endpoint: "http://host", Model: "m", Dimensions: -1}, true},
		{"minimal", Config{Endpoint: "http://host", Model: "m"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultHTTPTimeoutSeconds, cfg.HTTPTimeoutS)
			assert.Equal(t, DefaultMaxBatchSize, cfg.MaxBatchSize)
			assert.Equal(t, DefaultMaxConcurrency, cfg.MaxConcurrency)
		})
	}

	_, err := NewInferenceProvider(nil)
	assert.Error(t, err)
}

func TestFXModule(t *testing.T) {
	t.Setenv("EMBEDDING_ENDPOINT", "http://localhost:8080/v1")
	t.Setenv("EMBEDDING_MODEL", "m")

	var client *Client
	app := fxtest.New(t,
		FXModule,
		fx.Populate(&client),
	)
	app.RequireStart()
	require.NotNil(t, client)
	app.RequireStop()
}

func TestFXModuleLogger(t *testing.T) {
	t.Setenv("EMBEDDING_ENDPOINT", "http://localhost:8080/v1")
	t.Setenv("EMBEDDING_MODEL", "m")

	log := logger.NewFromZap(zap.NewNop(), false)

	var client *Client
	app := fxtest.New(t,
		fx.Provide(fx.Annotate(
			func() *logger.LoggerClient { return log },
			fx.As(new(logger.Logger)),
		)),
		FXModule,
		fx.Populate(&client),
	)
	require.NoError(t, app.Err())

	p, ok := client.provider.(*InferenceProvider)
	require.True(t, ok)
	assert.Same(t, log, p.logger)
}
