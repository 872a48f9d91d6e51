package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/chroma-go/v1/observability"
)

// InferenceProvider calls an OpenAI-compatible /embeddings endpoint.
//
// Inputs larger than MaxBatchSize are split into chunks that are sent
// concurrently, at most MaxConcurrency at a time. Vectors are placed by the
// index the server reports, so output order always matches input order.
type InferenceProvider struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	batchSize  int
	parallel   int
	httpClient *http.Client

	logger   Logger
	observer observability.Observer
}

var _ Provider = (*InferenceProvider)(nil)

// NewInferenceProvider validates cfg and builds a provider.
func NewInferenceProvider(cfg *Config) (*InferenceProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("inference: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &InferenceProvider{
		// Remove trailing slash if user added it.
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.MaxBatchSize,
		parallel:   cfg.MaxConcurrency,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.HTTPTimeoutS) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// WithLogger sets the logger for per-request debug output.
func (p *InferenceProvider) WithLogger(logger Logger) *InferenceProvider {
	p.logger = logger
	return p
}

// WithObserver sets the observer notified after every Embed call.
func (p *InferenceProvider) WithObserver(observer observability.Observer) *InferenceProvider {
	p.observer = observer
	return p
}

// Embed returns one vector per text. Any failed chunk fails the whole call.
func (p *InferenceProvider) Embed(ctx context.Context, texts []string) (out [][]float32, err error) {
	start := time.Now()
	defer func() {
		if p.observer != nil {
			p.observer.ObserveOperation(observability.OperationContext{
				Component: "embedding",
				Operation: "embed",
				Resource:  p.model,
				Duration:  time.Since(start),
				Error:     err,
				Size:      int64(len(texts)),
			})
		}
	}()

	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	out = make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallel)

	for lo := 0; lo < len(texts); lo += p.batchSize {
		hi := min(lo+p.batchSize, len(texts))
		g.Go(func() error {
			vectors, err := p.create(gctx, texts[lo:hi])
			if err != nil {
				return fmt.Errorf("inference: batch [%d:%d]: %w", lo, hi, err)
			}
			copy(out[lo:hi], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if p.logger != nil {
			p.logger.ErrorWithContext(ctx, "embedding request failed", err, map[string]interface{}{
				"model": p.model,
				"texts": len(texts),
			})
		}
		return nil, err
	}
	return out, nil
}

// create sends one request and orders the vectors by their index.
func (p *InferenceProvider) create(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := embeddingRequest{
		Model:          p.model,
		Input:          texts,
		EncodingFormat: "float",
		Dimensions:     p.dimensions,
	}

	var parsed embeddingResponse
	if err := p.postJSON(ctx, p.baseURL+"/embeddings", reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(parsed.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		if vectors[d.Index] != nil {
			return nil, fmt.Errorf("duplicate embedding index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	if p.logger != nil {
		p.logger.DebugWithContext(ctx, "embedded batch", nil, map[string]interface{}{
			"model":         parsed.Model,
			"texts":         len(texts),
			"prompt_tokens": parsed.Usage.PromptTokens,
		})
	}
	return vectors, nil
}

// Close releases idle connections.
func (p *InferenceProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
