package chroma

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/chroma-go/v1/observability"
)

const (
	apiPrefix        = "/api/v2"
	instrumentation  = "github.com/Aleph-Alpha/chroma-go/v1/chroma"
	defaultUserAgent = "chroma-go/v1"
)

// transport is shared by a Client and every Collection handle it returns.
// It holds no per-call state.
type transport struct {
	httpClient *http.Client
	base       *url.URL
	cfg        Config
	logger     Logger
	observer   observability.Observer
	tracer     trace.Tracer
}

func newTransport(cfg Config) (*transport, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/") + apiPrefix)
	if err != nil {
		return nil, wrapError(KindConfiguration, "new client", "invalid url", err)
	}

	return &transport{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		base:   base,
		cfg:    cfg,
		logger: noopLogger{},
		tracer: otel.Tracer(instrumentation),
	}, nil
}

// databasePath prefixes p with the configured tenant and database.
func (t *transport) databasePath(p string) string {
	return fmt.Sprintf("/tenants/%s/databases/%s%s",
		url.PathEscape(t.cfg.Tenant), url.PathEscape(t.cfg.Database), p)
}

// do performs one round trip. body is JSON-encoded when non-nil; the
// response is decoded into out when out is non-nil.
func (t *transport) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var (
		reader io.Reader
		err    error
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return wrapError(KindConfiguration, op, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	// path segments are already escaped by the caller.
	u := *t.base
	u.RawPath = t.base.EscapedPath() + path
	if u.Path, err = url.PathUnescape(u.RawPath); err != nil {
		return wrapError(KindConfiguration, op, "invalid path", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return wrapError(KindConfiguration, op, "build request", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	userAgent := t.cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	t.authenticate(req)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return wrapError(KindConnectivity, op, fmt.Sprintf("%s %s", method, u.Path), err)
	}
	defer resp.Body.Close()

	t.logger.DebugWithContext(ctx, "chroma request", nil, map[string]interface{}{
		"operation":   op,
		"method":      method,
		"path":        u.Path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapHTTPError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(KindConnectivity, op, "read response", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Error{Kind: KindProtocol, Op: op, StatusCode: resp.StatusCode, Message: "empty response body"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindProtocol, Op: op, StatusCode: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

// authenticate attaches the single configured credential.
func (t *transport) authenticate(req *http.Request) {
	switch t.cfg.Auth.Method {
	case AuthToken:
		if t.cfg.Auth.Header == HeaderXChromaToken {
			req.Header.Set(string(HeaderXChromaToken), t.cfg.Auth.Token)
			return
		}
		req.Header.Set("Authorization", "Bearer "+t.cfg.Auth.Token)
	case AuthBasic:
		credentials := base64.StdEncoding.EncodeToString([]byte(t.cfg.Auth.Username + ":" + t.cfg.Auth.Password))
		req.Header.Set("Authorization", "Basic "+credentials)
	}
}

// span tracks one client operation for tracing and the observer.
type span struct {
	t        *transport
	otel     trace.Span
	op       string
	resource string
	subRes   string
	start    time.Time
}

func (t *transport) begin(ctx context.Context, op, resource, subResource string) (context.Context, *span) {
	ctx, s := t.tracer.Start(ctx, "chroma."+op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "chroma"),
			attribute.String("db.operation", op),
			attribute.String("chroma.tenant", t.cfg.Tenant),
			attribute.String("chroma.database", t.cfg.Database),
		))
	if resource != "" {
		s.SetAttributes(attribute.String("chroma.collection", resource))
	}
	return ctx, &span{t: t, otel: s, op: op, resource: resource, subRes: subResource, start: time.Now()}
}

// end closes the span, notifies the observer and returns err unchanged.
func (s *span) end(size int, err error) error {
	var metadata map[string]interface{}
	if err != nil {
		s.otel.RecordError(err)
		s.otel.SetStatus(codes.Error, err.Error())
		var ce *Error
		if errors.As(err, &ce) {
			s.otel.SetAttributes(attribute.String("chroma.error_kind", string(ce.Kind)))
			metadata = map[string]interface{}{"error_kind": string(ce.Kind)}
		}
	} else {
		s.otel.SetStatus(codes.Ok, "")
	}
	s.otel.SetAttributes(attribute.Int("chroma.records", size))
	s.otel.End()

	if s.t.observer != nil {
		s.t.observer.ObserveOperation(observability.OperationContext{
			Component:   "chroma",
			Operation:   s.op,
			Resource:    s.resource,
			SubResource: s.subRes,
			Duration:    time.Since(s.start),
			Error:       err,
			Size:        int64(size),
			Metadata:    metadata,
		})
	}
	return err
}
