// Package tracer sets up OpenTelemetry tracing.
//
// NewClient installs a TracerProvider as the otel global. The chroma and
// embedding clients create their spans through that global and propagate
// context over HTTP with otelhttp, so a single tracer.FXModule in the app
// is enough to trace every database and embedding call.
//
// Spans are exported over OTLP/HTTP when EnableExport is set; the collector
// endpoint comes from the standard OTEL_EXPORTER_OTLP_ENDPOINT variable.
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(tracer.NewConfig),
//	)
package tracer
