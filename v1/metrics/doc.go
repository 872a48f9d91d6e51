// Package metrics exposes client metrics to Prometheus.
//
// *Metrics implements observability.Observer. Attach it to a chroma client
// or an embedding provider and every operation is counted:
//
//	client_operations_total{component, operation, status}
//	client_operation_duration_seconds{component, operation}
//	client_records_total{component, operation}
//
// status is "success" or the error kind, e.g. "not_found" or
// "connectivity". All series carry a constant service label and live in a
// dedicated registry served at /metrics.
//
// Direct usage:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "indexer"})
//	client.WithObserver(m)
//	go m.Server.ListenAndServe()
//
// With fx, FXModule provides *Metrics and observability.Observer and runs the
// server for the app's lifetime:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(metrics.NewConfig),
//	)
package metrics
