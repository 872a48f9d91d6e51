package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds a dedicated Prometheus registry, the built-in operation
// metrics, and the HTTP server exposing them.
type Metrics struct {
	// Server serves /metrics.
	Server *http.Server

	// Registry is the registry all metrics are registered with.
	Registry *prometheus.Registry

	namespace  string
	registerer prometheus.Registerer

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	recordsTotal      *prometheus.CounterVec
}

var _ MetricsCollector = (*Metrics)(nil)

// NewMetrics creates the registry, registers the operation metrics (and the
// default collectors if enabled) with a constant service label, and
// prepares a server for /metrics on cfg.Address.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "indexer"})
//	client.WithObserver(m)
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// service="<cfg.ServiceName>" on every series
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		namespace:  cfg.Namespace,
		registerer: wrapped,
	}

	m.operationsTotal = m.counterVec("client_operations_total",
		"Total number of client operations by outcome",
		[]string{"component", "operation", "status"})
	m.operationDuration = m.histogramVec("client_operation_duration_seconds",
		"Duration of client operations in seconds",
		[]string{"component", "operation"}, prometheus.DefBuckets)
	m.recordsTotal = m.counterVec("client_records_total",
		"Number of records written or returned by client operations",
		[]string{"component", "operation"})

	wrapped.MustRegister(m.operationsTotal, m.operationDuration, m.recordsTotal)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}
