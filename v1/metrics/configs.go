package metrics

import "os"

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config controls the metrics registry and the /metrics HTTP server.
type Config struct {
	// Address is where the /metrics server listens, e.g. ":9090".
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go, process and build-info
	// collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every metric name, e.g. "search" gives
	// search_client_operations_total.
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// NewConfig reads the configuration from environment variables.
func NewConfig() Config {
	cfg := Config{
		Address:                 os.Getenv("METRICS_ADDRESS"),
		EnableDefaultCollectors: os.Getenv("METRICS_ENABLE_DEFAULT_COLLECTORS") == "true",
		Namespace:               os.Getenv("METRICS_NAMESPACE"),
		ServiceName:             os.Getenv("METRICS_SERVICE_NAME"),
	}
	if cfg.Address == "" {
		cfg.Address = DefaultMetricsAddress
	}
	return cfg
}
