package logger

import "os"

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config selects the log level and the fields added to every entry.
type Config struct {
	// Level is one of Debug, Info, Warning or Error. Anything else is Info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as "service".
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to *WithContext entries.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ZAP_LOGGER_ENABLE_TRACING"`
}

// NewConfig reads the configuration from environment variables.
func NewConfig() Config {
	return Config{
		Level:         os.Getenv("ZAP_LOGGER_LEVEL"),
		ServiceName:   os.Getenv("SERVICE_NAME"),
		EnableTracing: os.Getenv("ZAP_LOGGER_ENABLE_TRACING") == "true",
	}
}
