// Package logger provides structured logging on top of zap.
//
// # Architecture
//
//   - Logger interface: the logging contract
//   - LoggerClient struct: zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient
//   - FX module: provides both *LoggerClient and Logger
//
// Entries are JSON on stderr with ISO8601 timestamps, caller, pid and the
// configured service name. The *WithContext methods add trace_id and
// span_id from the OpenTelemetry span in the context when EnableTracing is
// set.
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "indexer",
//		EnableTracing: true,
//	})
//
//	log.Info("collection ready", nil, map[string]interface{}{
//		"collection": "docs",
//	})
//
//	log.ErrorWithContext(ctx, "query failed", err, map[string]interface{}{
//		"collection": "docs",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(logger.NewConfig),
//	)
//
// # Passing the logger to the chroma client
//
// The chroma, embedding, metrics and tracer modules take the Logger provided
// by FXModule. Outside fx, *LoggerClient satisfies chroma.Logger and
// embedding.Logger directly:
//
//	client.WithLogger(log)
//
// # Configuration
//
// ZAP_LOGGER_LEVEL selects debug, info, warning or error (default info).
// SERVICE_NAME and ZAP_LOGGER_ENABLE_TRACING fill the remaining fields.
package logger
