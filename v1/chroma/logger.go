package chroma

import "context"

// Logger is the logging surface the client needs. *logger.LoggerClient
// from the logger package satisfies it.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

type noopLogger struct{}

func (noopLogger) DebugWithContext(context.Context, string, error, ...map[string]interface{}) {}
func (noopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (noopLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (noopLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}
