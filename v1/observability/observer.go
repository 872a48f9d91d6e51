// Package observability defines the hook through which client packages report
// the operations they perform. Packages such as chroma and embedding call an
// Observer after every remote operation; the metrics package provides a
// Prometheus-backed implementation.
package observability

import "time"

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "chroma" or "embedding".
	Component string

	// Operation is the logical operation name, e.g. "query" or "create_collection".
	Operation string

	// Resource is the primary target, e.g. a collection name or endpoint.
	Resource string

	// SubResource carries secondary context such as the collection ID.
	SubResource string

	// Duration is the wall-clock time spent on the operation.
	Duration time.Duration

	// Error is the error returned to the caller, or nil.
	Error error

	// Size is an operation-specific size, usually the number of records.
	Size int64

	// Metadata holds additional key/value details.
	Metadata map[string]interface{}
}

// Observer receives notifications about completed operations.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
