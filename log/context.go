package log

import (
	"context"
)

type ContextKey string

const (
	ContextKeyTraceID ContextKey = "logContextKeyTraceID"
)

// PutTraceID returns a context that carries the trace id. Every log
// line written with that context is tagged with it
func PutTraceID(ctx context.Context, traceID int64) context.Context {
	return context.WithValue(ctx, ContextKeyTraceID, traceID)
}

// GetTraceID returns the trace id stored in the context or -1
// if there is none
func GetTraceID(ctx context.Context) int64 {
	traceID, ok := ctx.Value(ContextKeyTraceID).(int64)
	if !ok {
		return -1
	}

	return traceID
}
