package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent names the package or subsystem that emitted a record.
	FieldComponent = "component"
	// FieldBatchID identifies one executed invocation line.
	FieldBatchID = "batch_id"
	// FieldCommand is the primary name of the running command.
	FieldCommand = "command"
	// FieldEventType is a stable machine-readable name for what happened.
	FieldEventType = "event_type"
	// FieldErrorHint tells the user what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-visible consequence of a warning.
	FieldImpact = "impact"
	// FieldRunID identifies one process run in persisted logs.
	FieldRunID = "run_id"
	FieldPath = "path"
)

type batchKey struct{}

// ContextWithBatch tags ctx with the batch it runs in.
func ContextWithBatch(ctx context.Context, batchID string) context.Context {
	if batchID == "" {
		return ctx
	}
	return context.WithValue(ctx, batchKey{}, batchID)
}

// BatchFromContext returns the batch ID set by ContextWithBatch.
func BatchFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(batchKey{}).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if id, ok := BatchFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldBatchID, id)}
	}
	return nil
}

// WithContext returns logger augmented with the fields carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
