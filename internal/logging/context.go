package logging

import (
	"context"
	"log/slog"

	"standup/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldNoteDate is the standardized structured logging key for canonical note dates.
	FieldNoteDate = "note_date"
	// FieldRoute is the standardized structured logging key for API route patterns.
	FieldRoute = "route"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact         = "impact"
	FieldDecisionType   = "decision_type"
	FieldDecisionResult = "decision_result"
	FieldDecisionReason = "decision_reason"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if date, ok := services.NoteDateFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldNoteDate, date))
	}
	if route, ok := services.RouteFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRoute, route))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
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
