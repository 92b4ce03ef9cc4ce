package services

import "context"

type contextKey string

const (
	noteDateKey  contextKey = "note_date"
	routeKey     contextKey = "route"
	requestIDKey contextKey = "request_id"
)

// WithNoteDate annotates context with the canonical date key of the note being handled.
func WithNoteDate(ctx context.Context, date string) context.Context {
	if date == "" {
		return ctx
	}
	return context.WithValue(ctx, noteDateKey, date)
}

// NoteDateFromContext returns the note date if present.
func NoteDateFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(noteDateKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRoute annotates context with the API route pattern serving the request.
func WithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey, route)
}

// RouteFromContext returns the route pattern if present.
func RouteFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(routeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
