package context

import (
	"context"
	"strings"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	actorKeyKey  contextKey = "actor_key"
)

// WithRequestID stores the request correlation identifier on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request identifier, or empty when unset.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithActorKey stores the resolved actor key on the context.
func WithActorKey(ctx context.Context, actorKey string) context.Context {
	actorKey = strings.TrimSpace(actorKey)
	if actorKey == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKeyKey, actorKey)
}

// ActorKeyFromContext returns the actor key, or empty when unset.
func ActorKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(actorKeyKey).(string); ok {
		return value
	}
	return ""
}
