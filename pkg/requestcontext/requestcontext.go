// Package requestcontext carries per-request values through context:
// the request id assigned by middleware and the authenticated actor.
package requestcontext

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	actorKey
)

// Actor identifies the authenticated caller of a request.
type Actor struct {
	ID   string
	Role string
}

// WithRequestID returns a context carrying the given request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id from the context, or "" if absent.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated actor and whether one is present.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// ActorID returns the authenticated actor's id, or fallback when no actor is
// present. Status history entries use this with "system" as the fallback.
func ActorID(ctx context.Context, fallback string) string {
	if a, ok := ActorFrom(ctx); ok && a.ID != "" {
		return a.ID
	}
	return fallback
}
