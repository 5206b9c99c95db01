package middleware

import "context"

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyHTMX
	keySession
	keyFallbackLang
)

// WithRequestID stores the chi request id for handlers below the logger.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

// WithHTMX marks the request as issued by htmx.
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, keyHTMX, is)
}

// IsHTMX reports whether the request asks for a fragment.
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(keyHTMX).(bool)
	return v
}
