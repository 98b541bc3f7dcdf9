package transport

import (
	"context"
)

type (
	contextKey string
)

const (
	// ContextRetriedKey marks a request that already went through a refresh-and-replay cycle
	ContextRetriedKey contextKey = "authRetried"
)

// WithRetried marks ctx so that a 401 on a request carrying it is not retried
func WithRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextRetriedKey, true)
}

// IsRetried returns true if ctx was marked by WithRetried
func IsRetried(ctx context.Context) bool {
	if value := ctx.Value(ContextRetriedKey); value != nil {
		retried, _ := value.(bool)
		return retried
	}
	return false
}
