// Package limiter defines interfaces and implementations for request rate limiting.
package limiter

import (
	"context"
	"time"
)

// Limiter controls how often a client may hit a guarded route.
type Limiter interface {
	// Allow reports whether the request identified by key is allowed and,
	// when it is not, how long the client should wait before retrying.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}
