package application

import (
	"context"
	"time"
)

// Cache is the ephemeral store backing sessions and single-use tokens.
// Implementations must be safe for concurrent use and must make
// GetAndExtendTTL and GetAndDelete atomic with respect to concurrent
// callers.
type Cache interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	GetAndExtendTTL(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	GetAndDelete(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// Mailer dispatches the two transactional emails. Sends are awaited, not
// retried; a failure propagates to the caller.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendResetPasswordEmail(ctx context.Context, to, token string) error
}
