package ports

import "context"

// LoginLimiter throttles repeated failed logins per username. Implementations
// should fail open: a limiter outage must never lock out logins.
type LoginLimiter interface {
	// Allow reports whether another attempt for username is permitted.
	Allow(ctx context.Context, username string) (bool, error)

	// RecordFailure counts a failed attempt against username.
	RecordFailure(ctx context.Context, username string) error

	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
