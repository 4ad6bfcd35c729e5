package driven

import "context"

// TokenProvider supplies bearer tokens for backend calls.
// Implementations handle token refresh transparently.
type TokenProvider interface {
	// Token returns a valid access token, refreshing the cached one
	// when it has expired. Returns domain.ErrAuthRequired when no
	// credentials are stored.
	Token(ctx context.Context) (string, error)

	// Invalidate discards the cached access token. Called after the
	// backend rejects a request so the next Token call forces a refresh.
	Invalidate()

	// IsAuthenticated returns true if credentials are configured.
	IsAuthenticated() bool
}
