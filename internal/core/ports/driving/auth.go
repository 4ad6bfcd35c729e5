package driving

import "context"

// AuthService manages the signed-in platform account.
type AuthService interface {
	// Login exchanges the account's email and password for session
	// tokens and caches them for later runs.
	Login(ctx context.Context, email, password string) error

	// Logout discards the cached session tokens.
	Logout() error

	// Identity returns the signed-in account's email, or "" when
	// logged out.
	Identity() string

	// IsAuthenticated reports whether credentials are cached.
	IsAuthenticated() bool
}
