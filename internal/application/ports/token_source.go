package ports

import (
	"context"
)

// TokenSource supplies the bearer credential for outgoing requests and owns
// the reaction to a 401. Implemented by the session context; the HTTP
// clients never read storage themselves.
type TokenSource interface {
	// Token returns the current access token, empty for an anonymous
	// session.
	Token(ctx context.Context) (string, error)

	// HandleAuthError runs the single credential-refresh attempt. On
	// success it returns a fresh access token for one retry; on failure
	// the session is torn down and an *errors.AuthError comes back.
	HandleAuthError(ctx context.Context) (string, error)
}
