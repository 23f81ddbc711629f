// Package identity abstracts the external identity provider behind a small
// verifier interface so handlers and middleware can be tested without the
// provider SDK.
package identity

import (
	"context"
	"errors"
	"time"
)

// User is the identity-provider view of an account. The persistence layer
// mirrors it into models.User.
type User struct {
	ID            string
	Email         string
	Name          *string
	FirstName     *string
	LastName      *string
	ImageURL      *string
	EmailVerified bool
	LastSignInAt  *time.Time
}

// Verifier checks a session credential and resolves the account it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

var (
	// ErrInvalidToken is returned for malformed, expired, or unsigned tokens.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrProviderUnavailable is returned when the provider cannot be reached.
	ErrProviderUnavailable = errors.New("identity: provider unavailable")
)

// FullName joins first and last names, returning nil when both are absent.
func FullName(first, last *string) *string {
	switch {
	case first != nil && last != nil:
		name := *first + " " + *last
		return &name
	case first != nil:
		return first
	case last != nil:
		return last
	default:
		return nil
	}
}
