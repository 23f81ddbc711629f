package identity

import (
	"context"
	"fmt"

	"github.com/authorizerdev/authorizer-go"
)

// AuthorizerVerifier validates session tokens against a hosted Authorizer
// instance instead of verifying them locally.
type AuthorizerVerifier struct {
	client *authorizer.AuthorizerClient
}

// NewAuthorizerVerifier creates the SDK client. redirectURL is unused for
// session validation but required by the SDK constructor.
func NewAuthorizerVerifier(clientID, authzURL, redirectURL string) (*AuthorizerVerifier, error) {
	client, err := authorizer.NewAuthorizerClient(clientID, authzURL, redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	return &AuthorizerVerifier{client: client}, nil
}

// Verify validates the session token remotely and maps the provider user.
func (v *AuthorizerVerifier) Verify(_ context.Context, token string) (*User, error) {
	res, err := v.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: token,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return nil, ErrInvalidToken
	}

	user := &User{
		ID:            res.User.ID,
		Email:         res.User.Email,
		FirstName:     res.User.GivenName,
		LastName:      res.User.FamilyName,
		ImageURL:      res.User.Picture,
		EmailVerified: res.User.EmailVerified,
	}
	user.Name = FullName(user.FirstName, user.LastName)

	return user, nil
}
