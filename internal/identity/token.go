package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a provider-issued session token.
type SessionClaims struct {
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	ImageURL      *string `json:"image_url"`
	EmailVerified bool    `json:"email_verified"`
	jwt.RegisteredClaims
}

// TokenVerifier verifies HS256 session tokens with the server-held
// provider secret and resolves the user from the token claims.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a TokenVerifier for the given secret key.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token signature and expiry.
func (v *TokenVerifier) Verify(_ context.Context, token string) (*User, error) {
	claims := &SessionClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user := &User{
		ID:            claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		FirstName:     claims.FirstName,
		LastName:      claims.LastName,
		ImageURL:      claims.ImageURL,
		EmailVerified: claims.EmailVerified,
	}
	if claims.IssuedAt != nil {
		signIn := claims.IssuedAt.Time
		user.LastSignInAt = &signIn
	}

	return user, nil
}
