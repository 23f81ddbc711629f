package client

import (
	"context"
	"net/http"
	"time"
)

// Profile mirrors the API's user resource.
type Profile struct {
	ID            string     `json:"id"`
	ExternalID    string     `json:"external_id"`
	Email         string     `json:"email"`
	Name          *string    `json:"name"`
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	ImageURL      *string    `json:"image_url"`
	EmailVerified bool       `json:"email_verified"`
	LastSignIn    *time.Time `json:"last_sign_in"`
}

func keyUserProfile() Key { return Key{"user-profile"} }

// UserProfile fetches the signed-in user's profile, cached under
// ["user-profile"].
func (c *Client) UserProfile(ctx context.Context) (*Profile, error) {
	value, err := c.cache.Fetch(keyUserProfile(), c.cacheTTL, func() (interface{}, error) {
		var profile Profile
		if err := c.do(ctx, http.MethodGet, "/v1/user/profile", nil, &profile); err != nil {
			return nil, err
		}
		return &profile, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Profile), nil
}

// InitializeUser runs the post-sign-in initialize call and primes the
// profile cache with the response.
func (c *Client) InitializeUser(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodPost, "/v1/user/initialize", nil, &profile); err != nil {
		return nil, err
	}
	c.cache.Invalidate(keyUserProfile())
	return &profile, nil
}
