package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mustaphalimar/prepilot/internal/identity"
	"github.com/mustaphalimar/prepilot/internal/models"
	"github.com/mustaphalimar/prepilot/internal/services"
	"github.com/mustaphalimar/prepilot/internal/utils"
)

// SessionCookieName is the identity provider's session cookie.
const SessionCookieName = "__session"

const userLocalsKey = "user"

// AuthBridge resolves the caller's identity without rejecting requests.
// Missing or invalid credentials leave a nil user in the request context;
// only RequireUser turns that into a 401. Public and protected routes
// share this stage.
type AuthBridge struct {
	Verifier identity.Verifier
	Users    *services.UserService
}

// Middleware extracts a bearer or session-cookie credential, verifies it,
// and attaches the resolved (mirrored) user to the request context.
func (b *AuthBridge) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Next()
		}

		ident, err := b.Verifier.Verify(c.Context(), token)
		if err != nil {
			// Soft failure: the request proceeds as anonymous.
			return c.Next()
		}

		user, err := b.Users.EnsureUser(c.Context(), ident)
		if err != nil {
			log.Printf("auth: failed to resolve user %s: %v", ident.ID, err)
			return c.Next()
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// RequireUser rejects with 401 when the bridge resolved no user.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			return utils.UnauthorizedResponse(c)
		}
		return c.Next()
	}
}

// UserFromContext returns the resolved user attached by the bridge.
func UserFromContext(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*models.User)
	return user, ok && user != nil
}

// extractToken pulls the credential from the Authorization header or the
// named session cookie. Fiber's cookie parser already picks the exact
// cookie among multiple ones.
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
		return token
	}
	return c.Cookies(SessionCookieName)
}
