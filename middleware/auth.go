// Package middleware holds the request guards applied to protected
// route groups.
package middleware

import (
	"crypto/subtle"
	"strings"

	"ytscribe/auth"
	"ytscribe/errors"

	"github.com/gofiber/fiber/v2"
)

// UsernameKey is the locals key under which RequireSession stores the
// authenticated admin username.
const UsernameKey = "username"

// sessionToken pulls the opaque token from the Authorization header
// (Bearer scheme) or the X-Session-Token header.
func sessionToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Get("X-Session-Token")
}

// RequireSession rejects requests that do not carry a valid admin
// session token.
func RequireSession(sessions *auth.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return errors.Unauthorized("RequireSession", nil, "Authentication required")
		}

		username, ok := sessions.Lookup(token)
		if !ok {
			return errors.Unauthorized("RequireSession", nil, "Invalid or expired session")
		}

		c.Locals(UsernameKey, username)
		return c.Next()
	}
}

// RequireAPIKey guards service-to-service endpoints with a shared key
// in the X-API-Key header. An empty configured key disables the check.
func RequireAPIKey(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}

		provided := c.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return errors.Unauthorized("RequireAPIKey", nil, "Invalid API key")
		}

		return c.Next()
	}
}
