package middlewares

import (
	"strings"

	"rendezvous.club/pkg/session"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
)

const sessionLocalKey = "session"

// NewAuthMiddleware verifies the bearer token and attaches the session
// context to the request. Requests without a valid token are rejected.
func NewAuthMiddleware(authService services.IAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		sess, err := authService.VerifyToken(c.UserContext(), token)
		if err != nil {
			status := fiber.StatusUnauthorized
			if err == services.ErrAuthAccountSuspended {
				status = fiber.StatusForbidden
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals(sessionLocalKey, sess)
		return c.Next()
	}
}

// RequireAdmin gates a route group to staff accounts. Must run after the
// auth middleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromCtx(c)
		if !sess.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "staff access required"})
		}
		return c.Next()
	}
}

// SessionFromCtx returns the session the auth middleware attached, or the
// zero value when the request is unauthenticated.
func SessionFromCtx(c *fiber.Ctx) session.Context {
	if sess, ok := c.Locals(sessionLocalKey).(session.Context); ok {
		return sess
	}
	return session.Context{}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		// Websocket clients cannot set headers from the browser; allow the
		// token as a query parameter there.
		return c.Query("token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
