package api

import (
	"log"
	"strings"

	"github.com/example/task-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store the verified caller identity
	// in the Fiber context.
	UserContextKey = "user"

	bearerChallenge = `Bearer`
)

// AuthMiddleware creates a middleware that verifies bearer credentials. The
// credential is extracted exactly once here; handlers only ever see the
// verified user id. Rejections carry a WWW-Authenticate challenge and a
// generic message; the sub-reason stays in the server log.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return unauthorized(c, "Token is required")
		}

		claims, err := authPort.VerifyToken(c.UserContext(), token)
		if err != nil {
			log.Printf("[api] authentication failed: %v", err)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserContextKey, claims)

		return c.Next()
	}
}

// unauthorized sends a 401 with the bearer challenge header.
func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, bearerChallenge)
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "UNAUTHORIZED",
		Message: message,
	})
}
