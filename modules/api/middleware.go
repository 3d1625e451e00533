package api

import (
	"strings"

	domain "github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// ActorContextKey is the key under which the resolved actor is stored in the
// Fiber context.
const ActorContextKey = "actor"

// AuthMiddleware validates the Bearer token on every protected route and
// resolves the current actor. Deactivated accounts are rejected here, before
// any handler runs.
func AuthMiddleware(users auth.UserPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			})
		}

		actor, err := users.ValidateToken(c.UserContext(), token)
		if err != nil {
			message := "Invalid or expired token"
			if strings.Contains(err.Error(), "deactivated") {
				message = "Account is deactivated"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: message,
			})
		}

		c.Locals(ActorContextKey, *actor)
		c.Locals("user_id", actor.ID) // consumed by the per-user rate limiter

		return c.Next()
	}
}

// currentActor returns the actor stored by AuthMiddleware.
func currentActor(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(ActorContextKey).(domain.Actor)
	return actor, ok
}
