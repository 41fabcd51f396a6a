package api

import (
	"strings"
	"time"

	"github.com/3marnadates-alt/3marna.art/modules/admin"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the visitor session id.
	SessionHeader = "X-Session-ID"
	// SessionCookie is the cookie fallback for SessionHeader.
	SessionCookie = "session_id"
	// SessionContextKey is the Fiber locals key holding the session id.
	SessionContextKey = "session_id"

	sessionCookieTTL = 30 * 24 * time.Hour
)

// SessionMiddleware resolves the visitor session from the X-Session-ID
// header or the session_id cookie. A missing or malformed id is replaced
// by a new one, echoed back in both places.
func SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = c.Cookies(SessionCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Locals(SessionContextKey, id)
		c.Set(SessionHeader, id)
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(sessionCookieTTL),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionContextKey).(string)
	return id
}

// AdminAuthMiddleware requires a valid admin session token.
func AdminAuthMiddleware(port admin.AdminPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "Unauthorized",
				Message: "Token is required",
			})
		}

		if err := port.ValidateToken(c.UserContext(), token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid or expired token",
			})
		}

		return c.Next()
	}
}
