package middleware

import (
	"strings"

	"loanbridge/internal/config"
	"loanbridge/internal/core/session"
	"loanbridge/internal/pkg/jwt"
	"loanbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// IdentityKey is the Locals key holding the caller's *session.Identity
const IdentityKey = "identity"

// AuthMiddleware creates authentication middleware. On success the
// caller's identity is stored in Locals for the handlers to pass down
// to the repositories, which re-check it before any data access.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set caller identity in context
		c.Locals(IdentityKey, &session.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
		})
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// Identity extracts the caller identity set by AuthMiddleware. Returns
// nil when the request was not authenticated.
func Identity(c *fiber.Ctx) *session.Identity {
	ident, _ := c.Locals(IdentityKey).(*session.Identity)
	return ident
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// ManagerOnly middleware allows only MANAGER role
func ManagerOnly() fiber.Handler {
	return RoleMiddleware("MANAGER")
}
