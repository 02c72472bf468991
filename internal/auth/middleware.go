package auth

import (
	"fmt"
	"strings"

	"serveo-backend/internal/config"
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserRoleKey = "user_role"
	CtxCurrencyKey = "display_currency"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header is missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization format must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}

		// The claim carries the currency from login time; the user row wins
		// so a preference change applies without waiting for a new token.
		currency := claims.Currency
		var user models.User
		if err := database.DB.Select("currency").First(&user, claims.UserID).Error; err == nil && user.Currency != "" {
			currency = user.Currency
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCurrencyKey, currency)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information is missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}

// Actor identifies the authenticated user for permission checks and audit records.
type Actor struct {
	UserID   uint
	Name     string
	Role     models.UserRole
	Currency string
}

func ActorFromCtx(c *fiber.Ctx) Actor {
	a := Actor{}
	if v, ok := c.Locals(CtxUserIDKey).(uint); ok {
		a.UserID = v
	}
	if v, ok := c.Locals(CtxUserNameKey).(string); ok {
		a.Name = v
	}
	if v, ok := c.Locals(CtxUserRoleKey).(models.UserRole); ok {
		a.Role = v
	}
	if v, ok := c.Locals(CtxCurrencyKey).(string); ok {
		a.Currency = v
	}
	return a
}
