package auth

import (
	"io"
	"net/http/httptest"
	"testing"

	"serveo-backend/internal/config"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddlewareUsesStoredCurrency(t *testing.T) {
	db := newTestDB(t)

	user := models.User{
		Name:         "mika",
		Email:        "mika@example.com",
		PasswordHash: "irrelevant",
		Role:         models.RoleManager,
		Currency:     "USD",
	}
	require.NoError(t, db.Create(&user).Error)

	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	token, err := GenerateToken(cfg.JWTSecret, &user)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/whoami", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(ActorFromCtx(c).Currency)
	})

	whoami := func() string {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Equal(t, "USD", whoami())

	// changing the preference takes effect on the same token
	require.NoError(t, db.Model(&user).Update("currency", "EUR").Error)
	assert.Equal(t, "EUR", whoami())
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	newTestDB(t)

	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
	app := fiber.New()
	app.Get("/whoami", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
