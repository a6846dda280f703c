package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwtMiddleware(t *testing.T) {
	const secret = "test-secret"
	t.Setenv("JWT_SECRET", secret)

	signed := func(t *testing.T, claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	newApp := func() *fiber.App {
		app := fiber.New()
		app.Get("/protected", JwtMiddleware, func(ctx *fiber.Ctx) error {
			return ctx.SendString(ctx.Locals("user_id").(string))
		})
		return app
	}

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		res, err := newApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("valid token with user id passes", func(t *testing.T) {
		userId := uuid.New().String()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, jwt.MapClaims{"user_id": userId}))
		res, err := newApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("token without user id rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, jwt.MapClaims{"sub": "someone"}))
		res, err := newApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("token with unparseable user id rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, jwt.MapClaims{"user_id": "not-a-uuid"}))
		res, err := newApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("token with zero user id rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, jwt.MapClaims{"user_id": uuid.Nil.String()}))
		res, err := newApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}
