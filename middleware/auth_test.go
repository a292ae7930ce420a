package middleware_test

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"couple-diary-system/middleware"
	"couple-diary-system/models"
	"couple-diary-system/services"
)

func newAuthApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	auth := services.NewAuthService(db, "test-secret")
	app := fiber.New()
	app.Get("/whoami", middleware.UserContextMiddleware(auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	return app, auth
}

func TestUserContextRequiresBearerScheme(t *testing.T) {
	app, auth := newAuthApp(t)

	_, err := auth.Register("alice", "alice@test.com", "password123")
	require.NoError(t, err)
	token, _, err := auth.Login("alice", "password123")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", fiber.StatusUnauthorized},
		{"bare token without scheme", token, fiber.StatusUnauthorized},
		{"empty bearer", "Bearer ", fiber.StatusUnauthorized},
		{"bearer token", "Bearer " + token, fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/whoami", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, resp.StatusCode, tc.name)
	}
}

func TestUserContextRejectsGarbageToken(t *testing.T) {
	app, _ := newAuthApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
