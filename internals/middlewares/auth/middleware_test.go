package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/middlewares/auth"
)

func newApp(t *testing.T) (*fiber.App, *authService.TokenService) {
	t.Helper()
	tokens, err := authService.NewTokenService(configs.JWTConfig{
		Key: "middleware-test-key-middleware-test-key-middleware-test-key", Issuer: "schoolku", Audience: "clients", ExpiryMinutes: 5,
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler(false, zerolog.Nop())})
	app.Get("/me", auth.AuthMiddleware(tokens, zerolog.Nop()), func(c *fiber.Ctx) error {
		sid, _ := helper.CurrentStudentID(c)
		return c.JSON(fiber.Map{"user": helper.ActorID(c), "student": sid})
	})
	app.Get("/admin", auth.AuthMiddleware(tokens, zerolog.Nop()), auth.OnlyRoles("admin only", constants.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, tokens
}

func bearer(t *testing.T, tokens *authService.TokenService, roles ...string) string {
	t.Helper()
	tok, _, err := tokens.CreateToken(&authModel.UserModel{ID: "u-1", Email: "a@b.c"}, roles, authService.WithStudentID(3))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	app, _ := newApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	app, tokens := newApp(t)
	old := tokens.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	tok, _, err := old.CreateToken(&authModel.UserModel{ID: "u-1"}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	app, tokens := newApp(t)
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, constants.RoleStudent))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOnlyRoles(t *testing.T) {
	app, tokens := newApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, constants.RoleStudent))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, constants.RoleAdmin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
