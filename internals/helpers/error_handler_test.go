package helper_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
)

func newApp(production bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler(production, zerolog.Nop())})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func call(t *testing.T, app *fiber.App) (int, helper.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body helper.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandler_Kinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperror.NotFound("Student", 7), fiber.StatusNotFound, "NOT_FOUND"},
		{"bad request", apperror.BadRequest("bad %s", "input"), fiber.StatusBadRequest, "BAD_REQUEST"},
		{"conflict", apperror.Conflict("class is full"), fiber.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", apperror.Unauthorized("no token"), fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperror.Forbidden("nope"), fiber.StatusForbidden, "FORBIDDEN"},
		{"wrapped", errors.Wrap(apperror.NotFound("Class", 1), "load"), fiber.StatusNotFound, "NOT_FOUND"},
		{"gorm not found", gorm.ErrRecordNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"fiber error", fiber.NewError(fiber.StatusTooManyRequests, "slow down"), fiber.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, newApp(true, tc.err))
			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.ErrorCode)
		})
	}
}

func TestErrorHandler_Validation(t *testing.T) {
	status, body := call(t, newApp(true, apperror.ValidationField("email", "Email is required")))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
	assert.Equal(t, []string{"Email is required"}, body.Errors["email"])
}

func TestErrorHandler_UnexpectedHidesDetailInProduction(t *testing.T) {
	boom := errors.New("connection reset")

	status, body := call(t, newApp(true, boom))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "An unexpected error occurred", body.Message)
	assert.Empty(t, body.Detail)

	status, body = call(t, newApp(false, boom))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "connection reset", body.Message)
	assert.Contains(t, body.Detail, "connection reset")
}
