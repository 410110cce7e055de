package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

type listingInput struct {
	Title       string `validate:"required"`
	Description string `validate:"richtext"`
	Status      string `validate:"omitempty,oneof=draft published"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   listingInput
		wantErr string
	}{
		{name: "valid", input: listingInput{Title: "Villa", Description: `[{"type":"paragraph","children":[{"text":"x"}]}]`}},
		{name: "blank description", input: listingInput{Title: "Villa", Description: "  "}},
		{name: "missing title", input: listingInput{}, wantErr: "Title is required"},
		{name: "malformed description", input: listingInput{Title: "Villa", Description: `[{"text":"x"}]`}, wantErr: "Description is not a valid description document"},
		{name: "bad status", input: listingInput{Title: "Villa", Status: "sold"}, wantErr: "Status must be one of [draft published]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var fe *fiber.Error
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
			assert.Equal(t, tt.wantErr, fe.Message)
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db password leaked") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("fine", 1)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	env := decode(t, resp.Body)
	assert.False(t, env.Success)
	assert.Equal(t, "short and stout", env.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode(t, resp.Body).Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	env = decode(t, resp.Body)
	assert.True(t, env.Success)
	assert.JSONEq(t, "1", string(env.Data))
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "listing-secret"
	app := fiber.New()
	app.Use(JwtMiddleware(secret))
	app.Get("/me", func(c *fiber.Ctx) error { return c.SendString(c.Locals("user_id").(string)) })

	good, err := SignToken(secret, "u-1")
	require.NoError(t, err)
	forged, err := SignToken("other-secret", "u-1")
	require.NoError(t, err)
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1"}).SignedString([]byte(secret))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + good, status: fiber.StatusOK},
		{name: "missing", header: "", status: fiber.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: fiber.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + forged, status: fiber.StatusUnauthorized},
		{name: "no user claim", header: "Bearer " + noUser, status: fiber.StatusUnauthorized},
		{name: "alg none", header: "Bearer " + unsigned, status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "u-1", string(body))
			}
		})
	}
}
