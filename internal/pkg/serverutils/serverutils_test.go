package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"site-content-be/pkg/editor"
	"site-content-be/pkg/lexical"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notFound struct{}

func (notFound) Error() string   { return "document not found" }
func (notFound) StatusCode() int { return http.StatusNotFound }

func decode(t *testing.T, res *http.Response) BaseResponse[map[string]string] {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out BaseResponse[map[string]string]
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestErrorHandlerMiddleware(t *testing.T) {
	type slugRequest struct {
		Slug string `json:"slug" validate:"required,slug"`
	}

	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"fiber error", fiber.NewError(fiber.StatusForbidden, "nope"), 403, "nope"},
		{"status error", fmt.Errorf("load: %w", notFound{}), 404, "load: document not found"},
		{"invalid argument", &editor.InvalidArgumentError{Command: "insert-link", Argument: "url", Reason: "required"}, 400, ""},
		{"malformed", &lexical.MalformedDocumentError{Err: errors.New("bad json")}, 422, "malformed document: bad json"},
		{"unexpected", errors.New("db exploded"), 500, "Internal server error"},
		{"validation", ValidateRequest(slugRequest{Slug: "Not A Slug"}), 400, "Validation failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(ctx *fiber.Ctx) error { return tc.err })

			res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.code, res.StatusCode)

			body := decode(t, res)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, body.Message)
			}
			if tc.name == "validation" {
				assert.Equal(t, "must be a lowercase slug", body.Data["slug"])
			}
		})
	}
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "test-secret"

	app := fiber.New()
	app.Get("/", JwtMiddleware(secret), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", map[string]string{"user_id": UserID(ctx)}))
	})

	sign := func(key string, method jwt.SigningMethod) string {
		token := jwt.NewWithClaims(method, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		s, err := token.SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(secret, jwt.SigningMethodHS256))
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, res.StatusCode)
		assert.Equal(t, "u-1", decode(t, res).Data["user_id"])
	})

	t.Run("missing token", func(t *testing.T) {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, res.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign("other", jwt.SigningMethodHS256))
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, res.StatusCode)
	})
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("about-us"))
	assert.True(t, ValidSlug("faq2"))
	assert.False(t, ValidSlug("About"))
	assert.False(t, ValidSlug("a--b"))
	assert.False(t, ValidSlug("-lead"))
	assert.False(t, ValidSlug(""))
}
