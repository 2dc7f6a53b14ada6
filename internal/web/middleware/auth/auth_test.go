package auth

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestMiddleware(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(New(Users{"alice": hash, "broken": "not-a-hash"}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Actor(c))
	})

	testCases := []struct {
		name   string
		auth   string
		status int
		body   string
	}{
		{name: "no header", status: fiber.StatusUnauthorized},
		{name: "wrong password", auth: basic("alice", "nope"), status: fiber.StatusUnauthorized},
		{name: "unknown user", auth: basic("bob", "s3cret"), status: fiber.StatusUnauthorized},
		{name: "unusable hash", auth: basic("broken", "x"), status: fiber.StatusUnauthorized},
		{name: "ok", auth: basic("alice", "s3cret"), status: fiber.StatusOK, body: "alice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.auth != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.auth)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() {
				_ = resp.Body.Close()
			}()

			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.status == fiber.StatusUnauthorized {
				assert.Contains(t, resp.Header.Get(fiber.HeaderWWWAuthenticate), Realm)
			}
		})
	}
}

func TestActorWithoutUser(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Actor(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, AnonymousActor, string(body))
}
