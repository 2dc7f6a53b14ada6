package response

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

func call(t *testing.T, dev bool, err error) (int, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return FromError(c, err, dev)
	})

	resp, rerr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, rerr)

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, rerr := io.ReadAll(resp.Body)
	require.NoError(t, rerr)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	return resp.StatusCode, body
}

func TestFromError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: errors.Wrap(document.ErrNotFound, "settings/general"), status: 404, code: CodeNotFound},
		{name: "credentials", err: document.ErrCredentials, status: 503, code: CodeCredentials},
		{name: "read only", err: document.ErrReadOnly, status: 503, code: CodeCredentials},
		{name: "general missing", err: header.ErrGeneralMissing, status: 404, code: CodeNotFound},
		{name: "no header", err: header.ErrNoHeaderSection, status: 400, code: CodeBadRequest},
		{name: "invalid path", err: document.ErrInvalidPath, status: 400, code: CodeBadRequest},
		{name: "validation", err: &validation.Error{Fields: []validation.FieldError{{Field: "a", Tag: "required"}}}, status: 400, code: CodeValidation},
		{name: "internal", err: errors.New("disk on fire"), status: 500, code: CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, false, tc.err)

			assert.Equal(t, tc.status, status)
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, tc.code, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestFromErrorHidesInternalText(t *testing.T) {
	_, body := call(t, false, errors.New("disk on fire"))
	assert.Equal(t, "internal error", body["message"])

	_, body = call(t, true, errors.New("disk on fire"))
	assert.Equal(t, "disk on fire", body["message"])
}

func TestFromErrorDetails(t *testing.T) {
	_, body := call(t, false, &validation.Error{Fields: []validation.FieldError{{Field: "header.height", Tag: "lte", Param: "400"}}})

	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "header.height", details[0].(map[string]any)["field"])
}

func TestOK(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return OK(c, fiber.Map{"a": 1})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"data":{"a":1}}`, string(raw))
}
