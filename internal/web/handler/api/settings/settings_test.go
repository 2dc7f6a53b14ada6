package settings

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/studio-sub001/internal/web/handler/handlertest"
)

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func decode(t *testing.T, raw []byte) envelope {
	t.Helper()

	var e envelope
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))

	return e
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()

	env := handlertest.New(t)
	app := handlertest.App(nil)

	s := &Service{}
	s.Init(app, env.Cfg, env.Deps)

	return app
}

func TestGetNotFound(t *testing.T) {
	app := newApp(t)

	status, raw := handlertest.Do(t, app, http.MethodGet, Path, "", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	e := decode(t, raw)
	assert.False(t, e.OK)
	assert.Equal(t, "not_found", e.Error)
}

func TestSaveThenGet(t *testing.T) {
	app := newApp(t)

	status, raw := handlertest.JSON(t, app, SavePath, `{"siteName":"Studio","header":{"height":80,"sticky":true}}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, raw = handlertest.JSON(t, app, SavePath, `{"header":{"height":96}}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, raw = handlertest.Do(t, app, http.MethodGet, Path, "", "")
	require.Equal(t, fiber.StatusOK, status)

	e := decode(t, raw)
	assert.True(t, e.OK)

	var data map[string]any
	require.NoError(t, json.Unmarshal(e.Data, &data))
	assert.Equal(t, "Studio", data["siteName"])
	assert.Equal(t, map[string]any{"height": float64(96), "sticky": true}, data["header"])
	assert.Equal(t, handlertest.User, data["updatedBy"])
}

func TestSaveRejects(t *testing.T) {
	testCases := []struct {
		name string
		body string
		code string
	}{
		{name: "not json", body: `nope`, code: "bad_request"},
		{name: "array", body: `[1]`, code: "bad_request"},
		{name: "invalid", body: `{"header":{"height":999}}`, code: "validation_failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(t)

			status, raw := handlertest.JSON(t, app, SavePath, tc.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tc.code, decode(t, raw).Error)
		})
	}
}

func TestSectionPadding(t *testing.T) {
	app := newApp(t)

	status, _ := handlertest.JSON(t, app, SavePath, `{"siteName":"Studio","buttonRadius":1}`)
	require.Equal(t, fiber.StatusOK, status)

	status, raw := handlertest.JSON(t, app, SectionPaddingPath, `{"hero":{"top":20,"bottom":40}}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	_, raw = handlertest.Do(t, app, http.MethodGet, Path, "", "")

	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &data))
	assert.Equal(t, map[string]any{"hero": map[string]any{"top": float64(20), "bottom": float64(40)}}, data["sectionPadding"])
	assert.Equal(t, "Studio", data["siteName"])
	assert.InDelta(t, 1, data["buttonRadius"], 0)

	status, raw = handlertest.JSON(t, app, SectionPaddingPath, `{"hero":{"top":401,"bottom":0}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", decode(t, raw).Error)
}

func TestVariablesAndStylesheet(t *testing.T) {
	app := newApp(t)

	status, raw := handlertest.Do(t, app, http.MethodGet, VariablesPath, "", "")
	require.Equal(t, fiber.StatusOK, status)

	var vars map[string]string
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &vars))
	assert.Equal(t, "80px", vars["--header-height"])

	status, _ = handlertest.JSON(t, app, SavePath, `{"header":{"height":64}}`)
	require.Equal(t, fiber.StatusOK, status)

	status, raw = handlertest.Do(t, app, http.MethodGet, StylesheetPath, "", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), "--header-height: 64px;")
}

func TestWritesNeedAuth(t *testing.T) {
	env := handlertest.New(t)
	env.Deps.RequireAuth = handlertest.Deny

	app := handlertest.App(nil)
	(&Service{}).Init(app, env.Cfg, env.Deps)

	status, _ := handlertest.JSON(t, app, SavePath, `{"siteName":"x"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestSaveWithoutCredentials(t *testing.T) {
	env := handlertest.NewWithoutAdmin(t)

	app := handlertest.App(nil)
	(&Service{}).Init(app, env.Cfg, env.Deps)

	status, raw := handlertest.JSON(t, app, SavePath, `{"siteName":"x"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "credentials_unavailable", decode(t, raw).Error)
}
