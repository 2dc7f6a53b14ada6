package admin

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/studio-sub001/internal/web/handler/handlertest"
)

func newApp(t *testing.T, env *handlertest.Env) *fiber.App {
	t.Helper()

	app := handlertest.App(nil)
	(&Service{}).Init(app, env.Cfg, env.Deps)

	return app
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	assert.False(t, body.OK)

	return body.Error
}

func TestContentReads(t *testing.T) {
	app := newApp(t, handlertest.New(t))

	for _, path := range []string{HeaderPath, HomePath} {
		status, raw := handlertest.Do(t, app, http.MethodGet, path, "", "")
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Equal(t, "not_found", errorCode(t, raw))
	}
}

func TestContentWithoutCredentials(t *testing.T) {
	app := newApp(t, handlertest.NewWithoutAdmin(t))

	status, raw := handlertest.Do(t, app, http.MethodGet, HomePath, "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "credentials_unavailable", errorCode(t, raw))

	status, raw = handlertest.JSON(t, app, HeaderPath+"/save", `{"announcement":"x"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "credentials_unavailable", errorCode(t, raw))
}

func TestSaveHome(t *testing.T) {
	app := newApp(t, handlertest.New(t))

	status, raw := handlertest.JSON(t, app, HomePath+"/save", `{"hero":{"title":"Hello","body":"*hi*"}}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, raw = handlertest.Do(t, app, http.MethodGet, HomePath, "", "")
	require.Equal(t, fiber.StatusOK, status)

	var body struct {
		Data struct {
			Hero struct {
				Title string `json:"title"`
				Body  string `json:"body"`
			} `json:"hero"`
			UpdatedBy string `json:"updatedBy"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Hello", body.Data.Hero.Title)
	assert.Equal(t, "*hi*", body.Data.Hero.Body)
	assert.Equal(t, handlertest.User, body.Data.UpdatedBy)

	status, raw = handlertest.JSON(t, app, HomePath+"/save", `{"hero":{"slides":[{}]}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", errorCode(t, raw))
}

func TestSyncHeader(t *testing.T) {
	env := handlertest.New(t)
	app := newApp(t, env)

	status, raw := handlertest.Do(t, app, http.MethodPost, SyncHeaderPath, "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", errorCode(t, raw))

	_, err := env.Deps.General.Save(t.Context(), map[string]any{"siteName": "Studio"}, "alice")
	require.NoError(t, err)

	status, raw = handlertest.Do(t, app, http.MethodGet, SyncHeaderPath, "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "bad_request", errorCode(t, raw))

	_, err = env.Deps.General.Save(t.Context(), map[string]any{"header": map[string]any{"height": 70}}, "alice")
	require.NoError(t, err)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		status, raw = handlertest.Do(t, app, method, SyncHeaderPath, "", "")
		require.Equal(t, fiber.StatusOK, status, string(raw))
	}

	assert.JSONEq(t, `{"ok":true,"data":{"path":"cms/pages/header/header","version":2}}`, string(raw))
}
