package cms

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/web/handler/handlertest"
)

func TestHeader(t *testing.T) {
	env := handlertest.New(t)
	app := handlertest.App(nil)
	(&Service{}).Init(app, env.Cfg, env.Deps)

	status, raw := handlertest.Do(t, app, http.MethodGet, HeaderPath, "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"ok":false,"error":"not_found","message":"document not found"}`, string(raw))

	for want := 1; want <= 3; want++ {
		status, raw = handlertest.JSON(t, app, HeaderSavePath, `{"height":72,"version":99}`)
		require.Equal(t, fiber.StatusOK, status, string(raw))

		var body struct {
			Data header.Result `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, header.Result{Path: header.Path, Version: want}, body.Data)
	}

	status, raw = handlertest.Do(t, app, http.MethodGet, HeaderPath, "", "")
	require.Equal(t, fiber.StatusOK, status)

	var body struct {
		Data header.Doc `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 3, body.Data.Version)
	assert.Equal(t, 72, body.Data.Height)
}

func TestHeaderSaveInvalid(t *testing.T) {
	env := handlertest.New(t)
	app := handlertest.App(nil)
	(&Service{}).Init(app, env.Cfg, env.Deps)

	status, raw := handlertest.JSON(t, app, HeaderSavePath, `{"navLinks":[{"label":"x"}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(raw), `"navLinks[0].href"`)
}
