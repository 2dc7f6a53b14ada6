// Package handlertest builds handler dependencies over an in-memory database.
package handlertest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/content"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/db/dbtest"
	"github.com/digiflydk/studio-sub001/internal/feed"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
)

// User is the actor set by the test auth middleware.
const User = "tester"

// Env is a wired handler environment.
type Env struct {
	DB      *gorm.DB
	Handles *document.Handles
	Hub     *feed.Hub
	Cfg     *config.Config
	Deps    *handler.Deps
}

// New creates an Env with admin credentials.
func New(t *testing.T) *Env {
	t.Helper()

	hub := feed.NewHub(feed.DefaultBuffer)
	t.Cleanup(hub.Close)

	db, h := dbtest.Handles(t, hub)

	return build(t, db, h, hub)
}

// NewWithoutAdmin creates an Env whose admin handle is unavailable.
func NewWithoutAdmin(t *testing.T) *Env {
	t.Helper()

	hub := feed.NewHub(feed.DefaultBuffer)
	t.Cleanup(hub.Close)

	db := dbtest.Open(t)

	h, err := document.Connect(db, dbtest.ClientCredentials(), document.Credentials{ProjectID: dbtest.ProjectID}, hub)
	require.NoError(t, err)

	return build(t, db, h, hub)
}

func build(t *testing.T, db *gorm.DB, h *document.Handles, hub *feed.Hub) *Env {
	t.Helper()

	log, err := audit.New(db)
	require.NoError(t, err)

	return &Env{
		DB:      db,
		Handles: h,
		Hub:     hub,
		Cfg:     &config.Config{Title: "Studio"},
		Deps: &handler.Deps{
			General:     general.New(h, log),
			Header:      header.New(h, log),
			Content:     content.New(h, log),
			Audit:       log,
			Feed:        hub,
			RequireAuth: Auth,
		},
	}
}

// Auth authenticates every request as User.
func Auth(c *fiber.Ctx) error {
	c.Locals(auth.UsernameKey, User)
	return c.Next()
}

// Deny rejects every request like a failed login.
func Deny(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusUnauthorized)
}

// App creates a fiber app rendering through views.
func App(views fiber.Views) *fiber.App {
	return fiber.New(fiber.Config{Views: views})
}

// Do runs one request and returns status and body.
func Do(t *testing.T, app *fiber.App, method, target, body, contentType string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

// JSON posts a JSON body.
func JSON(t *testing.T, app *fiber.App, target, body string) (int, []byte) {
	t.Helper()
	return Do(t, app, http.MethodPost, target, body, fiber.MIMEApplicationJSON)
}

// Views is a fiber.Views recording the last render.
type Views struct {
	mu       sync.Mutex
	Template string
	Layouts  []string
	Binding  fiber.Map
}

// Load implements fiber.Views.
func (v *Views) Load() error {
	return nil
}

// Render records the call and writes the template name.
func (v *Views) Render(w io.Writer, name string, binding any, layouts ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Template = name
	v.Layouts = layouts
	v.Binding, _ = binding.(fiber.Map)

	_, err := fmt.Fprint(w, name)

	return err
}

// Last returns the recorded binding.
func (v *Views) Last() fiber.Map {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.Binding
}
