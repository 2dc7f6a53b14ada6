// Package live streams design variable frames over a websocket.
package live

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
)

// Path is the websocket endpoint of the general settings.
const Path = handler.RootPath + "ws/settings"

// Service is the live feed handler service.
type Service struct {
	reader Reader
	deps   *handler.Deps
}

// Handler is the live feed handler.
var Handler = Service{}

// Init registers the websocket route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) || deps.General == nil || deps.Feed == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.reader = deps.General
	s.deps = deps

	app.Get(Path, Upgrade, websocket.New(s.Serve))
}

// Upgrade rejects plain http requests on the websocket route.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return fiber.ErrUpgradeRequired
}

// Serve runs one session per connection.
func (s *Service) Serve(conn *websocket.Conn) {
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("live settings client connected")

	if err := NewSession(conn, s.reader, s.deps.Feed).Run(context.Background()); err != nil {
		log.Debug().Err(err).Msg("live settings session ended")
	}
}
