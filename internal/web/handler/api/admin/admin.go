// Package admin serves the admin content API and the header sync trigger.
package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/content"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
	"github.com/digiflydk/studio-sub001/internal/web/response"
)

const (
	// Path prefixes the admin endpoints.
	Path = handler.APIPath + "/admin"
	// HeaderPath serves the admin header content.
	HeaderPath = Path + "/header"
	// HomePath serves the admin home content.
	HomePath = Path + "/home"
	// SyncHeaderPath copies the general header into the CMS header.
	SyncHeaderPath = Path + "/sync-header"
)

// Service is the admin API handler service.
type Service struct {
	cfg     *config.Config
	content *content.Service
	header  *header.Service
}

// Handler is the admin API handler.
var Handler = Service{}

// Init registers the admin routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) || deps.Content == nil || deps.Header == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.content = deps.Content
	s.header = deps.Header

	app.Get(HeaderPath, s.read(s.content.Header))
	app.Get(HomePath, s.read(s.content.Home))
	app.Post(HeaderPath+"/save", deps.RequireAuth, s.write(s.content.SaveHeader))
	app.Post(HomePath+"/save", deps.RequireAuth, s.write(s.content.SaveHome))
	app.Get(SyncHeaderPath, deps.RequireAuth, s.SyncHeader)
	app.Post(SyncHeaderPath, deps.RequireAuth, s.SyncHeader)
}

// SyncHeader derives the CMS header from the general settings.
func (s *Service) SyncHeader(c *fiber.Ctx) error {
	res, err := s.header.SyncFromGeneral(c.UserContext(), auth.Actor(c))
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	log.Info().Str("actor", auth.Actor(c)).Int("version", res.Version).Msg("cms header synced")

	return response.OK(c, res)
}

func (s *Service) read(get func(ctx context.Context) (*document.Snapshot, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := get(c.UserContext())
		if err != nil {
			return response.FromError(c, err, s.cfg.DevMode)
		}

		return response.OK(c, snap.Data)
	}
}

func (s *Service) write(
	save func(ctx context.Context, patch map[string]any, actor string) (*document.Snapshot, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch, err := handler.BodyObject(c.Body())
		if err != nil {
			return response.BadRequest(c, err.Error())
		}

		snap, err := save(c.UserContext(), patch, auth.Actor(c))
		if err != nil {
			return response.FromError(c, err, s.cfg.DevMode)
		}

		log.Info().Str("actor", auth.Actor(c)).Str("path", snap.Path).Msg("admin content saved")

		return response.OK(c, snap.Data)
	}
}
