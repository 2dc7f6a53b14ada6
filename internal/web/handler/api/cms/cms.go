// Package cms serves the CMS header document API.
package cms

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
	"github.com/digiflydk/studio-sub001/internal/web/response"
)

const (
	// HeaderPath serves the CMS header document.
	HeaderPath = handler.APIPath + "/cms/pages/header"
	// HeaderSavePath validates and writes the CMS header document.
	HeaderSavePath = HeaderPath + "/save"
)

// Service is the CMS API handler service.
type Service struct {
	cfg    *config.Config
	header *header.Service
}

// Handler is the CMS API handler.
var Handler = Service{}

// Init registers the CMS routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) || deps.Header == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.header = deps.Header

	app.Get(HeaderPath, s.Get)
	app.Post(HeaderSavePath, deps.RequireAuth, s.Save)
}

// Get returns the header document.
func (s *Service) Get(c *fiber.Ctx) error {
	snap, err := s.header.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	return response.OK(c, snap.Data)
}

// Save writes the header document and returns its new version.
func (s *Service) Save(c *fiber.Ctx) error {
	payload, err := handler.BodyObject(c.Body())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	res, err := s.header.Save(c.UserContext(), payload, auth.Actor(c))
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	log.Info().Str("actor", auth.Actor(c)).Int("version", res.Version).Msg("cms header saved")

	return response.OK(c, res)
}
