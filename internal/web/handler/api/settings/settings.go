// Package settings serves the general settings API and the derived design variables.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/design"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
	"github.com/digiflydk/studio-sub001/internal/web/response"
)

const (
	// Path is the general settings endpoint.
	Path = handler.APIPath + "/settings"
	// VariablesPath serves the derived CSS variables as JSON.
	VariablesPath = Path + "/variables"
	// StylesheetPath serves the derived CSS variables as a stylesheet.
	StylesheetPath = Path + "/design.css"
	// SavePath deep merges general settings.
	SavePath = Path + "/general/save"
	// SectionPaddingPath sets section paddings.
	SectionPaddingPath = Path + "/section-padding/save"
)

// Service is the settings API handler service.
type Service struct {
	cfg     *config.Config
	general *general.Service
}

// Handler is the settings API handler.
var Handler = Service{}

// Init registers the settings routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) || deps.General == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.general = deps.General

	app.Get(Path, s.Get)
	app.Get(VariablesPath, s.Variables)
	app.Get(StylesheetPath, s.Stylesheet)
	app.Post(SavePath, deps.RequireAuth, s.Save)
	app.Post(SectionPaddingPath, deps.RequireAuth, s.SaveSectionPadding)
}

// Get returns the general settings document.
func (s *Service) Get(c *fiber.Ctx) error {
	snap, err := s.general.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	return response.OK(c, snap.Data)
}

// Variables returns the CSS variables derived from the settings. Without a
// settings document the defaults are returned.
func (s *Service) Variables(c *fiber.Ctx) error {
	raw, err := s.raw(c)
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	return response.OK(c, design.Variables(raw))
}

// Stylesheet returns the variables as a :root rule.
func (s *Service) Stylesheet(c *fiber.Ctx) error {
	raw, err := s.raw(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to read general settings for stylesheet")
		raw = nil
	}

	c.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	return c.SendString(design.Stylesheet(design.Variables(raw)))
}

// Save deep merges the JSON body into the settings.
func (s *Service) Save(c *fiber.Ctx) error {
	patch, err := handler.BodyObject(c.Body())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	snap, err := s.general.Save(c.UserContext(), patch, auth.Actor(c))
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	log.Info().Str("actor", auth.Actor(c)).Msg("general settings saved")

	return response.OK(c, snap.Data)
}

// SaveSectionPadding sets the paddings of the sections named in the body.
func (s *Service) SaveSectionPadding(c *fiber.Ctx) error {
	snap, err := s.general.SaveSectionPadding(c.UserContext(), c.Body(), auth.Actor(c))
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	return response.OK(c, fiber.Map{"sectionPadding": snap.Data["sectionPadding"]})
}

func (s *Service) raw(c *fiber.Ctx) ([]byte, error) {
	snap, err := s.general.Get(c.UserContext())
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return []byte("{}"), nil
		}

		return nil, err
	}

	return snap.Raw, nil
}
