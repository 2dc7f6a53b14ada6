// Package audit serves the recent audit records.
package audit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	controller "github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/response"
)

// Path lists the newest audit records.
const Path = handler.APIPath + "/audit-recent"

// Service is the audit API handler service.
type Service struct {
	cfg *config.Config
	log *controller.Log
}

// Handler is the audit API handler.
var Handler = Service{}

// Init registers the audit route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) || deps.Audit == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.log = deps.Audit

	app.Get(Path, deps.RequireAuth, s.Recent)
}

// Recent returns up to ?limit= records, newest first.
func (s *Service) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", controller.DefaultLimit)

	records, err := s.log.Recent(c.UserContext(), limit)
	if err != nil {
		return response.FromError(c, err, s.cfg.DevMode)
	}

	return response.OK(c, records)
}
