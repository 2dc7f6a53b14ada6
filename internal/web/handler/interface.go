package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/content"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/feed"
)

// Deps are the services shared by the handlers.
type Deps struct {
	General *general.Service
	Header  *header.Service
	Content *content.Service
	Audit   *audit.Log
	Feed    feed.Subscriber

	// RequireAuth guards editor pages and write endpoints.
	RequireAuth fiber.Handler
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps)
}

// Valid reports whether the arguments of Init are usable.
func Valid(app *fiber.App, cfg *config.Config, deps *Deps) bool {
	return app != nil && cfg != nil && deps != nil && deps.RequireAuth != nil
}
