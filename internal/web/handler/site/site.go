// Package site renders the public page.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/content"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/design"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/handler/live"
	"github.com/digiflydk/studio-sub001/internal/web/markdown"
)

const (
	// Path of the public page.
	Path = handler.RootPath

	// TemplateName is the public page template.
	TemplateName = "site/home"
)

type (
	// Page is the template binding of the public page.
	Page struct {
		Title      string
		Settings   *general.Settings
		Header     Header
		Hero       *content.Hero
		HeroHTML   template.HTML
		Stylesheet template.CSS
		LivePath   string
	}

	// Header is what the page header shows.
	Header struct {
		Logo         *general.Logo
		NavLinks     []general.NavLink
		Announcement string
		CTA          *content.CTA
	}
)

// Service is the public page handler service.
type Service struct {
	cfg     *config.Config
	general *general.Service
	header  *header.Service
	content *content.Service
}

// Handler is the public page handler.
var Handler = Service{}

// Init registers the public page route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) || deps.General == nil || deps.Header == nil || deps.Content == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.general = deps.General
	s.header = deps.Header
	s.content = deps.Content

	app.Get(Path, s.Get)
}

// Get renders the public page. Missing documents fall back to defaults so
// the page renders on an empty store.
func (s *Service) Get(c *fiber.Ctx) error {
	page, err := s.Build(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to build public page")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	return c.Render(TemplateName, fiber.Map{"Page": page}, handler.BaseLayout)
}

// Build assembles the page from the stored documents.
func (s *Service) Build(ctx context.Context) (*Page, error) {
	page := &Page{Title: s.cfg.Title, LivePath: live.Path}

	raw := []byte("{}")
	settings := general.Defaults()

	snap, err := s.general.Get(ctx)

	switch {
	case err == nil:
		raw = snap.Raw
		settings = general.Settings{}

		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, err
		}
	case !errors.Is(err, document.ErrNotFound):
		return nil, err
	}

	page.Settings = &settings
	page.Stylesheet = template.CSS(design.Stylesheet(design.Variables(raw))) //nolint:gosec

	if settings.SiteName != "" {
		page.Title = settings.SiteName
	}

	page.Header.Logo = settings.Logo
	if settings.Header != nil {
		page.Header.NavLinks = settings.Header.NavLinks
	}

	if doc, err := s.header.Load(ctx); err == nil {
		if doc.Logo != nil {
			page.Header.Logo = doc.Logo
		}

		if len(doc.NavLinks) > 0 {
			page.Header.NavLinks = doc.NavLinks
		}
	} else if !errors.Is(err, document.ErrNotFound) {
		return nil, err
	}

	if h, err := s.content.LoadHeader(ctx); err == nil {
		page.Header.Announcement = h.Announcement
		page.Header.CTA = h.CTA
	} else {
		optional(err, content.HeaderPath)
	}

	if home, err := s.content.LoadHome(ctx); err == nil && home.Hero != nil {
		page.Hero = home.Hero
		page.HeroHTML = markdown.Render(home.Hero.Body)
	} else if err != nil {
		optional(err, content.HomePath)
	}

	return page, nil
}

// optional logs failures of content the page can render without.
func optional(err error, path string) {
	if errors.Is(err, document.ErrNotFound) {
		return
	}

	log.Warn().Err(err).Str("path", path).Msg("rendering page without admin content")
}
