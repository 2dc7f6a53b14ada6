// Package editor renders the CMS editing forms.
package editor

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/content"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/design"
	"github.com/digiflydk/studio-sub001/internal/validation"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
	"github.com/digiflydk/studio-sub001/internal/web/navigation"
	"github.com/digiflydk/studio-sub001/internal/web/response"
)

const (
	// Path prefixes the editor pages.
	Path = handler.RootPath + "cms"

	// GeneralPath edits the general settings.
	GeneralPath = Path + "/general"
	// HeaderPath edits the CMS header document.
	HeaderPath = Path + "/header"
	// HeaderSyncPath derives the CMS header from the general settings.
	HeaderSyncPath = HeaderPath + "/sync"
	// HeroPath edits the home page hero.
	HeroPath = Path + "/hero"
	// AuditPath lists the recent audit records.
	AuditPath = Path + "/audit"

	auditPageLimit = 50
)

// Sections of the editor menu.
var Sections = []navigation.Section{ //nolint:gochecknoglobals
	{Key: "general", Title: "General settings", URL: GeneralPath},
	{Key: "header", Title: "Header", URL: HeaderPath},
	{Key: "hero", Title: "Hero", URL: HeroPath},
	{Key: "audit", Title: "Audit log", URL: AuditPath},
}

// Service is the editor handler service.
type Service struct {
	cfg     *config.Config
	general *general.Service
	header  *header.Service
	content *content.Service
	audit   *audit.Log
}

// Handler is the editor handler.
var Handler = Service{}

// Init registers the editor routes behind authentication.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) {
	if !handler.Valid(app, cfg, deps) ||
		deps.General == nil || deps.Header == nil || deps.Content == nil || deps.Audit == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.general = deps.General
	s.header = deps.Header
	s.content = deps.Content
	s.audit = deps.Audit

	group := app.Group(Path, deps.RequireAuth)

	group.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(GeneralPath)
	})
	group.Get("/general", s.GetGeneral)
	group.Post("/general", s.PostGeneral)
	group.Get("/header", s.GetHeader)
	group.Post("/header", s.PostHeader)
	group.Post("/header/sync", s.PostHeaderSync)
	group.Get("/hero", s.GetHero)
	group.Post("/hero", s.PostHero)
	group.Get("/audit", s.GetAudit)
}

// GetGeneral renders the general settings form.
func (s *Service) GetGeneral(c *fiber.Ctx) error {
	return s.renderGeneral(c, fiber.StatusOK, fiber.Map{})
}

// PostGeneral saves the general settings form.
func (s *Service) PostGeneral(c *fiber.Ctx) error {
	f := newPatchForm(ctxValues{c})

	theme := make(map[string]any, len(design.ThemeColors))
	for _, name := range design.ThemeColors {
		theme[name] = f.hsl("theme_"+name, "themeColors."+name)
	}

	patch := map[string]any{
		"siteName": f.str("siteName"),
		"logo": map[string]any{
			"url":   f.str("logoUrl"),
			"alt":   f.str("logoAlt"),
			"width": f.int("logoWidth", "logo.width"),
		},
		"themeColors": theme,
		"header": map[string]any{
			"height":    f.int("headerHeight", "header.height"),
			"logoWidth": f.int("headerLogoWidth", "header.logoWidth"),
			"bg":        f.hsl("headerBg", "header.bg"),
			"textColor": f.str("headerTextColor"),
			"linkColor": f.str("headerLinkColor"),
			"sticky":    f.bool("headerSticky"),
			"overlay":   f.bool("headerOverlay"),
		},
		"footer": map[string]any{
			"bg":   f.hsl("footerBg", "footer.bg"),
			"text": f.hsl("footerText", "footer.text"),
		},
		"buttonRadius": f.float("buttonRadius", "buttonRadius"),
	}

	if err := f.err(); err != nil {
		return s.renderGeneral(c, fiber.StatusBadRequest, failure(err))
	}

	if _, err := s.general.Save(c.UserContext(), patch, auth.Actor(c)); err != nil {
		status, _, _ := response.Classify(err)
		return s.renderGeneral(c, status, failure(err))
	}

	return s.renderGeneral(c, fiber.StatusOK, fiber.Map{"Success": "General settings saved"})
}

// GetHeader renders the CMS header form.
func (s *Service) GetHeader(c *fiber.Ctx) error {
	return s.renderHeader(c, fiber.StatusOK, fiber.Map{})
}

// PostHeader saves the CMS header form.
func (s *Service) PostHeader(c *fiber.Ctx) error {
	f := newPatchForm(ctxValues{c})

	payload := map[string]any{
		"navLinks":  f.navLinks("navLinks"),
		"bg":        f.hsl("bg", "bg"),
		"textColor": f.str("textColor"),
		"linkColor": f.str("linkColor"),
		"height":    f.int("height", "height"),
		"logoWidth": f.int("logoWidth", "logoWidth"),
		"sticky":    f.bool("sticky"),
		"overlay":   f.bool("overlay"),
	}

	if err := f.err(); err != nil {
		return s.renderHeader(c, fiber.StatusBadRequest, failure(err))
	}

	res, err := s.header.Save(c.UserContext(), payload, auth.Actor(c))
	if err != nil {
		status, _, _ := response.Classify(err)
		return s.renderHeader(c, status, failure(err))
	}

	return s.renderHeader(c, fiber.StatusOK, fiber.Map{"Success": "Header saved", "Version": res.Version})
}

// PostHeaderSync copies the general header into the CMS header.
func (s *Service) PostHeaderSync(c *fiber.Ctx) error {
	res, err := s.header.SyncFromGeneral(c.UserContext(), auth.Actor(c))
	if err != nil {
		status, _, _ := response.Classify(err)
		return s.renderHeader(c, status, failure(err))
	}

	return s.renderHeader(c, fiber.StatusOK, fiber.Map{"Success": "Header synced from general settings", "Version": res.Version})
}

// GetHero renders the hero form.
func (s *Service) GetHero(c *fiber.Ctx) error {
	return s.renderHero(c, fiber.StatusOK, fiber.Map{})
}

// PostHero saves the hero form.
func (s *Service) PostHero(c *fiber.Ctx) error {
	f := newPatchForm(ctxValues{c})

	patch := map[string]any{
		"hero": map[string]any{
			"title":    f.text("title"),
			"subtitle": f.text("subtitle"),
			"body":     f.text("body"),
			"imageUrl": f.text("imageUrl"),
			"cta": map[string]any{
				"label": f.text("ctaLabel"),
				"href":  f.text("ctaHref"),
			},
			"slides": f.slides("slides"),
		},
	}

	if _, err := s.content.SaveHome(c.UserContext(), patch, auth.Actor(c)); err != nil {
		status, _, _ := response.Classify(err)
		return s.renderHero(c, status, failure(err))
	}

	return s.renderHero(c, fiber.StatusOK, fiber.Map{"Success": "Hero saved"})
}

// GetAudit lists the newest audit records.
func (s *Service) GetAudit(c *fiber.Ctx) error {
	records, err := s.audit.Recent(c.UserContext(), auditPageLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list audit records")
		return s.render(c, fiber.StatusInternalServerError, "audit", "cms/audit", fiber.Map{"Error": "Failed to load audit log"})
	}

	return s.render(c, fiber.StatusOK, "audit", "cms/audit", fiber.Map{"Records": records})
}

func (s *Service) renderGeneral(c *fiber.Ctx, status int, data fiber.Map) error {
	settings, err := s.general.Load(c.UserContext())
	if err != nil {
		if !errors.Is(err, document.ErrNotFound) {
			return s.loadFailed(c, "general", "cms/general", err)
		}

		defaults := general.Defaults()
		settings = &defaults
	}

	raw := []byte("{}")
	if snap, err := s.general.Get(c.UserContext()); err == nil {
		raw = snap.Raw
	}

	data["Settings"] = settings
	data["Colors"] = colorInputs(settings)
	data["Variables"] = sortedVariables(design.Variables(raw))

	return s.render(c, status, "general", "cms/general", data)
}

func (s *Service) renderHeader(c *fiber.Ctx, status int, data fiber.Map) error {
	doc, err := s.header.Load(c.UserContext())
	if err != nil {
		if !errors.Is(err, document.ErrNotFound) {
			return s.loadFailed(c, "header", "cms/header", err)
		}

		doc = &header.Doc{}
	}

	data["Doc"] = doc
	data["NavLinksText"] = navLinksText(doc.NavLinks)

	return s.render(c, status, "header", "cms/header", data)
}

func (s *Service) renderHero(c *fiber.Ctx, status int, data fiber.Map) error {
	home, err := s.content.LoadHome(c.UserContext())
	if err != nil {
		if !errors.Is(err, document.ErrNotFound) {
			return s.loadFailed(c, "hero", "cms/hero", err)
		}

		home = &content.Home{}
	}

	hero := home.Hero
	if hero == nil {
		hero = &content.Hero{}
	}

	data["Hero"] = hero
	data["SlidesText"] = slidesText(hero.Slides)

	return s.render(c, status, "hero", "cms/hero", data)
}

func (s *Service) loadFailed(c *fiber.Ctx, key, tmpl string, err error) error {
	status, _, message := response.Classify(err)
	log.Error().Err(err).Str("page", key).Msg("editor failed to load document")

	return s.render(c, status, key, tmpl, fiber.Map{"Error": message, "Unavailable": true})
}

func (s *Service) render(c *fiber.Ctx, status int, key, tmpl string, data fiber.Map) error {
	data["Navigation"] = navigation.NewContext(Sections, key, handler.RootPath)
	data["Title"] = s.cfg.Title
	data["User"] = auth.Actor(c)

	return c.Status(status).Render(tmpl, data, handler.CMSLayout)
}

// failure turns a save error into the template binding.
func failure(err error) fiber.Map {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return fiber.Map{"Error": "Please correct the highlighted fields", "Errors": verr.Fields}
	}

	_, _, message := response.Classify(err)

	return fiber.Map{"Error": message}
}

// ColorInput is one hsl input group of the general settings form.
type ColorInput struct {
	Name    string
	Label   string
	Color   *design.Hsl
	Hex     string
	Opacity bool
}

func colorInputs(s *general.Settings) []ColorInput {
	theme := s.ThemeColors
	if theme == nil {
		theme = &general.ThemeColors{}
	}

	header := s.Header
	if header == nil {
		header = &general.Header{}
	}

	footer := s.Footer
	if footer == nil {
		footer = &general.Footer{}
	}

	out := []ColorInput{
		{Name: "theme_primary", Label: "Primary", Color: theme.Primary},
		{Name: "theme_secondary", Label: "Secondary", Color: theme.Secondary},
		{Name: "theme_background", Label: "Background", Color: theme.Background},
		{Name: "theme_foreground", Label: "Foreground", Color: theme.Foreground},
		{Name: "theme_accent", Label: "Accent", Color: theme.Accent},
		{Name: "headerBg", Label: "Header background", Color: header.Bg, Opacity: true},
		{Name: "footerBg", Label: "Footer background", Color: footer.Bg},
		{Name: "footerText", Label: "Footer text", Color: footer.Text},
	}

	for i := range out {
		if out[i].Color != nil {
			out[i].Hex = out[i].Color.Hex()
		}
	}

	return out
}

// Variable is one derived CSS variable shown in the preview table.
type Variable struct {
	Name  string
	Value string
}

func sortedVariables(vars map[string]string) []Variable {
	out := make([]Variable, 0, len(vars))
	for name, value := range vars {
		out = append(out, Variable{Name: name, Value: value})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func navLinksText(links []general.NavLink) string {
	rows := make([]string, 0, len(links))

	for _, l := range links {
		row := l.Label + " | " + l.Href
		if l.NewTab {
			row += " | newtab"
		}

		rows = append(rows, row)
	}

	return strings.Join(rows, "\n")
}

func slidesText(slides []content.Slide) string {
	rows := make([]string, 0, len(slides))

	for _, sl := range slides {
		rows = append(rows, strings.Join([]string{sl.ImageURL, sl.Title, sl.Subtitle, sl.Href}, " | "))
	}

	return strings.Join(rows, "\n")
}
