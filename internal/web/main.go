package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/design"
	fiberlogger "github.com/digiflydk/studio-sub001/internal/logger/adapter/fiber"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/handler/api/admin"
	"github.com/digiflydk/studio-sub001/internal/web/handler/api/audit"
	"github.com/digiflydk/studio-sub001/internal/web/handler/api/cms"
	"github.com/digiflydk/studio-sub001/internal/web/handler/api/settings"
	"github.com/digiflydk/studio-sub001/internal/web/handler/editor"
	"github.com/digiflydk/studio-sub001/internal/web/handler/live"
	"github.com/digiflydk/studio-sub001/internal/web/handler/site"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath serves prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM, then drains and stops the server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the health check for Webserver.ShutDownTime seconds so
// load balancers drain this instance, then stops fiber.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps *handler.Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps == nil {
		panic("handler dependencies cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg),
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode || cfg.Webserver.ShutDownTime == 0,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	settings.Handler.Init(app, cfg, deps)
	cms.Handler.Init(app, cfg, deps)
	admin.Handler.Init(app, cfg, deps)
	audit.Handler.Init(app, cfg, deps)
	live.Handler.Init(app, cfg, deps)
	editor.Handler.Init(app, cfg, deps)
	site.Handler.Init(app, cfg, deps)

	return service
}

// CheckAlive returns 200 while serving and 503 while shutting down.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateFS{embeddedTemplates})
	engine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("hsl", func(c *design.Hsl) string {
		if c == nil {
			return ""
		}

		return c.CSS()
	})
	engine.AddFunc("hex", func(c *design.Hsl) string {
		if c == nil {
			return ""
		}

		return c.Hex()
	})
	engine.AddFunc("hasPrefix", strings.HasPrefix)
	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})

	return engine
}
