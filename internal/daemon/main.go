// Package daemon wires storage, the change feed and the web service together.
package daemon

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/controller/audit"
	"github.com/digiflydk/studio-sub001/internal/db/controller/content"
	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/feed"
	"github.com/digiflydk/studio-sub001/internal/web"
	"github.com/digiflydk/studio-sub001/internal/web/handler"
	"github.com/digiflydk/studio-sub001/internal/web/middleware/auth"
)

// SeedActor is recorded on documents written by the startup seed.
const SeedActor = "system:seed"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg     *config.Config
	db      *gorm.DB
	hub     *feed.Hub
	relay   *feed.Relay
	handles *document.Handles
	audit   *audit.Log
	general *general.Service
	header  *header.Service
	content *content.Service
}

// New opens the database and builds the document services.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: db, hub: feed.NewHub(feed.DefaultBuffer)}

	if d.handles, err = d.connect(); err != nil {
		return nil, errors.Wrap(err, "failed to open document handles")
	}

	if _, err = d.handles.Admin(); err != nil {
		log.Warn().Err(err).Msg("admin credentials incomplete: writes and admin reads answer 503")
	}

	if d.audit, err = audit.New(db); err != nil {
		return nil, err
	}

	d.general = general.New(d.handles, d.audit)
	d.header = header.New(d.handles, d.audit)
	d.content = content.New(d.handles, d.audit)

	return d, nil
}

// connect opens the document handles of the configured backend. Firestore
// writes reach the hub through the snapshot listener started by Start, so
// its handles publish nothing themselves.
func (d *Daemon) connect() (*document.Handles, error) {
	cfg := d.cfg

	client := document.Credentials{ProjectID: cfg.Firebase.ProjectID, APIKey: cfg.Firebase.APIKey}
	admin := document.Credentials{
		ProjectID:   cfg.Admin.ProjectID,
		ClientEmail: cfg.Admin.ClientEmail,
		PrivateKey:  cfg.Admin.PrivateKey,
	}

	if cfg.Documents.Backend == config.BackendFirestore {
		if cfg.Broker.Enabled {
			log.Warn().Msg("broker ignored: firestore listeners already reach every instance")
		}

		return document.ConnectFirestore(context.Background(), client, admin, nil)
	}

	var publisher feed.Publisher = d.hub

	if cfg.Broker.Enabled {
		redisClient := feed.NewRedisClient(cfg.Broker.Addr, cfg.Broker.Password, cfg.Broker.DB)
		d.relay = feed.NewRelay(d.hub, redisClient, cfg.Broker.Channel)
		publisher = d.relay
	}

	return document.Connect(d.db, client, admin, publisher)
}

// Close releases the document backend connections.
func (d *Daemon) Close() error {
	return d.handles.Close()
}

// Seed writes the default general settings when none exist yet.
func (d *Daemon) Seed(ctx context.Context) {
	written, err := d.general.Seed(ctx, SeedActor)

	switch {
	case errors.Is(err, document.ErrCredentials):
		log.Info().Msg("skipping seed: no admin credentials")
	case err != nil:
		log.Error().Err(err).Msg("failed to seed general settings")
	case written:
		log.Info().Str("path", general.Path).Msg("seeded default general settings")
	}
}

// SyncHeader derives the CMS header from the general settings once.
func (d *Daemon) SyncHeader(ctx context.Context, actor string) (*header.Result, error) {
	return d.header.SyncFromGeneral(ctx, actor)
}

// Start seeds, starts the background workers and serves HTTP until a
// shutdown signal arrives.
func (d *Daemon) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		if err := d.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close document backend")
		}
	}()

	d.Seed(ctx)

	if d.cfg.Documents.Backend == config.BackendFirestore {
		go func() {
			if err := d.handles.Client().Watch(ctx, general.Path, d.hub); err != nil {
				log.Error().Err(err).Str("path", general.Path).Msg("firestore listener stopped")
			}
		}()
	}

	if d.relay != nil {
		go func() {
			if err := d.relay.Run(ctx); err != nil {
				log.Error().Err(err).Str("channel", d.cfg.Broker.Channel).Msg("document relay stopped")
			}
		}()
	}

	if d.cfg.Sync.HeaderFromGeneral {
		go func() {
			if err := header.NewSyncer(d.header, d.hub).Run(ctx); err != nil {
				log.Error().Err(err).Msg("header syncer stopped")
			}
		}()
	}

	users := auth.Users(d.cfg.Admin.Users)
	if len(users) == 0 {
		log.Warn().Msg("no CMS users configured: the editor rejects every login")
	}

	webService := web.New(d.cfg, &handler.Deps{
		General:     d.general,
		Header:      d.header,
		Content:     d.content,
		Audit:       d.audit,
		Feed:        d.hub,
		RequireAuth: auth.New(users),
	})

	errCh := make(chan error, 1)

	go func() {
		errCh <- webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
	}()

	go func() {
		webService.WaitShutdown()
		cancel()
	}()

	select {
	case err := <-errCh:
		cancel()
		d.hub.Close()

		return err
	case <-ctx.Done():
		d.hub.Close()

		return <-errCh
	}
}
