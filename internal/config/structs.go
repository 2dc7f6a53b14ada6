package config

import (
	"github.com/digiflydk/studio-sub001/internal/logger"
)

// DefaultBrokerChannel is the redis channel used for document change fan-out.
const DefaultBrokerChannel = "studio:documents"

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Documents Documents
	Firebase  Firebase
	Admin     Admin
	Broker    Broker
	Sync      Sync
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool   // enable static file browsing (for development purposes only)
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// Supported document backends.
const (
	BackendSQL       = "sql"       // documents table of the DB section
	BackendFirestore = "firestore" // Cloud Firestore of the Firebase project
)

// Documents selects where documents live. The audit log always uses DB.
type Documents struct {
	Backend string
}

// Firebase holds the client visible project identifiers.
// They scope the read-only document handle.
type Firebase struct {
	APIKey     string
	AuthDomain string
	ProjectID  string
	AppID      string
}

// Admin holds the service account used for the writable document handle and
// the CMS editor accounts (username to argon2id hash).
type Admin struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	Users       map[string]string
}

// Broker configures the optional redis relay for live document changes.
type Broker struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Sync toggles change triggered derivations.
type Sync struct {
	HeaderFromGeneral bool // re-derive cms header whenever settings/general changes
}

// redacted returns a copy without secrets, for dumping.
func (c *Config) redacted() Config {
	out := *c

	const mask = "***"

	if out.DB.Password != "" {
		out.DB.Password = mask
	}

	if out.Admin.PrivateKey != "" {
		out.Admin.PrivateKey = mask
	}

	if out.Broker.Password != "" {
		out.Broker.Password = mask
	}

	return out
}
