// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/models"
	"github.com/digiflydk/studio-sub001/internal/feed"
)

// ProjectID is the project used by the test credentials.
const ProjectID = "studio-test"

// Open creates an in-memory SQLite database with every model migrated.
// The pool is limited to one connection so all queries see the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

// ClientCredentials returns credentials accepted for the client handle.
func ClientCredentials() document.Credentials {
	return document.Credentials{ProjectID: ProjectID}
}

// AdminCredentials returns credentials accepted for the admin handle.
func AdminCredentials() document.Credentials {
	return document.Credentials{
		ProjectID:   ProjectID,
		ClientEmail: "cms@" + ProjectID + ".iam.gserviceaccount.com",
		PrivateKey:  "test-key",
	}
}

// Handles opens client and admin handles over a fresh database.
func Handles(t testing.TB, publisher feed.Publisher) (*gorm.DB, *document.Handles) {
	t.Helper()

	db := Open(t)

	h, err := document.Connect(db, ClientCredentials(), AdminCredentials(), publisher)
	require.NoError(t, err)

	return db, h
}

// Admin returns the admin store of h or fails the test.
func Admin(t testing.TB, h *document.Handles) *document.Store {
	t.Helper()

	s, err := h.Admin()
	require.NoError(t, err)

	return s
}
