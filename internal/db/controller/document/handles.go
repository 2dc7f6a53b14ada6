package document

import (
	"errors"
	"io"

	"gorm.io/gorm"

	"github.com/digiflydk/studio-sub001/internal/feed"
)

// Handles bundles the client and admin stores opened over one backend.
type Handles struct {
	client   *Store
	admin    *Store
	adminErr error
	closers  []io.Closer
}

// Connect opens the read-only client handle and, when the admin credentials
// are complete, the writable admin handle. Missing admin credentials are not
// fatal: Admin then reports ErrCredentials.
func Connect(db *gorm.DB, client, admin Credentials, publisher feed.Publisher) (*Handles, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := client.checkClient(); err != nil {
		return nil, err
	}

	h := &Handles{
		client: &Store{backend: &gormBackend{db: db}, mode: ModeClient, project: client.ProjectID},
	}

	if err := admin.checkAdmin(); err != nil {
		h.adminErr = err
		return h, nil
	}

	h.admin = &Store{backend: &gormBackend{db: db}, mode: ModeAdmin, project: admin.ProjectID, feed: publisher}

	return h, nil
}

// Client returns the read-only handle.
func (h *Handles) Client() *Store {
	return h.client
}

// Admin returns the writable handle or ErrCredentials.
func (h *Handles) Admin() (*Store, error) {
	if h.admin == nil {
		return nil, h.adminErr
	}

	return h.admin, nil
}

// Close releases backend connections. The gorm database is owned by the caller.
func (h *Handles) Close() error {
	errs := make([]error, 0, len(h.closers))

	for _, c := range h.closers {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}
