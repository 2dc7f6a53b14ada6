// Package document provides the document store accessors: read-only client
// handles and writable admin handles over Cloud Firestore or, for local
// development and tests, the gorm documents table.
package document

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/feed"
)

var writesCounter = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "document_writes_total",
	Help: "Document writes by collection and result.",
}, []string{"collection", "result"})

// Mode tells what a handle may do.
type Mode int

const (
	// ModeClient handles only read.
	ModeClient Mode = iota
	// ModeAdmin handles read and write.
	ModeAdmin
)

// Credentials identify the project a handle works on. Admin handles also
// need the service account fields. APIKey is the public web key, used only
// by Firestore client handles opened without a service account.
type Credentials struct {
	ProjectID   string
	APIKey      string
	ClientEmail string
	PrivateKey  string
}

func (c Credentials) checkClient() error {
	if c.ProjectID == "" {
		return errors.Wrap(ErrCredentials, "project id is empty")
	}

	return nil
}

func (c Credentials) checkAdmin() error {
	if err := c.checkClient(); err != nil {
		return err
	}

	if c.ClientEmail == "" || c.PrivateKey == "" {
		return errors.Wrap(ErrCredentials, "service account client email or private key is empty")
	}

	return nil
}

// Snapshot is one stored document.
type Snapshot struct {
	Path      string
	Data      map[string]any
	Raw       []byte
	UpdatedAt time.Time
}

// backend is the storage behind a Store.
type backend interface {
	get(ctx context.Context, project, path string) (*Snapshot, error)
	// update runs fn as one read-modify-write and stores its result.
	update(ctx context.Context, project, path string, fn func(current []byte, exists bool) ([]byte, error)) (*Snapshot, error)
	remove(ctx context.Context, project, path string) error
}

// watcher is implemented by backends with native change listeners.
type watcher interface {
	watch(ctx context.Context, path string, publisher feed.Publisher) error
}

// Store is a document handle.
type Store struct {
	backend backend
	mode    Mode
	project string
	feed    feed.Publisher
}

// Mode returns the handle mode.
func (s *Store) Mode() Mode {
	return s.mode
}

// Project returns the project the handle is scoped to.
func (s *Store) Project() string {
	return s.project
}

// Get reads the document at path.
func (s *Store) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	return s.backend.get(ctx, s.project, path)
}

// Exists reports whether a document is stored at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.Get(ctx, path)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Set replaces the document at path with data.
func (s *Store) Set(ctx context.Context, path string, data map[string]any) (*Snapshot, error) {
	return s.Update(ctx, path, func(map[string]any, bool) (map[string]any, error) {
		return data, nil
	})
}

// Merge deep merges patch into the document at path, creating it if absent.
func (s *Store) Merge(ctx context.Context, path string, patch map[string]any) (*Snapshot, error) {
	return s.Update(ctx, path, func(current map[string]any, _ bool) (map[string]any, error) {
		return DeepMerge(current, patch), nil
	})
}

// Update runs a read-modify-write of one document inside a transaction.
// fn receives a copy of the current body (nil when absent). There is no
// concurrency control beyond the transaction: the last writer wins.
func (s *Store) Update(
	ctx context.Context,
	path string,
	fn func(current map[string]any, exists bool) (map[string]any, error),
) (*Snapshot, error) {
	return s.UpdateRaw(ctx, path, func(current []byte, exists bool) ([]byte, error) {
		var body map[string]any

		if exists {
			if err := json.Unmarshal(current, &body); err != nil {
				return nil, errors.Wrapf(err, "decode %s", path)
			}
		}

		next, err := fn(body, exists)
		if err != nil {
			return nil, err
		}

		if next == nil {
			next = map[string]any{}
		}

		cleaned, _ := StripUndefined(next).(map[string]any)

		return json.Marshal(cleaned)
	})
}

// UpdateRaw is Update on the encoded JSON body.
func (s *Store) UpdateRaw(
	ctx context.Context,
	path string,
	fn func(current []byte, exists bool) ([]byte, error),
) (*Snapshot, error) {
	if err := s.writable(path); err != nil {
		return nil, err
	}

	snap, err := s.backend.update(ctx, s.project, path, func(current []byte, exists bool) ([]byte, error) {
		next, err := fn(current, exists)
		if err != nil {
			return nil, err
		}

		if !isObject(next) {
			return nil, errors.Wrap(ErrNotObject, path)
		}

		return next, nil
	})

	collection := Collection(path)

	if err != nil {
		writesCounter.WithLabelValues(collection, "error").Inc()
		return nil, err
	}

	writesCounter.WithLabelValues(collection, "ok").Inc()

	if s.feed != nil {
		s.feed.Publish(feed.Snapshot{Path: path, Data: snap.Raw, UpdatedAt: snap.UpdatedAt})
	}

	log.Debug().Str("project", s.project).Str("path", path).Msg("document written")

	return snap, nil
}

// Delete removes the document at path.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.writable(path); err != nil {
		return err
	}

	if err := s.backend.remove(ctx, s.project, path); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Publish(feed.Snapshot{Path: path, Data: []byte("null"), UpdatedAt: time.Now().UTC()})
	}

	return nil
}

// Watch publishes a snapshot of path to publisher on every change, including
// changes written by other processes, until ctx is done. Backends without
// change listeners return ErrWatchUnsupported.
func (s *Store) Watch(ctx context.Context, path string, publisher feed.Publisher) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	w, ok := s.backend.(watcher)
	if !ok {
		return ErrWatchUnsupported
	}

	return w.watch(ctx, path, publisher)
}

func (s *Store) writable(path string) error {
	if s.mode != ModeAdmin {
		return ErrReadOnly
	}

	return ValidatePath(path)
}

func isObject(raw []byte) bool {
	var obj map[string]json.RawMessage

	return json.Unmarshal(raw, &obj) == nil && obj != nil
}
