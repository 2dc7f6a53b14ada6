package document

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/digiflydk/studio-sub001/internal/feed"
)

const googleTokenURI = "https://oauth2.googleapis.com/token"

// firestoreBackend keeps documents in Cloud Firestore. The client is scoped
// to one project, so the project argument is not used.
type firestoreBackend struct {
	client *firestore.Client
}

// ConnectFirestore opens Firestore handles. The admin handle authenticates
// with a service account built from admin. The client handle reuses the admin
// connection in read-only mode, or opens its own with the public API key when
// no service account is configured. Close releases both connections.
func ConnectFirestore(ctx context.Context, client, admin Credentials, publisher feed.Publisher) (*Handles, error) {
	if err := client.checkClient(); err != nil {
		return nil, err
	}

	h := &Handles{}

	var adminFS *firestore.Client

	if err := admin.checkAdmin(); err != nil {
		h.adminErr = err
	} else {
		account, err := admin.serviceAccountJSON()
		if err != nil {
			return nil, err
		}

		adminFS, err = firestore.NewClient(ctx, admin.ProjectID, option.WithCredentialsJSON(account))
		if err != nil {
			return nil, errors.Wrap(err, "open firestore admin client")
		}

		h.closers = append(h.closers, adminFS)
		h.admin = &Store{backend: &firestoreBackend{client: adminFS}, mode: ModeAdmin, project: admin.ProjectID, feed: publisher}
	}

	clientFS := adminFS

	if clientFS == nil {
		var opts []option.ClientOption
		if client.APIKey != "" {
			opts = append(opts, option.WithAPIKey(client.APIKey))
		}

		var err error

		if clientFS, err = firestore.NewClient(ctx, client.ProjectID, opts...); err != nil {
			return nil, errors.Wrap(err, "open firestore client")
		}

		h.closers = append(h.closers, clientFS)
	}

	h.client = &Store{backend: &firestoreBackend{client: clientFS}, mode: ModeClient, project: client.ProjectID}

	return h, nil
}

// serviceAccountJSON renders the credentials as a google service account key file.
func (c Credentials) serviceAccountJSON() ([]byte, error) {
	key := struct {
		Type        string `json:"type"`
		ProjectID   string `json:"project_id"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
		TokenURI    string `json:"token_uri"`
	}{
		Type:        "service_account",
		ProjectID:   c.ProjectID,
		ClientEmail: c.ClientEmail,
		PrivateKey:  c.PrivateKey,
		TokenURI:    googleTokenURI,
	}

	out, err := json.Marshal(key)
	if err != nil {
		return nil, errors.Wrap(err, "encode service account")
	}

	return out, nil
}

func (b *firestoreBackend) get(ctx context.Context, _, path string) (*Snapshot, error) {
	doc, err := b.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.Wrap(ErrNotFound, path)
		}

		return nil, errors.Wrapf(err, "read %s", path)
	}

	return snapshotOf(path, doc.Data(), doc.UpdateTime)
}

func (b *firestoreBackend) update(
	ctx context.Context,
	_, path string,
	fn func(current []byte, exists bool) ([]byte, error),
) (*Snapshot, error) {
	ref := b.client.Doc(path)

	var out *Snapshot

	err := b.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		var (
			current []byte
			exists  bool
		)

		doc, err := tx.Get(ref)

		switch {
		case err == nil:
			exists = true

			if current, err = json.Marshal(doc.Data()); err != nil {
				return errors.Wrapf(err, "encode %s", path)
			}
		case status.Code(err) == codes.NotFound:
		default:
			return errors.Wrapf(err, "read %s", path)
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		var body map[string]any
		if err := json.Unmarshal(next, &body); err != nil {
			return errors.Wrapf(err, "decode %s", path)
		}

		if err := tx.Set(ref, body); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}

		out = &Snapshot{Path: path, Data: body, Raw: next, UpdatedAt: time.Now().UTC()}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (b *firestoreBackend) remove(ctx context.Context, _, path string) error {
	if _, err := b.client.Doc(path).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.Wrap(ErrNotFound, path)
		}

		return errors.Wrapf(err, "delete %s", path)
	}

	return nil
}

// watch follows the document with a Firestore snapshot listener. A listener
// error is published as an error snapshot and ends the watch.
func (b *firestoreBackend) watch(ctx context.Context, path string, publisher feed.Publisher) error {
	it := b.client.Doc(path).Snapshots(ctx)
	defer it.Stop()

	for {
		doc, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}

			publisher.Publish(feed.Snapshot{Path: path, Err: err})

			return errors.Wrapf(err, "watch %s", path)
		}

		if !doc.Exists() {
			publisher.Publish(feed.Snapshot{Path: path, Data: []byte("null"), UpdatedAt: doc.ReadTime})
			continue
		}

		snap, err := snapshotOf(path, doc.Data(), doc.UpdateTime)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("undecodable firestore snapshot")
			publisher.Publish(feed.Snapshot{Path: path, Err: err})

			continue
		}

		publisher.Publish(feed.Snapshot{Path: path, Data: snap.Raw, UpdatedAt: snap.UpdatedAt})
	}
}

// snapshotOf normalises Firestore field values through JSON so callers see
// the same shapes (float64 numbers, RFC 3339 times) as with the gorm backend.
func snapshotOf(path string, data map[string]any, at time.Time) (*Snapshot, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", path)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	if body == nil {
		body = map[string]any{}
		raw = []byte("{}")
	}

	return &Snapshot{Path: path, Data: body, Raw: raw, UpdatedAt: at.UTC()}, nil
}
