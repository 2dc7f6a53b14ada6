package header

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/feed"
)

// SyncActor is the actor recorded for change triggered syncs.
const SyncActor = "system:header-sync"

// Syncer re-derives the header document whenever the general settings change.
type Syncer struct {
	service    *Service
	subscriber feed.Subscriber
}

// NewSyncer creates a syncer for service fed by subscriber.
func NewSyncer(service *Service, subscriber feed.Subscriber) *Syncer {
	return &Syncer{service: service, subscriber: subscriber}
}

// Run consumes general settings snapshots until ctx is done.
func (s *Syncer) Run(ctx context.Context) error {
	changes, cancel := s.subscriber.Subscribe(general.Path)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-changes:
			if !ok {
				return nil
			}

			if _, err := s.Handle(ctx, snap); err != nil {
				log.Error().Err(err).Msg("header sync failed")
			}
		}
	}
}

// Handle syncs the header for one snapshot when the header's source time
// differs from the snapshot's. It reports whether a write happened.
func (s *Syncer) Handle(ctx context.Context, snap feed.Snapshot) (bool, error) {
	if snap.Err != nil {
		return false, errors.Wrap(snap.Err, "general settings feed")
	}

	if len(snap.Data) == 0 || string(snap.Data) == "null" {
		return false, nil
	}

	gen := &document.Snapshot{Path: snap.Path, Raw: snap.Data, UpdatedAt: snap.UpdatedAt}
	if err := json.Unmarshal(snap.Data, &gen.Data); err != nil {
		return false, errors.Wrap(err, "decode general settings snapshot")
	}

	if _, ok := gen.Data["header"].(map[string]any); !ok {
		return false, nil
	}

	current, err := s.service.Get(ctx)

	switch {
	case errors.Is(err, document.ErrNotFound):
	case err != nil:
		return false, err
	case gjson.GetBytes(current.Raw, "source.updatedAt").String() == SourceTime(gen):
		return false, nil
	}

	derived, err := Derive(gen)
	if err != nil {
		return false, err
	}

	if _, err := s.service.write(ctx, AuditSync, SyncActor, func(current map[string]any) map[string]any {
		return document.ShallowMerge(current, derived)
	}); err != nil {
		return false, err
	}

	log.Info().Str("source", SourceTime(gen)).Msg("header synced from general settings")

	return true, nil
}
