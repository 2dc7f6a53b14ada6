package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/general"
	"github.com/digiflydk/studio-sub001/internal/design"
	"github.com/digiflydk/studio-sub001/internal/feed"
)

// Frame types.
const (
	FrameSettings = "settings"
	FrameStale    = "stale"
)

// Frame is one message sent to the browser.
type Frame struct {
	Type      string            `json:"type"`
	Variables map[string]string `json:"variables,omitempty"`
	Settings  json.RawMessage   `json:"settings,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// Conn is the part of a websocket connection a Session uses.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
}

// Reader reads the current general settings.
type Reader interface {
	Get(ctx context.Context) (*document.Snapshot, error)
}

// Session streams design frames of the general settings to one connection.
type Session struct {
	conn   Conn
	reader Reader
	feed   feed.Subscriber
}

// NewSession creates a session for conn.
func NewSession(conn Conn, reader Reader, subscriber feed.Subscriber) *Session {
	return &Session{conn: conn, reader: reader, feed: subscriber}
}

// Run sends an initial frame and then one frame per change until the
// client disconnects or ctx is done. The subscription ends with Run.
func (s *Session) Run(ctx context.Context) error {
	changes, cancel := s.feed.Subscribe(general.Path)
	defer cancel()

	gone := make(chan struct{})

	go func() {
		defer close(gone)

		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.conn.WriteJSON(s.read(ctx)); err != nil {
		return errors.Wrap(err, "write initial frame")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-gone:
			return nil
		case snap, ok := <-changes:
			if !ok {
				return nil
			}

			if err := s.conn.WriteJSON(s.frame(ctx, snap)); err != nil {
				return errors.Wrap(err, "write frame")
			}
		}
	}
}

func (s *Session) frame(ctx context.Context, snap feed.Snapshot) Frame {
	if snap.Err != nil {
		log.Warn().Err(snap.Err).Msg("live settings feed failed, reading once")
		return s.read(ctx)
	}

	if string(snap.Data) == "null" {
		return settingsFrame(nil, snap.UpdatedAt)
	}

	return settingsFrame(snap.Data, snap.UpdatedAt)
}

// read builds a frame from a one-shot read. A failed read yields a stale frame.
func (s *Session) read(ctx context.Context) Frame {
	snap, err := s.reader.Get(ctx)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return settingsFrame(nil, time.Time{})
		}

		log.Error().Err(err).Msg("live settings read failed, keeping last applied variables")

		return Frame{Type: FrameStale}
	}

	return settingsFrame(snap.Raw, snap.UpdatedAt)
}

func settingsFrame(raw []byte, at time.Time) Frame {
	f := Frame{Type: FrameSettings, Variables: design.Variables(raw)}

	if len(raw) > 0 {
		f.Settings = json.RawMessage(raw)
	}

	if !at.IsZero() {
		f.UpdatedAt = at.UTC().Format(time.RFC3339Nano)
	}

	return f
}
