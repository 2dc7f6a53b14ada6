// Package feed distributes document change snapshots to live subscribers.
//
// A Hub fans snapshots out inside one process. A Relay additionally mirrors
// them through redis pub/sub so every instance behind a load balancer sees
// writes made by the others.
package feed

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrRelayClosed is delivered to subscribers when the redis subscription ends.
	ErrRelayClosed = errors.New("feed relay subscription closed")

	// ErrRelayReconnected is delivered to subscribers after the redis
	// subscription was re-established.
	ErrRelayReconnected = errors.New("feed relay reconnected")
)

// Snapshot is the full state of one document after a write.
// A snapshot with a non-nil Err reports a delivery problem instead of data.
type Snapshot struct {
	Path      string          `json:"path"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Origin    string          `json:"origin,omitempty"`
	Err       error           `json:"-"`
}

// Publisher accepts snapshots after a successful write.
type Publisher interface {
	Publish(s Snapshot)
}

// Subscriber hands out change streams for one document path.
// The returned func cancels the subscription and closes the channel.
type Subscriber interface {
	Subscribe(path string) (<-chan Snapshot, func())
}

// Encode serialises a snapshot for the relay.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a relay payload. Payloads without a path are rejected.
func Decode(payload []byte) (Snapshot, error) {
	var s Snapshot

	if err := json.Unmarshal(payload, &s); err != nil {
		return Snapshot{}, err
	}

	if s.Path == "" {
		return Snapshot{}, ErrMissingPath
	}

	return s, nil
}

// ErrMissingPath is returned by Decode for payloads without a document path.
var ErrMissingPath = errors.New("feed snapshot without path")
