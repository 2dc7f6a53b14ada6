package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()

	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return Snapshot{}
	}
}

func TestRelayConsume(t *testing.T) {
	hub := NewHub(4)
	relay := NewRelay(hub, nil, "studio:documents")

	sub, cancel := hub.Subscribe("settings/general")
	defer cancel()

	remote, err := Encode(Snapshot{Path: "settings/general", Data: json.RawMessage(`{"siteName":"b"}`), Origin: "other"})
	require.NoError(t, err)

	events := make(chan any, 4)
	done := make(chan error, 1)

	go func() {
		done <- relay.consume(context.Background(), events)
	}()

	events <- &redis.Message{Channel: "studio:documents", Payload: string(remote)}

	got := receive(t, sub)
	require.NoError(t, got.Err)
	assert.JSONEq(t, `{"siteName":"b"}`, string(got.Data))

	events <- &redis.Subscription{Kind: "unsubscribe", Channel: "studio:documents"}
	events <- &redis.Subscription{Kind: "subscribe", Channel: "studio:documents", Count: 1}

	got = receive(t, sub)
	require.ErrorIs(t, got.Err, ErrRelayReconnected)
	assert.Equal(t, "settings/general", got.Path)

	close(events)

	require.ErrorIs(t, <-done, ErrRelayClosed)

	got = receive(t, sub)
	require.ErrorIs(t, got.Err, ErrRelayClosed)
}

func TestRelayConsumeStopsWithContext(t *testing.T) {
	relay := NewRelay(NewHub(1), nil, "studio:documents")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, relay.consume(ctx, make(chan any)))
}
