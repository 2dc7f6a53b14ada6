package feed

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	publishTimeout = 2 * time.Second
	channelSize    = 100
)

// Relay publishes local snapshots to redis and injects remote ones into the hub.
type Relay struct {
	hub     *Hub
	client  *redis.Client
	channel string
	origin  string
}

// NewRelay creates a relay for hub on the given redis channel.
func NewRelay(hub *Hub, client *redis.Client, channel string) *Relay {
	return &Relay{
		hub:     hub,
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

// NewRedisClient creates a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Origin identifies this instance inside relayed snapshots.
func (r *Relay) Origin() string {
	return r.origin
}

// Publish delivers s locally, then mirrors it to redis. Redis failures are logged only.
func (r *Relay) Publish(s Snapshot) {
	s.Origin = r.origin
	r.hub.Publish(s)

	payload, err := Encode(s)
	if err != nil {
		log.Error().Err(err).Str("path", s.Path).Msg("failed to encode snapshot for relay")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err = r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		log.Error().Err(err).Str("path", s.Path).Str("channel", r.channel).Msg("failed to relay snapshot")
	}
}

// Run forwards remote snapshots into the hub until ctx is done.
// go-redis reconnects a dropped subscription by itself. Every resubscription
// is reported to subscribers as ErrRelayReconnected, since messages published
// while disconnected are lost. When the subscription closes, subscribers
// receive ErrRelayClosed.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)

	defer func() {
		_ = sub.Close()
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrapf(err, "subscribe to %s", r.channel)
	}

	log.Info().Str("channel", r.channel).Str("origin", r.origin).Msg("document relay subscribed")

	return r.consume(ctx, sub.ChannelWithSubscriptions(ctx, channelSize))
}

// consume dispatches subscription events. The first subscription was
// confirmed by Run, so every further "subscribe" event is a reconnect.
func (r *Relay) consume(ctx context.Context, ch <-chan any) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-ch:
			if !ok {
				r.hub.Fail(ErrRelayClosed)
				return ErrRelayClosed
			}

			switch msg := v.(type) {
			case *redis.Message:
				r.handle([]byte(msg.Payload))
			case *redis.Subscription:
				if msg.Kind == "subscribe" {
					log.Warn().Str("channel", r.channel).Msg("document relay resubscribed, changes may have been missed")
					r.hub.Fail(ErrRelayReconnected)
				}
			}
		}
	}
}

func (r *Relay) handle(payload []byte) {
	s, err := Decode(payload)
	if err != nil {
		log.Warn().Err(err).Str("channel", r.channel).Msg("undecodable relay message")
		r.hub.Fail(errors.Wrap(err, "relay message"))

		return
	}

	if s.Origin == r.origin {
		return
	}

	r.hub.Publish(s)
}
