package feed

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuffer is the per subscriber channel size.
const DefaultBuffer = 8

var (
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "feed_subscribers",
		Help: "Number of open live document subscriptions.",
	})

	coalescedCounter = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "feed_coalesced_total",
		Help: "Deliveries that replaced pending snapshots of a slow subscriber.",
	})
)

// Hub is an in-process fan out of snapshots keyed by document path.
// Publish never blocks: a full subscriber buffer is emptied and only the
// newest snapshot is queued, since every snapshot carries the whole document.
type Hub struct {
	mu     sync.Mutex
	buffer int
	nextID uint64
	subs   map[string]map[uint64]chan Snapshot
	closed bool
}

// NewHub creates a hub with the given per subscriber buffer.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}

	return &Hub{
		buffer: buffer,
		subs:   make(map[string]map[uint64]chan Snapshot),
	}
}

// Subscribe registers interest in path.
func (h *Hub) Subscribe(path string) (<-chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Snapshot, h.buffer)

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	h.nextID++
	id := h.nextID

	if h.subs[path] == nil {
		h.subs[path] = make(map[uint64]chan Snapshot)
	}

	h.subs[path][id] = ch
	subscribersGauge.Inc()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if _, ok := h.subs[path][id]; !ok {
				return // already closed by Close
			}

			delete(h.subs[path], id)

			if len(h.subs[path]) == 0 {
				delete(h.subs, path)
			}

			close(ch)
			subscribersGauge.Dec()
		})
	}
}

// Publish delivers s to every subscriber of s.Path.
func (h *Hub) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[s.Path] {
		deliver(ch, s)
	}
}

// Fail delivers an error snapshot to every subscriber of every path.
func (h *Hub) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for path, subs := range h.subs {
		for _, ch := range subs {
			deliver(ch, Snapshot{Path: path, Err: err})
		}
	}
}

// Subscribers returns the number of open subscriptions for path.
func (h *Hub) Subscribers(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[path])
}

// Close ends every subscription. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for path, subs := range h.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
			subscribersGauge.Dec()
		}

		delete(h.subs, path)
	}
}

// deliver must be called with the hub lock held; publishers are the only senders.
func deliver(ch chan Snapshot, s Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}

	for drained := false; !drained; {
		select {
		case <-ch:
		default:
			drained = true
		}
	}

	coalescedCounter.Inc()

	select {
	case ch <- s:
	default:
	}
}
