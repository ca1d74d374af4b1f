package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SnapshotFunc loads the full current contents of one collection, already
// in its subscription order (chat ascending, announcements descending,
// the rest unordered).
type SnapshotFunc func(ctx context.Context) (any, error)

// Frame is one snapshot event pushed to subscribers. Every frame carries
// the whole collection; clients replace their local list wholesale.
type Frame struct {
	Collection string          `json:"collection"`
	Docs       json.RawMessage `json:"docs"`
}

var (
	subscriberGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mybatch_live_subscribers",
		Help: "Currently connected live subscribers.",
	})
	snapshotCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mybatch_live_snapshots_total",
		Help: "Snapshots pushed, per collection.",
	}, []string{"collection"})
)

// Hub fans collection changes out to subscribers. Services notify it after
// every committed write; it re-queries the collection once and pushes the
// snapshot to every subscriber of that collection.
type Hub struct {
	mu        sync.RWMutex
	snapshots map[string]SnapshotFunc
	subs      map[*Subscriber]struct{}
	relay     func(collection string)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		snapshots: make(map[string]SnapshotFunc),
		subs:      make(map[*Subscriber]struct{}),
	}
}

// Register installs the snapshot loader for a collection.
func (h *Hub) Register(collection string, fn SnapshotFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshots[collection] = fn
}

// SetRelay installs a hook called on every local Notify, used to forward
// change events to other instances (Redis pub/sub). Relayed events come
// back in through NotifyLocal to avoid loops.
func (h *Hub) SetRelay(relay func(collection string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = relay
}

// Notify announces that a collection changed, locally and to peers.
func (h *Hub) Notify(collection string) {
	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()
	if relay != nil {
		relay(collection)
	}
	h.NotifyLocal(collection)
}

// NotifyLocal pushes a fresh snapshot of the collection to local
// subscribers only.
func (h *Hub) NotifyLocal(collection string) {
	h.mu.RLock()
	fn, ok := h.snapshots[collection]
	targets := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		if sub.wants(collection) {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()
	if !ok || len(targets) == 0 {
		return
	}

	docs, err := fn(context.Background())
	if err != nil {
		log.Printf("live: snapshot %s failed: %v", collection, err)
		return
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		log.Printf("live: encode %s failed: %v", collection, err)
		return
	}
	frame := Frame{Collection: collection, Docs: raw}
	for _, sub := range targets {
		sub.push(frame)
	}
	snapshotCounter.WithLabelValues(collection).Add(float64(len(targets)))
}

// Subscribe attaches a subscriber interested in the given collections and
// immediately queues an initial snapshot of each.
func (h *Hub) Subscribe(collections []string) *Subscriber {
	wanted := make(map[string]bool, len(collections))
	for _, c := range collections {
		wanted[c] = true
	}
	sub := &Subscriber{hub: h, wanted: wanted, frames: make(chan Frame, 16)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	subscriberGauge.Inc()

	for _, c := range collections {
		h.NotifyLocal(c)
	}
	return sub
}

func (h *Hub) drop(sub *Subscriber) {
	h.mu.Lock()
	_, present := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if present {
		subscriberGauge.Dec()
	}
}

// Subscriber receives snapshot frames for its collections until closed.
type Subscriber struct {
	hub    *Hub
	wanted map[string]bool

	mu     sync.Mutex
	closed bool
	frames chan Frame
}

func (s *Subscriber) wants(collection string) bool {
	return s.wanted[collection]
}

// push delivers a frame, dropping it if the subscriber is slow. A later
// change re-sends the full collection anyway.
func (s *Subscriber) push(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.frames <- frame:
	default:
	}
}

// Frames is the stream of snapshot events. It closes when the subscriber
// is closed.
func (s *Subscriber) Frames() <-chan Frame {
	return s.frames
}

// Close detaches the subscriber. Safe to call more than once and from any
// goroutine; no frames are delivered after it returns.
func (s *Subscriber) Close() {
	s.hub.drop(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.frames)
}
