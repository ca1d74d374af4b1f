package mirror

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/leostarkx/MyBatch/internal/live"
)

// Mirror keeps a local copy of one remote collection. Every incoming
// snapshot carries the whole collection and replaces the local list
// wholesale, so a late frame never resurrects stale entries: whatever
// arrived last wins.
type Mirror[T any] struct {
	mu          sync.Mutex
	closed      bool
	items       []T
	onChange    func([]T)
	unsubscribe func()
}

// NewMirror creates a mirror. onChange, if non-nil, fires after every
// applied snapshot with the new contents; it is never called after Close.
func NewMirror[T any](onChange func([]T)) *Mirror[T] {
	return &Mirror[T]{onChange: onChange}
}

// ApplySnapshot replaces the mirrored list. Snapshots arriving after
// Close are dropped.
func (m *Mirror[T]) ApplySnapshot(items []T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.items = items
	cb := m.onChange
	m.mu.Unlock()
	if cb != nil {
		cb(items)
	}
}

// Items returns a copy of the current contents.
func (m *Mirror[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Len reports the current collection size.
func (m *Mirror[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Closed reports whether Close has been called.
func (m *Mirror[T]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close detaches the mirror. The unsubscribe hook runs exactly once no
// matter how many times Close is called, which matters under rapid
// teardown/re-setup cycles.
func (m *Mirror[T]) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// SetUnsubscribe installs the hook Close runs to detach from the remote
// stream, typically the stop function returned by Client.Subscribe.
func (m *Mirror[T]) SetUnsubscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubscribe = fn
}

// Set routes incoming snapshot frames to the mirrors bound to their
// collection names.
type Set struct {
	mu       sync.Mutex
	handlers map[string]func(json.RawMessage) error
}

// NewSet creates an empty frame router.
func NewSet() *Set {
	return &Set{handlers: make(map[string]func(json.RawMessage) error)}
}

// Bind wires a mirror to a collection name in the set: frames for that
// collection are decoded into []T and applied as snapshots.
func Bind[T any](s *Set, collection string, m *Mirror[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[collection] = func(raw json.RawMessage) error {
		var items []T
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("decode %s snapshot: %w", collection, err)
			}
		}
		m.ApplySnapshot(items)
		return nil
	}
}

// Dispatch applies one frame. Frames for unbound collections are ignored.
func (s *Set) Dispatch(f live.Frame) error {
	s.mu.Lock()
	h := s.handlers[f.Collection]
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	return h(f.Docs)
}

// Collections lists the bound collection names, for building the
// subscribe request.
func (s *Set) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.handlers))
	for c := range s.handlers {
		out = append(out, c)
	}
	return out
}
