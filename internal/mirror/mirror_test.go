package mirror

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leostarkx/MyBatch/internal/live"
)

type doc struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	m := NewMirror[doc](nil)

	m.ApplySnapshot([]doc{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	require.Equal(t, 3, m.Len())

	// a later snapshot without "b" must not leave it behind
	m.ApplySnapshot([]doc{{ID: "a"}, {ID: "c"}})
	items := m.Items()
	require.Len(t, items, 2)
	for _, it := range items {
		assert.NotEqual(t, "b", it.ID, "stale entry survived a replacement snapshot")
	}

	// the final state always equals the last snapshot, regardless of
	// what came before
	last := []doc{{ID: "x"}}
	m.ApplySnapshot([]doc{{ID: "1"}, {ID: "2"}})
	m.ApplySnapshot(last)
	assert.Equal(t, last, m.Items())
}

func TestApplySnapshotAfterCloseIgnored(t *testing.T) {
	var calls int
	m := NewMirror[doc](func([]doc) { calls++ })

	m.ApplySnapshot([]doc{{ID: "a"}})
	m.Close()
	m.ApplySnapshot([]doc{{ID: "b"}, {ID: "c"}})

	assert.Equal(t, 1, calls, "onChange fired after Close")
	assert.Equal(t, 1, m.Len(), "snapshot applied after Close")
	assert.True(t, m.Closed())
}

func TestCloseUnsubscribesExactlyOnce(t *testing.T) {
	var unsubs int
	m := NewMirror[doc](nil)
	m.SetUnsubscribe(func() { unsubs++ })

	// rapid teardown/re-setup can call Close from several paths
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Close()
		}()
	}
	wg.Wait()
	m.Close()

	assert.Equal(t, 1, unsubs)
}

func TestSetDispatch(t *testing.T) {
	s := NewSet()
	m := NewMirror[doc](nil)
	Bind(s, "docs", m)

	raw, _ := json.Marshal([]doc{{ID: "a", Body: "hi"}})
	require.NoError(t, s.Dispatch(live.Frame{Collection: "docs", Docs: raw}))
	assert.Equal(t, []doc{{ID: "a", Body: "hi"}}, m.Items())

	// frames for unbound collections are ignored
	require.NoError(t, s.Dispatch(live.Frame{Collection: "other", Docs: raw}))

	// a null snapshot empties the mirror
	require.NoError(t, s.Dispatch(live.Frame{Collection: "docs", Docs: json.RawMessage("null")}))
	assert.Zero(t, m.Len())

	// malformed payloads surface as errors without touching state
	assert.Error(t, s.Dispatch(live.Frame{Collection: "docs", Docs: json.RawMessage("{oops")}))
}

func TestSetCollections(t *testing.T) {
	s := NewSet()
	Bind(s, "chat", NewMirror[doc](nil))
	Bind(s, "users", NewMirror[doc](nil))
	assert.ElementsMatch(t, []string{"chat", "users"}, s.Collections())
}
