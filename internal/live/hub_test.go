package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvFrame(t *testing.T, sub *Subscriber) Frame {
	t.Helper()
	select {
	case f, ok := <-sub.Frames():
		require.True(t, ok, "frames channel closed")
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame arrived")
		return Frame{}
	}
}

func TestSubscribeGetsInitialSnapshot(t *testing.T) {
	h := NewHub()
	h.Register("chat", func(context.Context) (any, error) {
		return []string{"m1", "m2"}, nil
	})

	sub := h.Subscribe([]string{"chat"})
	defer sub.Close()

	f := recvFrame(t, sub)
	assert.Equal(t, "chat", f.Collection)
	assert.JSONEq(t, `["m1","m2"]`, string(f.Docs))
}

func TestNotifyPushesFreshSnapshot(t *testing.T) {
	h := NewHub()
	docs := []string{"m1"}
	h.Register("chat", func(context.Context) (any, error) { return docs, nil })

	sub := h.Subscribe([]string{"chat"})
	defer sub.Close()
	recvFrame(t, sub) // initial

	docs = []string{"m1", "m2"}
	h.Notify("chat")
	f := recvFrame(t, sub)
	assert.JSONEq(t, `["m1","m2"]`, string(f.Docs))
}

func TestNotifyOnlyReachesInterestedSubscribers(t *testing.T) {
	h := NewHub()
	h.Register("chat", func(context.Context) (any, error) { return []string{}, nil })
	h.Register("grades", func(context.Context) (any, error) { return []string{}, nil })

	chatSub := h.Subscribe([]string{"chat"})
	defer chatSub.Close()
	recvFrame(t, chatSub)

	h.Notify("grades")
	select {
	case f := <-chatSub.Frames():
		t.Fatalf("unexpected frame for %s", f.Collection)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	h := NewHub()
	h.Register("chat", func(context.Context) (any, error) { return []string{"m"}, nil })

	sub := h.Subscribe([]string{"chat"})
	recvFrame(t, sub)
	sub.Close()
	sub.Close() // idempotent

	h.Notify("chat")
	_, ok := <-sub.Frames()
	assert.False(t, ok, "frames channel must be closed")
}

func TestRelayHookFires(t *testing.T) {
	h := NewHub()
	h.Register("chat", func(context.Context) (any, error) { return []string{}, nil })

	var relayed []string
	h.SetRelay(func(c string) { relayed = append(relayed, c) })

	h.Notify("chat")
	assert.Equal(t, []string{"chat"}, relayed)

	// NotifyLocal skips the relay, which is how relayed events avoid loops
	h.NotifyLocal("chat")
	assert.Len(t, relayed, 1)
}

func TestSlowSubscriberDropsFramesNotConnection(t *testing.T) {
	h := NewHub()
	h.Register("chat", func(context.Context) (any, error) { return []string{"m"}, nil })

	sub := h.Subscribe([]string{"chat"})
	defer sub.Close()

	// overflow the buffer without reading; pushes must not block or panic
	for i := 0; i < 100; i++ {
		h.Notify("chat")
	}

	f := recvFrame(t, sub)
	var docs []string
	require.NoError(t, json.Unmarshal(f.Docs, &docs))
	assert.Equal(t, []string{"m"}, docs)
}
