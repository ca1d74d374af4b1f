package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	stream, err := q.Consume(ctx)
	require.NoError(t, err)

	want := Job{
		Kind:      JobMention,
		Usernames: []string{"huda", "omar"},
		Content:   "mentioned you in chat",
		LinkTo:    "chat/m1",
		ActorID:   "u1",
	}
	require.NoError(t, q.Publish(ctx, want))

	select {
	case got := <-stream:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("job never arrived")
	}
}

func TestInMemoryPublishBlockedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := NewInMemory(1)
	require.NoError(t, q.Publish(ctx, Job{Kind: JobAnnouncement}))

	// buffer full and no consumer: a canceled context unblocks Publish
	cancel()
	err := q.Publish(ctx, Job{Kind: JobAnnouncement})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJobEnvelope(t *testing.T) {
	raw, err := json.Marshal(Job{Kind: JobAnnouncement, Content: "exam moved", ActorID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"announcement","content":"exam moved","actorId":"u1"}`, string(raw))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"mention","usernames":["huda"],"content":"hi","linkTo":"chat/m2"}`), &job))
	assert.Equal(t, JobMention, job.Kind)
	assert.Equal(t, []string{"huda"}, job.Usernames)
	assert.Equal(t, "chat/m2", job.LinkTo)
}
