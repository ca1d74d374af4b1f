package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// ChangeChannel is the pub/sub channel carrying collection-change events
// between instances.
const ChangeChannel = "mybatch:changes"

// PublishChange announces that a collection changed.
func (r *Redis) PublishChange(ctx context.Context, collection string) error {
	return r.Client.Publish(ctx, ChangeChannel, collection).Err()
}

// SubscribeChanges returns a stream of changed-collection names. The
// channel closes when ctx is done.
func (r *Redis) SubscribeChanges(ctx context.Context) <-chan string {
	sub := r.Client.Subscribe(ctx, ChangeChannel)
	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				out <- msg.Payload
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
