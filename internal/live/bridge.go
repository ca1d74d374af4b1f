package live

import (
	"context"
	"log"

	"github.com/leostarkx/MyBatch/internal/store"
)

// Bridge relays change events between instances over Redis pub/sub, so a
// write handled by one server reaches subscribers connected to another.
// Published events loop back through our own subscription; snapshots are
// full-collection and last-event-wins, so the duplicate push is harmless.
func Bridge(ctx context.Context, hub *Hub, rds *store.Redis) {
	hub.SetRelay(func(collection string) {
		if err := rds.PublishChange(ctx, collection); err != nil {
			log.Printf("live: relay %s failed: %v", collection, err)
		}
	})

	go func() {
		for collection := range rds.SubscribeChanges(ctx) {
			hub.NotifyLocal(collection)
		}
	}()
}
