package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RelayChannel is the redis pub/sub channel shared by every instance.
const RelayChannel = "civicconnect:events"

const relayPublishTimeout = 2 * time.Second

// RedisRelay fans events out across instances. Publish sends to redis and
// Run feeds every received envelope into the local hub, so an instance sees
// its own events through the subscription as well.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{client: client, hub: hub}
}

// Publish sends env to redis. When redis is unreachable the event is
// delivered to local clients only.
func (r *RedisRelay) Publish(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("realtime: failed to encode %s for relay: %v", env.Event, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), relayPublishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, RelayChannel, payload).Err(); err != nil {
		log.Printf("realtime: relay publish failed, delivering locally: %v", err)
		r.hub.Publish(env)
	}
}

// Run subscribes to the relay channel until ctx ends.
func (r *RedisRelay) Run(ctx context.Context) {
	pubsub := r.client.Subscribe(ctx, RelayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handleMessage(msg.Payload)
		}
	}
}

func (r *RedisRelay) handleMessage(payload string) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("realtime: error decoding relay message: %v", err)
		return
	}
	if env.Event == "" || env.Room == "" {
		log.Printf("realtime: ignoring relay message without event or room")
		return
	}
	r.hub.Publish(env)
}
