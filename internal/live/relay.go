package live

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Channel is the Redis pub/sub channel shared by every console instance.
const Channel = "minimart:live"

// RedisRelay publishes events through Redis so that every instance behind a
// load balancer forwards them to its own hub.
type RedisRelay struct {
	rdb *redis.Client
	hub *Hub
}

func NewRedisRelay(rdb *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub}
}

// Publish sends e to Redis. On failure the event is delivered locally only.
func (r *RedisRelay) Publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("type", e.Type).Msg("live: encode event")
		return
	}
	if err := r.rdb.Publish(context.Background(), Channel, data).Err(); err != nil {
		log.Warn().Err(err).Msg("live: redis publish failed, delivering locally")
		r.hub.publishRaw(data)
	}
}

// Run forwards Redis messages to the local hub until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.rdb.Subscribe(ctx, Channel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.hub.publishRaw([]byte(msg.Payload))
		}
	}
}
