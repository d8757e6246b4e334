package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Publisher fans out session lifecycle events to live subscribers (the
// websocket feed). Publishing is best-effort and never blocks a session
// operation on failure.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, event any) error
}

// ChannelFor is the pub/sub channel carrying one session's events.
func ChannelFor(sessionID string) string {
	return "interview:" + sessionID + ":events"
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, sessionID string, event any) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, ChannelFor(sessionID), b).Err()
}
