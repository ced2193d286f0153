package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"
)

// listPusher is the one Redis operation the publisher needs.
type listPusher interface {
	RPush(ctx context.Context, key, element string) error
}

type rueidisList struct {
	client rueidis.Client
}

func (l rueidisList) RPush(ctx context.Context, key, element string) error {
	cmd := l.client.B().Rpush().Key(key).Element(element).Build()
	return l.client.Do(ctx, cmd).Error()
}

// RedisPublisher appends JSON encoded events to a Redis list that the
// notification dispatcher consumes with BLPOP.
type RedisPublisher struct {
	list listPusher
	key  string
}

func NewRedisPublisher(client rueidis.Client, key string) *RedisPublisher {
	return &RedisPublisher{
		list: rueidisList{client: client},
		key:  key,
	}
}

func (r *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	if err := r.list.RPush(ctx, r.key, string(payload)); err != nil {
		return fmt.Errorf("push event %s: %w", event.Type, err)
	}

	return nil
}
