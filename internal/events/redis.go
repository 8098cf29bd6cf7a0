package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes JSON-encoded events on Redis pub/sub channels.
// The client is owned by the caller; Close does not close it.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.client.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return nil }

const redisChannelSize = 4096

// RedisSubscriber subscribes to Redis pub/sub channels.
// The client is owned by the caller; Close does not close it.
type RedisSubscriber struct {
	client *redis.Client
}

func NewRedisSubscriber(client *redis.Client) *RedisSubscriber {
	return &RedisSubscriber{client: client}
}

// Subscribe waits for Redis to confirm the subscription before returning.
// NATS-style wildcards in topic are translated to Redis glob patterns.
func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	pattern, isPattern := redisPattern(topic)

	var ps *redis.PubSub
	if isPattern {
		ps = s.client.PSubscribe(ctx, pattern)
	} else {
		ps = s.client.Subscribe(ctx, pattern)
	}

	// Receive blocks until the subscribe reply arrives (or ctx ends).
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	// go-redis buffers up to redisChannelSize messages; the forwarder below
	// blocks on the consumer instead of dropping.
	msgs := ps.Channel(redis.WithChannelSize(redisChannelSize))
	ch := make(chan []byte)
	done := make(chan struct{})

	go func() {
		defer close(ch)
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- []byte(msg.Payload):
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	return ch, cancel, nil
}

func (s *RedisSubscriber) Close() error { return nil }

// redisPattern maps "a.b.>" and "a.*.c" to Redis glob patterns.
func redisPattern(topic string) (string, bool) {
	if strings.HasSuffix(topic, ".>") {
		return strings.TrimSuffix(topic, ">") + "*", true
	}
	if strings.Contains(topic, "*") {
		return topic, true
	}
	return topic, false
}
