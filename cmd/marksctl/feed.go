package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// openSubscriber connects to the configured change feed, NATS first.
// It returns a nil subscriber when no feed is configured.
func openSubscriber(c *config.ClientConfig, log logger.Logger) (events.Subscriber, func(), error) {
	switch {
	case c.NATSURL != "":
		sub, err := events.NewNATSSubscriber(c.NATSURL)
		if err != nil {
			return nil, nil, err
		}
		sub.WithLogger(log)
		log.Debug("change feed over NATS", logger.String("url", c.NATSURL))
		return sub, func() { _ = sub.Close() }, nil

	case c.RedisAddr != "":
		rc := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		log.Debug("change feed over Redis pub/sub", logger.String("addr", c.RedisAddr))
		sub := events.NewRedisSubscriber(rc)
		return sub, func() { _ = sub.Close(); _ = rc.Close() }, nil
	}
	return nil, func() {}, nil
}

func requireSubscriber(c *config.ClientConfig, log logger.Logger) (events.Subscriber, func(), error) {
	sub, closeFn, err := openSubscriber(c, log)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, fmt.Errorf("no change feed configured: pass --nats or --redis")
	}
	return sub, closeFn, nil
}
