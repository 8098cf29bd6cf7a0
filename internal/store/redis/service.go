package redis

import (
	"time"

	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/gateway"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Store is the Redis-backed persistence gateway.
// Every successful mutation is published on the change feed.
type Store struct {
	client    *redis.Client
	publisher events.Publisher
	logger    logger.Logger
	now       func() time.Time
}

var _ gateway.Gateway = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a new Redis store. A nil publisher disables the change feed.
func NewStore(client *redis.Client, publisher events.Publisher, log logger.Logger, opts ...Option) *Store {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		client:    client,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
