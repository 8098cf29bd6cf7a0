package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// NATSPublisher publishes JSON-encoded events to NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("marks-publisher"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(topic, data)
}

// Connected reports whether the underlying connection is up.
func (p *NATSPublisher) Connected() bool {
	return p.conn.IsConnected()
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// Pending limits for a NATS subscription. Beyond them the client drops
// messages as a slow consumer.
const (
	natsPendingMsgs  = 1 << 16
	natsPendingBytes = 256 << 20
)

// NATSSubscriber subscribes to events from NATS subjects.
type NATSSubscriber struct {
	conn   *nats.Conn
	logger logger.Logger
}

// NewNATSSubscriber connects to NATS with automatic reconnection support.
// Extra nats.Option values (e.g. disconnect/reconnect handlers) can be appended.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	defaults := []nats.Option{
		nats.Name("marks-subscriber"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSSubscriber{conn: nc, logger: logger.Nop()}, nil
}

// WithLogger sets the logger used to report dropped messages.
func (s *NATSSubscriber) WithLogger(log logger.Logger) *NATSSubscriber {
	if log != nil {
		s.logger = log
	}
	return s
}

// Subscribe returns a channel that receives raw event payloads for the given
// topic (supports NATS wildcards like "marks.bookmarks.>"). The subscription
// is flushed to the server before returning, so ctx bounds the acknowledgement.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	ch := make(chan []byte)
	done := make(chan struct{})

	var (
		mu       sync.Mutex
		closed   bool
		inflight sync.WaitGroup
		once     sync.Once
		dropped  atomic.Int64
	)

	// The handler blocks until the consumer takes the payload; meanwhile
	// NATS queues further messages up to the pending limits.
	sub, err := s.conn.Subscribe(topic, func(msg *nats.Msg) {
		mu.Lock()
		if closed {
			mu.Unlock()
			return
		}
		inflight.Add(1)
		mu.Unlock()
		defer inflight.Done()

		if n, err := msg.Sub.Dropped(); err == nil && int64(n) > dropped.Load() {
			prev := dropped.Swap(int64(n))
			s.logger.Warn("NATS slow consumer dropped feed events",
				logger.String("topic", topic),
				logger.Int("dropped", n-int(prev)))
		}

		select {
		case ch <- msg.Data:
		case <-done:
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	if err := sub.SetPendingLimits(natsPendingMsgs, natsPendingBytes); err != nil {
		s.logger.Warn("setting NATS pending limits", logger.Error(err))
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			close(done)
			mu.Lock()
			closed = true
			mu.Unlock()
			inflight.Wait()
			close(ch)
		})
	}

	if err := s.flush(ctx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	return ch, cancel, nil
}

// flush bounds the round trip by ctx. FlushWithContext refuses contexts
// without a deadline, so those fall back to the connection timeout.
func (s *NATSSubscriber) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		return s.conn.FlushWithContext(ctx)
	}
	return s.conn.Flush()
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
