// Package feed manages one subscription to the bookmark change feed and
// reports its connection health.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// DefaultTimeout bounds how long the subscription may stay connecting.
const DefaultTimeout = 10 * time.Second

// ErrTimeout is wrapped by the FeedError of a subscription that was not
// acknowledged in time.
var ErrTimeout = errors.New("subscription not acknowledged in time")

// Sink receives every decoded feed event. Owner filtering is the sink's job.
type Sink func(domain.FeedEvent)

type Options struct {
	// Topic defaults to events.TopicBookmarksAll.
	Topic string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	Logger  logger.Logger
	// OnStatus is called once per status transition.
	OnStatus func(domain.FeedStatus)
}

// Subscription is one live subscription to the change feed.
//
// It starts in connecting and moves to connected once the transport
// acknowledges it, or to error when subscribing fails or times out. There is
// no transition out of error.
type Subscription struct {
	subscriber events.Subscriber
	sink       Sink
	topic      string
	timeout    time.Duration
	logger     logger.Logger

	mu       sync.Mutex
	status   domain.FeedStatus
	err      error
	onStatus func(domain.FeedStatus)
	release  func()
	closed   bool

	stop      context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Start subscribes in the background and returns immediately in the
// connecting state. Events are delivered to sink from a single goroutine,
// in the order the transport delivers them.
func Start(ctx context.Context, subscriber events.Subscriber, sink Sink, opts Options) *Subscription {
	if opts.Topic == "" {
		opts.Topic = events.TopicBookmarksAll
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	runCtx, stop := context.WithCancel(ctx)
	s := &Subscription{
		subscriber: subscriber,
		sink:       sink,
		topic:      opts.Topic,
		timeout:    opts.Timeout,
		logger:     opts.Logger.With(logger.String("topic", opts.Topic)),
		status:     domain.FeedConnecting,
		onStatus:   opts.OnStatus,
		stop:       stop,
		done:       make(chan struct{}),
	}

	go s.run(runCtx)
	return s
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)

	subCtx, cancel := context.WithTimeout(ctx, s.timeout)
	ch, release, err := s.subscriber.Subscribe(subCtx, s.topic)
	timedOut := errors.Is(subCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err != nil {
		if ctx.Err() != nil && !timedOut {
			// closed while connecting
			return
		}
		if timedOut {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		s.fail(err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		release()
		return
	}
	s.release = release
	s.mu.Unlock()

	s.transition(domain.FeedConnected, nil)
	s.logger.Info("change feed connected")

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			evt, err := events.DecodeChange(data)
			if err != nil {
				s.logger.Warn("dropping malformed feed event", logger.Error(err))
				continue
			}
			s.sink(evt)
		}
	}
}

func (s *Subscription) fail(err error) {
	s.logger.Error("change feed subscription failed", logger.Error(err))
	s.transition(domain.FeedErrored, &domain.FeedError{Status: domain.FeedErrored, Err: err})
}

func (s *Subscription) transition(next domain.FeedStatus, err error) {
	s.mu.Lock()
	if s.closed || !s.status.CanTransition(next) {
		s.mu.Unlock()
		return
	}
	s.status = next
	s.err = err
	fn := s.onStatus
	s.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}

// Status returns the current connection health.
func (s *Subscription) Status() domain.FeedStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the *domain.FeedError once the subscription is in error.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the transport subscription exactly once and waits for the
// delivery goroutine to exit. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		release := s.release
		s.release = nil
		s.mu.Unlock()

		s.stop()
		if release != nil {
			release()
		}
		<-s.done
		s.logger.Debug("change feed released")
	})
}
