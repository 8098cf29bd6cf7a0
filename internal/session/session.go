// Package session wires one authenticated view of a user's bookmarks:
// the reconciliation store, its submitter and the change feed subscription.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/feed"
	"github.com/MrSnakeDoc/marks/internal/gateway"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/reconcile"
	"github.com/MrSnakeDoc/marks/internal/submit"
)

type Options struct {
	Owner      string
	Gateway    gateway.Gateway
	Subscriber events.Subscriber
	Logger     logger.Logger

	// FeedTimeout bounds the subscription acknowledgement.
	FeedTimeout time.Duration
	// OnStatus is called on every feed status transition.
	OnStatus func(domain.FeedStatus)
}

type Session struct {
	owner     string
	store     *reconcile.Store
	submitter *submit.Submitter
	sub       *feed.Subscription
	logger    logger.Logger

	// seedErr is the initial list failure, if any.
	seedErr error
}

// Open seeds the list from the gateway and then subscribes to the change
// feed. A failed initial list leaves the session empty but usable, and a
// failing feed only degrades it to single-session mode: neither fails Open.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Owner == "" {
		return nil, errors.New("session: owner is required")
	}
	if opts.Gateway == nil {
		return nil, errors.New("session: gateway is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.String("owner_id", opts.Owner))

	gw := opts.Gateway
	owner := opts.Owner
	refetch := func(ctx context.Context) ([]domain.Bookmark, error) {
		return gw.ListByOwner(ctx, owner)
	}

	s := &Session{
		owner:  owner,
		store:  reconcile.New(owner, refetch, log),
		logger: log,
	}
	s.submitter = submit.New(owner, gw, s.store, log)

	initial, err := gw.ListByOwner(ctx, owner)
	if err != nil {
		s.seedErr = domain.NewServiceError("list", err)
		log.Error("initial bookmark list failed, starting empty", logger.Error(err))
		initial = nil
	}
	s.store.Seed(initial)

	// The subscription starts after seeding so no de-duplication state is
	// needed for the initial list.
	if opts.Subscriber != nil {
		s.sub = feed.Start(context.WithoutCancel(ctx), opts.Subscriber, s.store.OnFeedEvent, feed.Options{
			Timeout:  opts.FeedTimeout,
			Logger:   log,
			OnStatus: opts.OnStatus,
		})
	} else {
		log.Warn("no change feed configured, changes from other sessions will not appear")
	}

	return s, nil
}

func (s *Session) Owner() string { return s.owner }

// Items returns the visible list, newest first.
func (s *Session) Items() []domain.Bookmark { return s.store.Items() }

// Deleting reports whether a delete for id is still outstanding.
func (s *Session) Deleting(id string) bool { return s.store.Deleting(id) }

// Status returns the feed status. A session without a feed reports error.
func (s *Session) Status() domain.FeedStatus {
	if s.sub == nil {
		return domain.FeedErrored
	}
	return s.sub.Status()
}

// FeedErr returns the feed failure, if any.
func (s *Session) FeedErr() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Err()
}

// SeedErr returns the initial list failure, if any.
func (s *Session) SeedErr() error { return s.seedErr }

func (s *Session) OnChange(fn func([]domain.Bookmark)) { s.store.OnChange(fn) }

func (s *Session) Create(ctx context.Context, rawURL, title string) (domain.Bookmark, error) {
	return s.submitter.Create(ctx, rawURL, title)
}

func (s *Session) Delete(ctx context.Context, id string) error {
	return s.submitter.Delete(ctx, id)
}

// Close releases the feed subscription and tears down the store. Request
// completions arriving afterwards are no-ops.
func (s *Session) Close() {
	if s.sub != nil {
		s.sub.Close()
	}
	s.store.Close()
	s.logger.Debug("session closed")
}
