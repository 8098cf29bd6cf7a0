// Package submit bridges user intent to the gateway and drives the
// reconciliation store's optimistic apply and rollback operations.
package submit

import (
	"context"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/gateway"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/reconcile"
)

// Submitter issues create and delete requests for one owner.
// Requests are never retried.
type Submitter struct {
	owner   string
	gateway gateway.Gateway
	store   *reconcile.Store
	logger  logger.Logger
}

func New(owner string, gw gateway.Gateway, store *reconcile.Store, log logger.Logger) *Submitter {
	if log == nil {
		log = logger.Nop()
	}
	return &Submitter{
		owner:   owner,
		gateway: gw,
		store:   store,
		logger:  log,
	}
}

// Create validates the input, creates the bookmark through the gateway and
// applies the confirmed record to the store.
//
// Invalid input returns a *domain.ValidationError without touching the
// gateway or the store. A gateway failure returns a *domain.ServiceError and
// leaves the store unchanged.
func (s *Submitter) Create(ctx context.Context, rawURL, title string) (domain.Bookmark, error) {
	draft, err := domain.NewDraft(s.owner, rawURL, title)
	if err != nil {
		return domain.Bookmark{}, err
	}

	record, err := s.gateway.Create(ctx, draft)
	if err != nil {
		s.logger.Error("create bookmark failed",
			logger.String("url", draft.URL),
			logger.Error(err))
		return domain.Bookmark{}, domain.NewServiceError("create", err)
	}

	s.store.ApplyLocalCreate(record)
	s.logger.Debug("bookmark created", logger.String("bookmark_id", record.ID))
	return record, nil
}

// Delete removes id from the store first, then asks the gateway to delete it.
// On failure the removed bookmark is restored and the list re-synced.
func (s *Submitter) Delete(ctx context.Context, id string) error {
	removed, ok := s.store.ApplyLocalDelete(id)

	if err := s.gateway.Delete(ctx, id, s.owner); err != nil {
		s.logger.Error("delete bookmark failed",
			logger.String("bookmark_id", id),
			logger.Error(err))
		if ok {
			s.store.RollbackDelete(ctx, removed)
		} else {
			s.store.FinishDelete(id)
		}
		return domain.NewServiceError("delete", err)
	}

	s.store.FinishDelete(id)
	return nil
}
