// Package gateway defines the Persistence Gateway consumed by sessions:
// the durable store for bookmark records.
package gateway

import (
	"context"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Gateway is the durable store for bookmarks.
//
// Implementations assign ID and CreatedAt on Create, and scope Delete to
// the owner: deleting a missing or foreign bookmark returns domain.ErrNotFound.
type Gateway interface {
	// ListByOwner returns the owner's bookmarks, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error)
	Create(ctx context.Context, draft domain.Draft) (domain.Bookmark, error)
	Delete(ctx context.Context, id, ownerID string) error
}
