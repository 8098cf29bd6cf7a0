package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/idgen"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Create assigns an id and creation time, stores the bookmark and its
// owner index entry atomically, then publishes an insert event.
func (s *Store) Create(ctx context.Context, draft domain.Draft) (domain.Bookmark, error) {
	if draft.OwnerID == "" {
		return domain.Bookmark{}, fmt.Errorf("create bookmark: owner is required")
	}

	id, err := idgen.New()
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to generate bookmark id: %w", err)
	}

	bookmark := domain.Bookmark{
		ID:        id,
		OwnerID:   draft.OwnerID,
		URL:       draft.URL,
		Title:     draft.Title,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(bookmark)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BookmarkKey(id), data, 0)
		pipe.ZAdd(ctx, OwnerKey(draft.OwnerID), redis.Z{
			Score:  score(bookmark),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to save bookmark: %w", err)
	}

	s.publish(ctx, domain.InsertEvent(bookmark))
	return bookmark, nil
}

// Get retrieves a bookmark by ID
func (s *Store) Get(ctx context.Context, id string) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, domain.ErrNotFound
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return bookmark, nil
}

// ListByOwner returns the owner's bookmarks, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	ids, err := s.client.ZRevRange(ctx, OwnerKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	if len(ids) == 0 {
		return bookmarks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a record; skip it
			s.logger.Debug("skipping dangling owner index entry",
				logger.String("owner_id", ownerID),
				logger.String("bookmark_id", ids[i]))
			continue
		}
		var bookmark domain.Bookmark
		if err := json.Unmarshal([]byte(raw), &bookmark); err != nil {
			s.logger.Warn("skipping unreadable bookmark record",
				logger.String("bookmark_id", ids[i]),
				logger.Error(err))
			continue
		}
		bookmarks = append(bookmarks, bookmark)
	}

	return bookmarks, nil
}

// Delete removes a bookmark owned by ownerID and publishes a delete event.
// Missing or foreign bookmarks return domain.ErrNotFound and publish nothing.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	bookmark, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bookmark.OwnerID != ownerID {
		return domain.ErrNotFound
	}

	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, BookmarkKey(id))
		pipe.ZRem(ctx, OwnerKey(ownerID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	// A concurrent delete won the race; it already published.
	if del.Val() == 0 {
		return domain.ErrNotFound
	}

	s.publish(ctx, domain.DeleteEvent(id))
	return nil
}

// publish is best effort: the write is already durable.
func (s *Store) publish(ctx context.Context, evt domain.FeedEvent) {
	if err := events.PublishChange(ctx, s.publisher, evt); err != nil {
		s.logger.Warn("failed to publish bookmark change",
			logger.String("kind", string(evt.Kind)),
			logger.String("bookmark_id", evt.Record.ID),
			logger.Error(err))
	}
}

// score orders the owner index by creation time.
// Microseconds stay exact in a float64 score.
func score(b domain.Bookmark) float64 {
	return float64(b.CreatedAt.UnixMicro())
}
