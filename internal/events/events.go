// Package events carries bookmark change events between the gateway and
// live sessions. The feed is table-level: it is not filtered by owner.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Topic constants. Dot-separated so they work as NATS subjects and as
// Redis pub/sub channel names.
const (
	TopicBookmarkInsert = "marks.bookmarks.insert"
	TopicBookmarkDelete = "marks.bookmarks.delete"

	// TopicBookmarksAll matches every bookmark change (NATS wildcard syntax).
	TopicBookmarksAll = "marks.bookmarks.>"
)

// TopicFor returns the topic a feed event is published on.
func TopicFor(kind domain.EventKind) string {
	if kind == domain.EventDelete {
		return TopicBookmarkDelete
	}
	return TopicBookmarkInsert
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel once the
	// subscription is acknowledged by the bus. Call the returned cancel
	// function to unsubscribe and close the channel.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
	Close() error
}

// PublishChange publishes a feed event on its topic.
func PublishChange(ctx context.Context, p Publisher, evt domain.FeedEvent) error {
	return p.Publish(ctx, TopicFor(evt.Kind), evt)
}

// DecodeChange parses a raw payload into a feed event.
func DecodeChange(data []byte) (domain.FeedEvent, error) {
	var evt domain.FeedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return domain.FeedEvent{}, fmt.Errorf("decoding feed event: %w", err)
	}
	if !evt.Valid() {
		return domain.FeedEvent{}, fmt.Errorf("invalid feed event: kind=%q id=%q", evt.Kind, evt.Record.ID)
	}
	return evt, nil
}
