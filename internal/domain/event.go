package domain

// EventKind is the type of change reported by the change feed.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventDelete EventKind = "delete"
)

// FeedEvent is one change delivered by the change feed.
// For inserts Record is the full row; for deletes only Record.ID is guaranteed.
type FeedEvent struct {
	Kind   EventKind `json:"kind"`
	Record Bookmark  `json:"record"`
}

// InsertEvent builds the feed event for a newly created bookmark.
func InsertEvent(b Bookmark) FeedEvent {
	return FeedEvent{Kind: EventInsert, Record: b}
}

// DeleteEvent builds the feed event for a deleted bookmark.
// Only the id is carried.
func DeleteEvent(id string) FeedEvent {
	return FeedEvent{Kind: EventDelete, Record: Bookmark{ID: id}}
}

// Valid reports whether the event has a known kind and an id.
func (e FeedEvent) Valid() bool {
	if e.Record.ID == "" {
		return false
	}
	return e.Kind == EventInsert || e.Kind == EventDelete
}
