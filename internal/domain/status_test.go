package domain

import "testing"

func TestFeedStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to FeedStatus
		want     bool
	}{
		{FeedConnecting, FeedConnected, true},
		{FeedConnecting, FeedErrored, true},
		{FeedErrored, FeedConnecting, false},
		{FeedErrored, FeedConnected, false},
		{FeedConnected, FeedErrored, false},
		{FeedConnected, FeedConnecting, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s.CanTransition(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFeedEventValid(t *testing.T) {
	if !InsertEvent(Bookmark{ID: "a"}).Valid() {
		t.Error("insert event with id should be valid")
	}
	if !DeleteEvent("a").Valid() {
		t.Error("delete event with id should be valid")
	}
	if DeleteEvent("").Valid() {
		t.Error("delete event without id should be invalid")
	}
	if (FeedEvent{Kind: "update", Record: Bookmark{ID: "a"}}).Valid() {
		t.Error("unknown kind should be invalid")
	}
}
