package domain

// FeedStatus is the connection health of a change feed subscription.
//
// connecting -> connected (subscription acknowledged)
// connecting -> error     (subscription failed or timed out)
//
// Both connected and error are stable until teardown.
type FeedStatus string

const (
	FeedConnecting FeedStatus = "connecting"
	FeedConnected  FeedStatus = "connected"
	FeedErrored    FeedStatus = "error"
)

// Label returns the status indicator text shown next to the list.
func (s FeedStatus) Label() string {
	switch s {
	case FeedConnected:
		return "Live: syncs across all open sessions"
	case FeedErrored:
		return "Realtime error: changes from other sessions will not appear"
	default:
		return "Connecting…"
	}
}

// CanTransition reports whether moving from s to next is allowed.
func (s FeedStatus) CanTransition(next FeedStatus) bool {
	return s == FeedConnecting && (next == FeedConnected || next == FeedErrored)
}
