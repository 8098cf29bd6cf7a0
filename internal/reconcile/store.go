// Package reconcile keeps one session's bookmark list consistent across
// optimistic local mutations, their confirmation or failure, and the
// change feed, which echoes this session's own writes alongside changes
// made by other sessions and other users.
package reconcile

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Refetcher reloads the owner's full list from the source of truth.
type Refetcher func(ctx context.Context) ([]domain.Bookmark, error)

// Store is the authoritative in-memory view of one session's bookmarks.
//
// All entry points are serialized by a mutex, so they may be called from the
// feed goroutine, request completions and user input in any interleaving.
// After Close every mutation is a no-op.
type Store struct {
	mu sync.Mutex
	// notifyMu orders listener deliveries so the last snapshot delivered is
	// never older than one delivered before it.
	notifyMu sync.Mutex

	owner   string
	refetch Refetcher
	logger  logger.Logger

	// items is newest-first and unique by ID.
	items []domain.Bookmark
	// pending holds ids this session mutated whose feed echo has not arrived yet.
	pending map[string]struct{}
	// deleting holds ids with an outstanding delete request.
	deleting map[string]struct{}
	// rolledBack holds ids of failed creates. It swallows one late insert
	// echo per id so a rolled-back bookmark never reappears.
	rolledBack map[string]struct{}

	listeners []func([]domain.Bookmark)
	closed    bool
}

// New creates an empty store for owner. refetch may be nil, in which case a
// failed delete restores the local copy without re-syncing.
func New(owner string, refetch Refetcher, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		owner:      owner,
		refetch:    refetch,
		logger:     log.With(logger.String("owner_id", owner)),
		pending:    make(map[string]struct{}),
		deleting:   make(map[string]struct{}),
		rolledBack: make(map[string]struct{}),
	}
}

// Owner returns the session user the store filters feed inserts by.
func (s *Store) Owner() string { return s.owner }

// OnChange registers fn to be called with a snapshot after every visible change.
// Deliveries are serialized and each carries the list as of its delivery.
// fn runs with the store unlocked and may read it, but must not call a
// mutation entry point or block for long.
func (s *Store) OnChange(fn func([]domain.Bookmark)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Seed replaces the list wholesale with the initial list-by-owner result.
func (s *Store) Seed(initial []domain.Bookmark) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.items = dedupe(initial)
	s.mu.Unlock()
	s.notify()
}

// ApplyLocalCreate prepends b and marks it pending so its feed echo is
// suppressed. A second call with the same id is a no-op.
//
// If b is already present (its echo beat the create response) nothing is
// marked: no echo is left to suppress.
func (s *Store) ApplyLocalCreate(b domain.Bookmark) {
	s.mu.Lock()
	if s.closed || s.indexOf(b.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	s.prepend(b)
	s.pending[b.ID] = struct{}{}
	delete(s.rolledBack, b.ID)
	s.mu.Unlock()
	s.notify()
}

// ApplyLocalDelete removes id, marks it pending and in flight, and returns
// the removed bookmark so a failed request can restore it.
//
// When id is absent nothing is removed or marked pending, but it is still
// tracked as in flight until FinishDelete or RollbackDelete.
func (s *Store) ApplyLocalDelete(id string) (domain.Bookmark, bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Bookmark{}, false
	}
	s.deleting[id] = struct{}{}
	removed, ok := s.remove(id)
	if ok {
		s.pending[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
	return removed, ok
}

// FinishDelete clears the in-flight mark after a successful delete request.
// The pending mark stays until the echo arrives.
func (s *Store) FinishDelete(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.deleting, id)
	s.mu.Unlock()
	s.notify()
}

// RollbackCreate undoes ApplyLocalCreate after a failed create request.
// The pending mark is cleared; a late insert echo for id is still dropped.
func (s *Store) RollbackCreate(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.rolledBack[id] = struct{}{}
	s.remove(id)
	s.mu.Unlock()
	s.notify()
}

// RollbackDelete restores b after a failed delete request, then re-syncs the
// whole list from the source of truth. The in-flight mark is cleared once the
// re-sync completes; if it fails the restored local copy is kept.
func (s *Store) RollbackDelete(ctx context.Context, b domain.Bookmark) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, b.ID)
	if s.indexOf(b.ID) < 0 {
		s.insertOrdered(b)
	}
	s.mu.Unlock()
	s.notify()

	s.resync(ctx)

	s.mu.Lock()
	if !s.closed {
		delete(s.deleting, b.ID)
	}
	s.mu.Unlock()
	s.notify()
}

// resync replaces items with a fresh list. Runs without the lock held so
// feed events are not blocked behind the request.
//
// Feed events applied while the refetch is in flight are overwritten by its
// result. Inserts committed before the refetch read are included in it; a
// change committed after that read stays invisible until the next re-sync.
func (s *Store) resync(ctx context.Context) {
	if s.refetch == nil {
		return
	}
	fresh, err := s.refetch(ctx)
	if err != nil {
		s.logger.Error("re-sync after failed delete failed, keeping local copy",
			logger.Error(err))
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.items = dedupe(fresh)
	s.mu.Unlock()
	s.logger.Debug("re-synced bookmark list", logger.Int("count", len(fresh)))
}

// OnFeedEvent applies one change feed event.
//
// Echoes of this session's own mutations are suppressed by their pending
// mark. Inserts for other owners are ignored. Deletes carry only an id, so
// once not suppressed they are applied unconditionally: the gateway's
// access control is trusted not to deliver foreign deletes.
func (s *Store) OnFeedEvent(evt domain.FeedEvent) {
	id := evt.Record.ID

	s.mu.Lock()
	if s.closed || id == "" {
		s.mu.Unlock()
		return
	}

	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		s.mu.Unlock()
		s.logger.Debug("suppressed feed echo",
			logger.String("kind", string(evt.Kind)),
			logger.String("bookmark_id", id))
		return
	}

	if _, ok := s.rolledBack[id]; ok {
		delete(s.rolledBack, id)
		s.mu.Unlock()
		s.logger.Debug("dropped feed event for rolled-back create",
			logger.String("kind", string(evt.Kind)),
			logger.String("bookmark_id", id))
		return
	}

	changed := false
	switch evt.Kind {
	case domain.EventInsert:
		if evt.Record.OwnerID != s.owner {
			break
		}
		if s.indexOf(id) < 0 {
			s.prepend(evt.Record)
			changed = true
		}
	case domain.EventDelete:
		_, changed = s.remove(id)
	}
	s.mu.Unlock()

	if changed {
		s.logger.Debug("applied remote change",
			logger.String("kind", string(evt.Kind)),
			logger.String("bookmark_id", id))
		s.notify()
	}
}

// Close tears the store down. Later calls to mutation entry points are no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}

// Items returns a snapshot of the list, newest first.
func (s *Store) Items() []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of visible bookmarks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Pending reports whether id carries a pending-local mark.
func (s *Store) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// Deleting reports whether a delete request for id is outstanding.
func (s *Store) Deleting(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.deleting[id]
	return ok
}

func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed || len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	listeners := append([]func([]domain.Bookmark){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) snapshotLocked() []domain.Bookmark {
	out := make([]domain.Bookmark, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) prepend(b domain.Bookmark) {
	s.items = append([]domain.Bookmark{b}, s.items...)
}

// insertOrdered places b before the first item that is not newer than it.
func (s *Store) insertOrdered(b domain.Bookmark) {
	i := 0
	for i < len(s.items) && s.items[i].CreatedAt.After(b.CreatedAt) {
		i++
	}
	s.items = append(s.items, domain.Bookmark{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = b
}

func (s *Store) remove(id string) (domain.Bookmark, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Bookmark{}, false
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, true
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(in []domain.Bookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, b := range in {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
