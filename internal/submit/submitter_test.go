package submit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/reconcile"
)

const owner = "user-1"

type fakeGateway struct {
	mu        sync.Mutex
	rows      []domain.Bookmark
	createErr error
	deleteErr error
	creates   []domain.Draft
	deletes   []string
	lists     int
	seq       int
}

func (f *fakeGateway) ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	out := []domain.Bookmark{}
	for _, b := range f.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeGateway) Create(ctx context.Context, draft domain.Draft) (domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, draft)
	if f.createErr != nil {
		return domain.Bookmark{}, f.createErr
	}
	f.seq++
	b := domain.Bookmark{
		ID:        "bm-" + string(rune('a'+f.seq-1)),
		OwnerID:   draft.OwnerID,
		URL:       draft.URL,
		Title:     draft.Title,
		CreatedAt: time.Date(2025, 3, 1, 12, f.seq, 0, 0, time.UTC),
	}
	f.rows = append([]domain.Bookmark{b}, f.rows...)
	return b, nil
}

func (f *fakeGateway) Delete(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func newSubmitter(gw *fakeGateway) (*Submitter, *reconcile.Store) {
	store := reconcile.New(owner, func(ctx context.Context) ([]domain.Bookmark, error) {
		return gw.ListByOwner(ctx, owner)
	}, nil)
	return New(owner, gw, store, nil), store
}

func TestCreate(t *testing.T) {
	gw := &fakeGateway{}
	sub, store := newSubmitter(gw)

	b, err := sub.Create(context.Background(), "  example.com ", "  Example ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(gw.creates) != 1 {
		t.Fatalf("gateway creates = %d, want 1", len(gw.creates))
	}
	want := domain.Draft{OwnerID: owner, URL: "https://example.com", Title: "Example"}
	if gw.creates[0] != want {
		t.Errorf("submitted draft = %+v, want %+v", gw.creates[0], want)
	}
	items := store.Items()
	if len(items) != 1 || items[0].ID != b.ID {
		t.Errorf("store items = %v, want [%s]", items, b.ID)
	}
	if !store.Pending(b.ID) {
		t.Errorf("Pending(%s) = false, want true", b.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		title string
		msg   string
	}{
		{"empty title", "example.com", "  ", "Both URL and title are required."},
		{"empty url", "", "Example", "Both URL and title are required."},
		{"invalid url", "not a url", "Example", "Please enter a valid URL."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			sub, store := newSubmitter(gw)

			_, err := sub.Create(context.Background(), tt.url, tt.title)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if verr.Message != tt.msg {
				t.Errorf("Message = %q, want %q", verr.Message, tt.msg)
			}
			if len(gw.creates) != 0 {
				t.Errorf("gateway creates = %d, want 0", len(gw.creates))
			}
			if store.Len() != 0 {
				t.Errorf("store Len() = %d, want 0", store.Len())
			}
		})
	}
}

func TestCreateGatewayFailure(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("connection refused")}
	sub, store := newSubmitter(gw)

	_, err := sub.Create(context.Background(), "https://x.com", "X")
	var serr *domain.ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("Create() error = %v, want ServiceError", err)
	}
	if serr.Message != "Error: connection refused" {
		t.Errorf("Message = %q, want %q", serr.Message, "Error: connection refused")
	}
	if len(gw.creates) != 1 {
		t.Errorf("gateway creates = %d, want 1 (no retry)", len(gw.creates))
	}
	if store.Len() != 0 {
		t.Errorf("store Len() = %d, want 0", store.Len())
	}
}

func TestDelete(t *testing.T) {
	gw := &fakeGateway{}
	sub, store := newSubmitter(gw)
	b, _ := sub.Create(context.Background(), "https://x.com", "X")

	if err := sub.Delete(context.Background(), b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store Len() = %d, want 0", store.Len())
	}
	if store.Deleting(b.ID) {
		t.Error("Deleting() = true after success, want false")
	}
	if len(gw.deletes) != 1 || gw.deletes[0] != b.ID {
		t.Errorf("gateway deletes = %v, want [%s]", gw.deletes, b.ID)
	}
}

func TestDeleteFailureRollsBack(t *testing.T) {
	gw := &fakeGateway{}
	sub, store := newSubmitter(gw)
	a, _ := sub.Create(context.Background(), "https://a.com", "A")
	b, _ := sub.Create(context.Background(), "https://b.com", "B")
	gw.deleteErr = errors.New("timeout")

	err := sub.Delete(context.Background(), a.ID)
	var serr *domain.ServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("Delete() error = %v, want ServiceError", err)
	}

	items := store.Items()
	if len(items) != 2 || items[0].ID != b.ID || items[1].ID != a.ID {
		t.Errorf("store items = %v, want [%s %s]", items, b.ID, a.ID)
	}
	if gw.lists != 1 {
		t.Errorf("re-sync lists = %d, want 1", gw.lists)
	}
	if store.Deleting(a.ID) || store.Pending(a.ID) {
		t.Error("rollback left in-flight or pending marks set")
	}
	if len(gw.deletes) != 1 {
		t.Errorf("gateway deletes = %d, want 1 (no retry)", len(gw.deletes))
	}
}

func TestDeleteAppliesLocallyBeforeRequest(t *testing.T) {
	gw := &fakeGateway{}
	sub, store := newSubmitter(gw)
	b, _ := sub.Create(context.Background(), "https://x.com", "X")

	probe := &probeGateway{fakeGateway: gw, store: store}
	sub.gateway = probe
	_ = sub.Delete(context.Background(), b.ID)

	if probe.lenAtDelete != 0 {
		t.Errorf("store Len() during request = %d, want 0", probe.lenAtDelete)
	}
	if !probe.deletingAtDelete {
		t.Error("Deleting() during request = false, want true")
	}
}

type probeGateway struct {
	*fakeGateway
	store            *reconcile.Store
	lenAtDelete      int
	deletingAtDelete bool
}

func (p *probeGateway) Delete(ctx context.Context, id, ownerID string) error {
	p.lenAtDelete = p.store.Len()
	p.deletingAtDelete = p.store.Deleting(id)
	return p.fakeGateway.Delete(ctx, id, ownerID)
}
