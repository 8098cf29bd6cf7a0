package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// testHandler captures the incoming request and returns a canned response.
type testHandler struct {
	method string
	path   string
	user   string
	body   string

	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.EscapedPath()
	h.user = r.Header.Get(UserHeader)
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL + "/")
}

func TestListByOwner(t *testing.T) {
	h := &testHandler{responseBody: `{"bookmarks":[{"id":"bm-2","owner_id":"alice","url":"https://b.dev","title":"B"},{"id":"bm-1","owner_id":"alice","url":"https://a.dev","title":"A"}]}`}
	c := newTestClient(t, h)

	got, err := c.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if h.method != http.MethodGet || h.path != "/api/bookmarks" || h.user != "alice" {
		t.Errorf("request = %s %s user=%q", h.method, h.path, h.user)
	}
	if len(got) != 2 || got[0].ID != "bm-2" {
		t.Errorf("ListByOwner() = %+v, want bm-2 first", got)
	}
}

func TestListByOwnerEmpty(t *testing.T) {
	c := newTestClient(t, &testHandler{responseBody: `{"bookmarks":null}`})

	got, err := c.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListByOwner() = %#v, want empty non-nil slice", got)
	}
}

func TestCreate(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusCreated,
		responseBody: `{"id":"bm-1","owner_id":"alice","url":"https://go.dev","title":"Go","created_at":"2025-03-01T12:00:00Z"}`,
	}
	c := newTestClient(t, h)

	b, err := c.Create(context.Background(), domain.Draft{OwnerID: "alice", URL: "https://go.dev", Title: "Go"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if h.method != http.MethodPost || h.user != "alice" {
		t.Errorf("request = %s user=%q", h.method, h.user)
	}
	if !strings.Contains(h.body, `"url":"https://go.dev"`) || !strings.Contains(h.body, `"title":"Go"`) {
		t.Errorf("body = %s", h.body)
	}
	if b.ID != "bm-1" || b.CreatedAt.IsZero() {
		t.Errorf("Create() = %+v", b)
	}
}

func TestDeleteEscapesID(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c := newTestClient(t, h)

	if err := c.Delete(context.Background(), "bm/1", "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/api/bookmarks/bm%2F1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"bookmark not found"}`,
			check:  func(err error) bool { return errors.Is(err, domain.ErrNotFound) },
		},
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body:   `{"error":"Please enter a valid URL."}`,
			check: func(err error) bool {
				var v *domain.ValidationError
				return errors.As(err, &v) && v.Message == "Please enter a valid URL."
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(err error) bool {
				var apiErr *APIError
				return errors.As(err, &apiErr) && apiErr.Message == "boom"
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":"slow down"}`,
			check:  func(err error) bool { return IsStatus(err, http.StatusTooManyRequests) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &testHandler{statusCode: tt.status, responseBody: tt.body})
			err := c.Delete(context.Background(), "bm-1", "alice")
			if err == nil || !tt.check(err) {
				t.Errorf("Delete() error = %v", err)
			}
		})
	}
}

func TestTriggerImport(t *testing.T) {
	h := &testHandler{statusCode: http.StatusAccepted}
	c := newTestClient(t, h)

	if err := c.TriggerImport(context.Background(), "alice"); err != nil {
		t.Fatalf("TriggerImport() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/api/import" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}
