package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/client"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
	storeredis "github.com/MrSnakeDoc/marks/internal/store/redis"
)

type testEnv struct {
	srv     *httptest.Server
	client  *client.HTTPClient
	mr      *miniredis.Miniredis
	trigger chan struct{}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2, DisableIdentity: true})
	t.Cleanup(func() { _ = rc.Close() })

	trigger := make(chan struct{}, 1)
	d := deps.Deps{
		Logger:        logger.Nop(),
		StartTime:     time.Now(),
		Version:       "test",
		RateBurst:     100,
		RatePerMin:    100,
		RedisClient:   rc,
		Gateway:       storeredis.NewStore(rc, events.NewRedisPublisher(rc), nil),
		ImportTrigger: trigger,
	}

	srv := httptest.NewServer(NewRouter(logger.Nop(), d))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, client: client.NewHTTPClient(srv.URL), mr: mr, trigger: trigger}
}

func TestBookmarksAPI(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.client.Create(ctx, domain.Draft{OwnerID: "alice", URL: "go.dev", Title: " Go "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.URL != "https://go.dev" || a.Title != "Go" || a.OwnerID != "alice" {
		t.Errorf("Create() = %+v, want normalized record owned by alice", a)
	}
	b, err := env.client.Create(ctx, domain.Draft{OwnerID: "alice", URL: "https://pkg.go.dev", Title: "Packages"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items, err := env.client.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != b.ID {
		t.Errorf("ListByOwner() = %+v, want newest (%s) first", items, b.ID)
	}

	if others, _ := env.client.ListByOwner(ctx, "bob"); len(others) != 0 {
		t.Errorf("bob sees %d bookmarks, want 0", len(others))
	}

	if err := env.client.Delete(ctx, a.ID, "bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign Delete() error = %v, want ErrNotFound", err)
	}
	if err := env.client.Delete(ctx, a.ID, "alice"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := env.client.Delete(ctx, a.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.Create(context.Background(), domain.Draft{OwnerID: "alice", URL: "not a url", Title: "X"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Please enter a valid URL." {
		t.Errorf("Create() error = %v, want ValidationError", err)
	}

	resp, err := http.Post(env.srv.URL+"/api/bookmarks", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no user status = %d, want 401", resp.StatusCode)
	}
}

func TestImportTrigger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.client.TriggerImport(ctx, "alice"); err != nil {
		t.Fatalf("TriggerImport() error = %v", err)
	}
	if err := env.client.TriggerImport(ctx, "alice"); !client.IsStatus(err, http.StatusTooManyRequests) {
		t.Errorf("second TriggerImport() error = %v, want 429", err)
	}
	<-env.trigger
}

func TestOpsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&health)
	_ = resp.Body.Close()
	if health.Status != "ok" || health.Version != "test" {
		t.Errorf("healthz = %+v", health)
	}

	resp, err = http.Get(env.srv.URL + "/infra")
	if err != nil {
		t.Fatal(err)
	}
	var infra struct {
		SyncMode string `json:"sync_mode"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&infra)
	_ = resp.Body.Close()
	if infra.SyncMode != "live" {
		t.Errorf("infra sync_mode = %q, want live", infra.SyncMode)
	}

	resp, err = http.Get(env.srv.URL + "/readyz")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", resp.StatusCode)
	}

	env.mr.Close()
	resp, err = http.Get(env.srv.URL + "/readyz")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("readyz with redis down status = %d, want 503", resp.StatusCode)
	}
}
