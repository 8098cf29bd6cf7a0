package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	LastImport string `json:"last_import,omitempty"`
	Imported   *int   `json:"imported,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	SyncMode   string                     `json:"sync_mode"`
	Components map[string]componentStatus `json:"components"`
	Build      buildInfo                  `json:"build"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"redis":  checkRedis(r.Context(), d),
			"nats":   checkNATS(d),
			"import": importStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			SyncMode:   determineSyncMode(components),
			Components: components,
			Build:      buildInfoOf(d),
		})
	}
}

// determineSyncMode summarizes what live sessions can expect.
func determineSyncMode(components map[string]componentStatus) string {
	if !components["redis"].OK {
		// Redis is both the store and the primary feed
		return "down"
	}
	if nats, ok := components["nats"]; ok && nats.Mode != "disabled" && !nats.OK {
		return "degraded"
	}
	return "live"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: false, Error: "client not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "bookmarks-unavailable",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "store+pubsub"}
}

func checkNATS(d deps.Deps) componentStatus {
	if d.NATS == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	if !d.NATS.Connected() {
		return componentStatus{
			OK:     false,
			Mode:   "reconnecting",
			Impact: "nats-sessions-not-live",
		}
	}
	return componentStatus{OK: true, Mode: "connected"}
}

func importStatus(d deps.Deps) componentStatus {
	if d.Importer == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	last := d.Importer.Last()
	st := componentStatus{OK: last.Failed == 0, Mode: "file", LastImport: "never"}
	if !last.At.IsZero() {
		st.LastImport = last.At.Format("2006-01-02 15:04:05")
		created := last.Created
		st.Imported = &created
	}
	return st
}
