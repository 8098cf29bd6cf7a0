package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

func buildInfoOf(d deps.Deps) buildInfo {
	return buildInfo{Version: d.Version, Commit: d.Commit, BuildDate: d.BuildDate, GoVersion: d.GoVersion}
}

// Healthz is liveness only: it never touches Redis or NATS.
func Healthz(d deps.Deps) http.HandlerFunc {
	info := buildInfoOf(d)
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status        string  `json:"status"`
			UptimeSeconds float64 `json:"uptime_seconds"`
			buildInfo
		}{"ok", time.Since(d.StartTime).Seconds(), info})
	}
}
