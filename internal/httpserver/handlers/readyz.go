package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports ready once the durable store answers. The change feed is
// not required: writes keep working without it.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st := checkRedis(r.Context(), d); !st.OK {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Error: "redis: " + st.Error})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
