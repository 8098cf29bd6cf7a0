package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/api"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// UserHeader carries the authenticated user id, set by the fronting proxy.
const UserHeader = api.UserHeader

type ctxKey struct{}

// RequireUser rejects requests without a user with 401 and stores the user
// in the request context otherwise.
func RequireUser(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := strings.TrimSpace(r.Header.Get(UserHeader))
			if user == "" {
				log.Debug("RequireUser: missing user header", logger.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
		})
	}
}

// User returns the user stored by RequireUser, or "".
func User(ctx context.Context) string {
	u, _ := ctx.Value(ctxKey{}).(string)
	return u
}
