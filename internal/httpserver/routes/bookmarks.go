package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
)

func init() { Register("bookmarks", registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.RateBurst,
		PerMin:     d.RatePerMin,
		MaxEntries: 10000,
		TrustProxy: d.TrustProxy,
		KeyByUser:  true,
	})

	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RequireUser(d.Logger))
		r.Get("/", handlers.ListBookmarks(d))
		r.With(limit).Post("/", handlers.CreateBookmark(d))
		r.With(limit).Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
