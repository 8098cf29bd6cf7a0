package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/api"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

const maxCreateBody = 16 << 10

// ListBookmarks returns the caller's bookmarks, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := mw.User(r.Context())

		items, err := d.Gateway.ListByOwner(r.Context(), user)
		if err != nil {
			d.Logger.Error("list bookmarks failed",
				logger.String("owner_id", user),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
			return
		}

		writeJSON(w, http.StatusOK, api.ListResponse{Bookmarks: items})
	}
}

// CreateBookmark validates the request with the same rules as the client
// and stores it for the caller. The change feed announces it.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := mw.User(r.Context())

		var req api.CreateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCreateBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		draft, err := domain.NewDraft(user, req.URL, req.Title)
		if err != nil {
			writeError(w, http.StatusBadRequest, domain.UserMessage(err))
			return
		}

		b, err := d.Gateway.Create(r.Context(), draft)
		if err != nil {
			d.Logger.Error("create bookmark failed",
				logger.String("owner_id", user),
				logger.String("url", draft.URL),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create bookmark")
			return
		}

		writeJSON(w, http.StatusCreated, b)
	}
}

// DeleteBookmark deletes one of the caller's bookmarks. Foreign and missing
// ids are both 404.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := mw.User(r.Context())
		id := chi.URLParam(r, "id")

		err := d.Gateway.Delete(r.Context(), id, user)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		case err != nil:
			d.Logger.Error("delete bookmark failed",
				logger.String("owner_id", user),
				logger.String("bookmark_id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete bookmark")
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}
