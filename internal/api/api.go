// Package api holds the JSON bodies and headers of the marks HTTP API,
// shared by the server handlers and the client.
package api

import "github.com/MrSnakeDoc/marks/internal/domain"

// UserHeader identifies the acting user on every request.
const UserHeader = "X-Marks-User"

// CreateRequest is the POST /api/bookmarks body.
type CreateRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ListResponse is the GET /api/bookmarks body.
type ListResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
