package domain

import "time"

// Bookmark is a single saved URL owned by one user.
//
// Bookmarks are immutable once created: the only mutations the
// system knows about are create and delete.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (assigned by the gateway)
	// ─────────────────────────────

	// ID is the opaque unique identifier.
	// Clients never invent one.
	ID string `json:"id"`

	// OwnerID identifies the owning user.
	// Set once at creation, never changes.
	OwnerID string `json:"owner_id,omitempty"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is the normalized absolute URL.
	// Example: https://go.dev/doc/
	URL string `json:"url,omitempty"`

	// Title is the trimmed, non-empty display string.
	Title string `json:"title,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned by the gateway.
	// Used for display and list ordering only.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Draft is a validated create request, ready to be submitted to a gateway.
type Draft struct {
	OwnerID string `json:"owner_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
}
