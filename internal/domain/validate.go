package domain

import (
	"net/url"
	"strings"
)

const (
	msgRequired   = "Both URL and title are required."
	msgInvalidURL = "Please enter a valid URL."
)

// NewDraft validates and normalizes user input for a create request.
// It never touches the network.
func NewDraft(ownerID, rawURL, title string) (Draft, error) {
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)
	if title == "" {
		return Draft{}, &ValidationError{Field: "title", Message: msgRequired}
	}
	if rawURL == "" {
		return Draft{}, &ValidationError{Field: "url", Message: msgRequired}
	}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return Draft{}, err
	}

	return Draft{OwnerID: ownerID, URL: normalized, Title: title}, nil
}

// NormalizeURL prefixes bare domains with https:// and checks that the
// result parses as an absolute URL.
//
//	"example.com"  -> "https://example.com"
//	"not a url"    -> ValidationError
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &ValidationError{Field: "url", Message: msgRequired}
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", &ValidationError{Field: "url", Message: msgInvalidURL}
	}

	return s, nil
}
