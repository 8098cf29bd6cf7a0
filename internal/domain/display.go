package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Domain returns the hostname of rawURL without a leading "www.".
// Unparseable values are returned as-is.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FaviconURL returns a small favicon URL for the origin of rawURL,
// or "" when rawURL has no usable origin.
func FaviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	origin := u.Scheme + "://" + u.Host
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(origin) + "&sz=32"
}

// TimeAgo renders the age of t relative to now in a compact form.
func TimeAgo(t, now time.Time) string {
	s := int64(now.Sub(t) / time.Second)
	switch {
	case s < 60:
		return "just now"
	case s < 3600:
		return fmt.Sprintf("%dm ago", s/60)
	case s < 86400:
		return fmt.Sprintf("%dh ago", s/3600)
	default:
		return fmt.Sprintf("%dd ago", s/86400)
	}
}
