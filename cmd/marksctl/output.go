package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

var errUserRequired = errors.New("no user: set MARKS_USER or pass --user")

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printBookmarkTable renders bookmarks newest first. Rows listed in deleting
// are marked while their delete request is outstanding.
func printBookmarkTable(out io.Writer, items []domain.Bookmark, now time.Time, deleting func(string) bool) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No bookmarks yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDOMAIN\tADDED")
	for _, b := range items {
		title := b.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		added := domain.TimeAgo(b.CreatedAt, now)
		if deleting != nil && deleting(b.ID) {
			added += " (deleting)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, title, domain.Domain(b.URL), added)
	}
	_ = w.Flush()
}
