package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// listItem is the --json shape: the stored record plus display fields.
type listItem struct {
	domain.Bookmark
	Domain  string `json:"domain"`
	Favicon string `json:"favicon,omitempty"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List your bookmarks, newest first",
	GroupID: "bookmarks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := api.ListByOwner(cmd.Context(), cfg.User)
		if err != nil {
			return fmt.Errorf("listing bookmarks: %w", err)
		}

		if jsonOutput {
			return printJSON(os.Stdout, toListItems(items))
		}
		printBookmarkTable(os.Stdout, items, time.Now(), nil)
		return nil
	},
}

func toListItems(items []domain.Bookmark) []listItem {
	out := make([]listItem, 0, len(items))
	for _, b := range items {
		out = append(out, listItem{Bookmark: b, Domain: domain.Domain(b.URL), Favicon: domain.FaviconURL(b.URL)})
	}
	return out
}
