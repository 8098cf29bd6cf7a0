package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/client"
)

var importCmd = &cobra.Command{
	Use:     "import",
	Short:   "Ask the server to run the bookmark file import now",
	GroupID: "bookmarks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := api.TriggerImport(cmd.Context(), cfg.User)
		if client.IsStatus(err, http.StatusTooManyRequests) {
			fmt.Println("Import already queued, please wait")
			return nil
		}
		if err != nil {
			return fmt.Errorf("triggering import: %w", err)
		}
		fmt.Println("Import triggered")
		return nil
	},
}
