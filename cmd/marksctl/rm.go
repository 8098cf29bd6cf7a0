package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Short:   "Delete bookmarks",
	GroupID: "bookmarks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, id := range args {
			err := api.Delete(cmd.Context(), id, cfg.User)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				fmt.Fprintf(os.Stderr, "%s: not found\n", id)
				failed++
			case err != nil:
				fmt.Fprintf(os.Stderr, "%s: %v\n", id, err)
				failed++
			default:
				fmt.Printf("Deleted %s\n", id)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d deletes failed", failed, len(args))
		}
		return nil
	},
}
