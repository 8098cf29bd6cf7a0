package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

var addCmd = &cobra.Command{
	Use:     "add <url> <title...>",
	Short:   "Save a bookmark",
	GroupID: "bookmarks",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := domain.NewDraft(cfg.User, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return errors.New(domain.UserMessage(err))
		}

		b, err := api.Create(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("saving bookmark: %w", err)
		}

		if jsonOutput {
			return printJSON(os.Stdout, b)
		}
		fmt.Printf("Saved %s (%s)\n", b.ID, b.URL)
		return nil
	},
}
