package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/client"
	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

var (
	cfg        = config.LoadClient()
	jsonOutput bool

	api *client.HTTPClient
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:          "marksctl <command>",
	Short:        "CLI client for the marks bookmark service",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg.User == "" {
			return errUserRequired
		}
		api = client.NewHTTPClient(cfg.ServerURL)
		log = logger.New(cfg.LogLevel, true)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "marks server URL")
	rootCmd.PersistentFlags().StringVarP(&cfg.User, "user", "u", cfg.User, "acting user (X-Marks-User)")
	rootCmd.PersistentFlags().StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "NATS URL for the change feed")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the change feed (used when --nats is empty)")
	rootCmd.PersistentFlags().DurationVar(&cfg.FeedTimeout, "feed-timeout", cfg.FeedTimeout, "change feed subscription timeout")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "bookmarks", Title: "Bookmarks:"},
		&cobra.Group{ID: "live", Title: "Live:"},
	)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(feedLogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
