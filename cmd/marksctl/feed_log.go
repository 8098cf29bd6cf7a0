package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/events"
	"github.com/MrSnakeDoc/marks/internal/feed"
)

var feedLogCmd = &cobra.Command{
	Use:     "feed-log",
	Short:   "Print every change feed event, for all owners",
	GroupID: "live",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sub, closeSub, err := requireSubscriber(cfg, log)
		if err != nil {
			return err
		}
		defer closeSub()

		sink := func(evt domain.FeedEvent) {
			if jsonOutput {
				_ = printJSON(os.Stdout, evt)
				return
			}
			fmt.Println(formatEvent(evt, time.Now()))
		}

		subscription := feed.Start(ctx, sub, sink, feed.Options{
			Topic:   events.TopicBookmarksAll,
			Timeout: cfg.FeedTimeout,
			Logger:  log,
			OnStatus: func(s domain.FeedStatus) {
				fmt.Fprintf(os.Stderr, "[%s]\n", s.Label())
			},
		})
		defer subscription.Close()

		<-ctx.Done()
		return nil
	},
}

func formatEvent(evt domain.FeedEvent, now time.Time) string {
	ts := now.Format("15:04:05")
	if evt.Kind == domain.EventDelete {
		return fmt.Sprintf("%s  delete  %s", ts, evt.Record.ID)
	}
	r := evt.Record
	return fmt.Sprintf("%s  insert  %s  owner=%s  %s  %q", ts, r.ID, r.OwnerID, r.URL, r.Title)
}
