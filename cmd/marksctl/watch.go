package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Live view of your bookmarks, synced across sessions",
	Long:    "Opens a live session: the list re-renders on every local or remote change.\nType add <url> <title>, rm <id> or quit on stdin.",
	GroupID: "live",
	Args:    cobra.NoArgs,
	RunE:    runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, closeSub, err := openSubscriber(cfg, log)
	if err != nil {
		log.Warn("change feed unavailable, running single-session", logger.Error(err))
		sub, closeSub = nil, func() {}
	}
	defer closeSub()

	v := &view{out: os.Stdout}

	s, err := session.Open(ctx, session.Options{
		Owner:       cfg.User,
		Gateway:     api,
		Subscriber:  sub,
		Logger:      log,
		FeedTimeout: cfg.FeedTimeout,
		OnStatus:    func(domain.FeedStatus) { v.redraw() },
	})
	if err != nil {
		return err
	}
	defer s.Close()

	v.attach(s)
	if err := s.SeedErr(); err != nil {
		v.notice(domain.UserMessage(err))
	}
	s.OnChange(func([]domain.Bookmark) { v.redraw() })
	v.redraw()

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			c, err := parseCommand(line)
			if err != nil {
				v.notice(err.Error())
				continue
			}
			if c.kind == cmdQuit {
				return nil
			}
			execute(ctx, s, v, c)
		}
	}
}

func execute(ctx context.Context, s *session.Session, v *view, c command) {
	switch c.kind {
	case cmdAdd:
		// Create blocks until the server answers; run it off the input loop
		// so a slow request does not stall typing.
		go func() {
			if _, err := s.Create(ctx, c.url, c.title); err != nil {
				v.notice(domain.UserMessage(err))
			}
		}()
	case cmdRemove:
		for _, id := range c.ids {
			go func(id string) {
				if err := s.Delete(ctx, id); err != nil {
					v.notice(domain.UserMessage(err))
				}
			}(id)
		}
	case cmdRefresh:
		v.redraw()
	}
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out <- sc.Text()
	}
}

// view serializes terminal writes from the feed goroutine, request
// goroutines and the input loop.
type view struct {
	mu      sync.Mutex
	out     io.Writer
	session *session.Session
}

// attach sets the session to render. Feed callbacks may already be
// running when Open returns, so the write is guarded like the reads.
func (v *view) attach(s *session.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.session = s
}

func (v *view) redraw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.session == nil {
		return
	}
	s := v.session
	renderSession(v.out, s.Status(), feedProblem(s.Status(), s.FeedErr()), s.Items(), s.Deleting, time.Now())
}

func (v *view) notice(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "! %s\n", msg)
}

// feedProblem explains an errored feed; "" while the feed is healthy.
func feedProblem(status domain.FeedStatus, err error) string {
	if status != domain.FeedErrored {
		return ""
	}
	if err == nil {
		return "no change feed configured (pass --nats or --redis)"
	}
	return domain.UserMessage(err)
}

func renderSession(out io.Writer, status domain.FeedStatus, problem string, items []domain.Bookmark, deleting func(string) bool, now time.Time) {
	fmt.Fprintf(out, "\n[%s] %d bookmark(s)\n", status.Label(), len(items))
	if problem != "" {
		fmt.Fprintf(out, "  feed: %s\n", problem)
	}
	printBookmarkTable(out, items, now, deleting)
}
