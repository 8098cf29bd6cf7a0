package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/gateway"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/sources/importfile"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Created  int
	Existing int
	Skipped  int
	Failed   int
	At       time.Time
}

// ImportReloader periodically imports the bookmark file through the gateway.
// Bookmarks go through the regular create path, so live sessions receive
// them on the change feed.
type ImportReloader struct {
	loader        *importfile.Loader
	gateway       gateway.Gateway
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu   sync.Mutex
	last ImportResult
}

// NewImportReloader creates a new import reloader. manualTrigger may be nil.
func NewImportReloader(
	importFile string,
	gw gateway.Gateway,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ImportReloader {
	return &ImportReloader{
		loader:        importfile.NewLoader(importFile),
		gateway:       gw,
		logger:        log.With(logger.String("file", importFile)),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the import once, then keeps running it on every tick and every
// manual trigger until Stop or ctx ends. A failed first run is logged and
// does not prevent the schedule from starting.
func (r *ImportReloader) Start(ctx context.Context) {
	if _, err := r.Reload(ctx); err != nil {
		r.logger.Error("initial import failed", logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reloadLogged(ctx)
			case <-r.manualTrigger:
				r.logger.Info("manual import triggered")
				r.reloadLogged(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the schedule. Safe to call more than once.
func (r *ImportReloader) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Last returns the result of the most recent run.
func (r *ImportReloader) Last() ImportResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *ImportReloader) reloadLogged(ctx context.Context) {
	if _, err := r.Reload(ctx); err != nil {
		r.logger.Error("failed to import bookmarks", logger.Error(err))
	}
}

// Reload loads the file and creates every valid bookmark the owner does not
// already have (compared by normalized URL).
func (r *ImportReloader) Reload(ctx context.Context) (ImportResult, error) {
	r.logger.Info("importing bookmarks")

	file, err := r.loader.Load()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to load import file: %w", err)
	}

	drafts, skipped := importfile.Map(file)
	res := ImportResult{Skipped: len(skipped)}
	for _, s := range skipped {
		r.logger.Warn("skipping import entry",
			logger.String("owner_id", s.Owner),
			logger.String("title", s.Title),
			logger.String("url", s.URL),
			logger.String("reason", s.Reason))
	}

	for owner, list := range drafts {
		existing, err := r.gateway.ListByOwner(ctx, owner)
		if err != nil {
			r.logger.Error("failed to list bookmarks for import",
				logger.String("owner_id", owner),
				logger.Error(err))
			res.Failed += len(list)
			continue
		}
		have := make(map[string]bool, len(existing))
		for _, b := range existing {
			have[b.URL] = true
		}

		for _, draft := range list {
			if have[draft.URL] {
				res.Existing++
				continue
			}
			if _, err := r.gateway.Create(ctx, draft); err != nil {
				r.logger.Error("failed to import bookmark",
					logger.String("owner_id", owner),
					logger.String("url", draft.URL),
					logger.Error(err))
				res.Failed++
				continue
			}
			res.Created++
		}
	}

	res.At = time.Now()
	r.mu.Lock()
	r.last = res
	r.mu.Unlock()

	r.logger.Info("import finished",
		logger.Int("created", res.Created),
		logger.Int("existing", res.Existing),
		logger.Int("skipped", res.Skipped),
		logger.Int("failed", res.Failed))
	return res, nil
}
