package deps

import (
	"time"

	"github.com/MrSnakeDoc/marks/internal/gateway"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/scheduler"
	"github.com/redis/go-redis/v9"
)

// FeedHealth reports whether a change feed transport is connected.
type FeedHealth interface {
	Connected() bool
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedHosts  []string                  // Host headers allowed to access the server
	AllowedCIDRS  []string                  // IPs allowed to access ops endpoints (healthz/readyz/infra/import)
	TrustProxy    bool                      // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst     int                       // write requests allowed in a burst, per client IP
	RatePerMin    int                       // write requests refilled per minute, per client IP
	RedisClient   *redis.Client             // Redis client connection (readiness checks)
	Gateway       gateway.Gateway           // durable bookmark store
	NATS          FeedHealth                // nil when the NATS feed is disabled
	Importer      *scheduler.ImportReloader // nil when no import file is configured
	ImportTrigger chan struct{}             // manual import trigger (nil if import disabled)
}
