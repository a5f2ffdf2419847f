package sweeplock

import (
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/renova/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig returns a nil Locker when no redis address is
// configured, which downgrades the scheduler to single-instance mode.
func NewFromConfig(cfg config.Config, log *zap.Logger) *Locker {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Named("sweeplock").Info("redis address not configured, sweep lock disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewLocker(client)
}

var Module = fx.Module("sweeplock",
	fx.Provide(NewFromConfig),
)
