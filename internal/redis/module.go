// Package redis wires the shared redis client. Redis backs the plan cache
// and the verification lock; both degrade gracefully, so a deployment
// without redis still functions.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/talentbill/talentbill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

// NewClient returns nil when no address is configured. Consumers treat a
// nil client as "redis absent" and fall back to database-only behavior.
func NewClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Info("redis not configured, plan cache and verify locks disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable at startup", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}
