package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/altmarket/storefront/internal/config"
)

// Module provides the shared Redis client used for request throttling.
var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Invoke(registerLifecycle),
)

// NewClient builds a Redis client from configuration.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddress,
	})
}

func registerLifecycle(lc fx.Lifecycle, client *redis.Client) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
