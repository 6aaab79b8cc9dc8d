// Package cache holds the shared Redis client. Redis is optional: if the
// server is unreachable at startup the client is left nil and callers
// fail open.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without it", "addr", addr, "err", err)
		Client = nil
	} else {
		slog.Info("redis connected", "addr", addr)
	}
}

func Close() {
	if Client != nil {
		if err := Client.Close(); err != nil {
			slog.Error("error closing redis", "err", err)
		}
	}
}
