package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"identify/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: unmarshal the cached value under
// key into dest, or call fill (which must populate dest), cache dest for ttl,
// and return. A missing or broken cache degrades to calling fill directly;
// cache errors never fail the request.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
				return nil
			}
			// Corrupt entry; drop it and fall through to fill.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			middleware.Logger.Warn("Cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := fill(); err != nil {
		return err
	}

	if client != nil {
		if raw, jsonErr := json.Marshal(dest); jsonErr == nil {
			if setErr := client.Set(ctx, key, raw, ttl).Err(); setErr != nil {
				middleware.Logger.Warn("Cache write failed",
					slog.String("key", key),
					slog.String("error", setErr.Error()),
				)
			}
		}
	}

	return nil
}
