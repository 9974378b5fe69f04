package cache

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Remember returns the value cached under key, or calls load and stores its result for ttl seconds.
// Cache failures never fail the read. The store runs in the background.
func Remember[T any](ctx context.Context, c RedisCache, key string, ttl int, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if err := c.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	go func(ctx context.Context) {
		if err := c.Save(ctx, key, value, ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to save cache entry")
		}
	}(context.WithoutCancel(ctx))

	return value, nil
}

// Forget drops the given keys and every key under the given prefixes in the background.
func Forget(ctx context.Context, c RedisCache, keys []string, prefixes ...string) {
	go func(ctx context.Context) {
		for _, key := range keys {
			if err := c.Delete(ctx, key); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to delete cache entry")
			}
		}

		for _, prefix := range prefixes {
			if err := c.Clear(ctx, prefix+"*"); err != nil {
				log.Error().Err(err).Str("prefix", prefix).Msg("failed to clear cache entries")
			}
		}
	}(context.WithoutCancel(ctx))
}
