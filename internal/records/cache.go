package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedSink fronts a Sink's Top query with a Redis read-through cache,
// keyed by the (start, max) page requested. Add always goes straight to
// the underlying sink and invalidates the cache, since a ranking can
// change on every retirement. A nil *redis.Client (the disabled-Redis
// contract; see internal/shared/redis.Connect) makes every operation
// fall straight through to the underlying sink.
type CachedSink struct {
	sink   Sink
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSink wraps sink with a Redis cache. client may be nil, in
// which case the cache is a no-op and every call reaches sink directly.
func NewCachedSink(sink Sink, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSink {
	return &CachedSink{
		sink:   sink,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "records_cache"),
	}
}

// Add always writes through the sink, then bumps the cache generation so
// every previously cached page is treated as stale — Redis has no
// pattern-delete primitive, so invalidation is versioning the key space
// rather than scanning and deleting it.
func (c *CachedSink) Add(ctx context.Context, name string, score int, playTime time.Duration) error {
	err := c.sink.Add(ctx, name, score, playTime)
	if c.client != nil {
		if _, incrErr := c.client.Incr(ctx, "records:generation").Result(); incrErr != nil {
			c.logger.Warn("failed to bump records cache generation", "error", incrErr)
		}
	}
	return err
}

func (c *CachedSink) Top(ctx context.Context, start, max int) ([]Record, error) {
	if c.client == nil {
		return c.sink.Top(ctx, start, max)
	}

	key := c.cacheKey(ctx, start, max)
	if cached, ok := c.readCache(ctx, key); ok {
		return cached, nil
	}

	records, err := c.sink.Top(ctx, start, max)
	if err != nil {
		return nil, err
	}

	c.writeCache(ctx, key, records)
	return records, nil
}

func (c *CachedSink) cacheKey(ctx context.Context, start, max int) string {
	generation, err := c.client.Get(ctx, "records:generation").Int64()
	if err != nil {
		generation = 0
	}
	return fmt.Sprintf("records:top:%d:%d:%d", generation, start, max)
}

func (c *CachedSink) readCache(ctx context.Context, key string) ([]Record, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.Warn("failed to decode cached records page", "error", err)
		return nil, false
	}
	return records, true
}

func (c *CachedSink) writeCache(ctx context.Context, key string, records []Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("failed to encode records page for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write records cache entry", "error", err)
	}
}
