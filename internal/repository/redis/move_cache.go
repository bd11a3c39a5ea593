package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AngelFireLA/Puissance4-L1ST/internal/repository"
)

var _ repository.MoveCache = (*Client)(nil)

func moveKey(strategy, position string) string { return "move:" + strategy + ":" + position }
func statsKey(strategy string) string          { return "move:" + strategy + ":stats" }

// GetMove returns the cached column for a position. A miss is not an error.
func (c *Client) GetMove(ctx context.Context, strategy, position string) (int, bool, error) {
	v, err := c.rdb.Get(ctx, moveKey(strategy, position)).Result()
	if errors.Is(err, redis.Nil) {
		c.rdb.HIncrBy(ctx, statsKey(strategy), "misses", 1)
		return -1, false, nil
	}
	if err != nil {
		return -1, false, fmt.Errorf("get move: %w", err)
	}
	col, err := strconv.Atoi(v)
	if err != nil {
		return -1, false, fmt.Errorf("corrupt cached move %q: %w", v, err)
	}
	c.rdb.HIncrBy(ctx, statsKey(strategy), "hits", 1)
	return col, true, nil
}

// SetMove caches a column for ttl. A zero ttl keeps it forever.
func (c *Client) SetMove(ctx context.Context, strategy, position string, col int, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, moveKey(strategy, position), strconv.Itoa(col), ttl).Err(); err != nil {
		return fmt.Errorf("set move: %w", err)
	}
	return nil
}

// CacheStats returns the hit and miss counters for a strategy.
func (c *Client) CacheStats(ctx context.Context, strategy string) (hits, misses int64, err error) {
	vals, err := c.rdb.HGetAll(ctx, statsKey(strategy)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("get cache stats: %w", err)
	}
	hits, _ = strconv.ParseInt(vals["hits"], 10, 64)
	misses, _ = strconv.ParseInt(vals["misses"], 10, 64)
	return hits, misses, nil
}
