package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// DayKey holds the cached virtual day.
const DayKey = "time"

// DayCache mirrors the durable virtual day. A zero ttl keeps the key until
// it is overwritten or invalidated.
type DayCache struct {
	c   *Client
	ttl time.Duration
}

func NewDayCache(c *Client, ttl time.Duration) *DayCache {
	return &DayCache{c: c, ttl: ttl}
}

func (d *DayCache) Get(ctx context.Context) (int, error) {
	val, err := d.c.rdb.Get(ctx, DayKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, domain.ErrCacheMiss
		}
		return 0, err
	}
	day, err := strconv.Atoi(val)
	if err != nil {
		// drop a corrupt value so the next Fill can replace it
		_ = d.c.rdb.Del(ctx, DayKey).Err()
		return 0, domain.ErrCacheMiss
	}
	return day, nil
}

func (d *DayCache) Set(ctx context.Context, day int) error {
	return d.c.rdb.Set(ctx, DayKey, strconv.Itoa(day), d.ttl).Err()
}

// Fill stores day only if no value is cached (SET NX).
func (d *DayCache) Fill(ctx context.Context, day int) error {
	return d.c.rdb.SetNX(ctx, DayKey, strconv.Itoa(day), d.ttl).Err()
}

func (d *DayCache) Invalidate(ctx context.Context) error {
	return d.c.rdb.Del(ctx, DayKey).Err()
}
