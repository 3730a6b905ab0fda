package ads

import (
	"context"
	"errors"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Clock serves the virtual day. The store is authoritative; the cache only
// accelerates reads and is refilled from the store on a miss.
type Clock struct {
	store Store
	cache DayCache
}

// NewClock builds a Clock. A nil cache reads the store every time.
func NewClock(store Store, cache DayCache) *Clock {
	return &Clock{store: store, cache: cache}
}

func (c *Clock) Today(ctx context.Context) (int, error) {
	if c.cache != nil {
		day, err := c.cache.Get(ctx)
		if err == nil {
			return day, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			zlog.Warn().Err(err).Msg("day cache read failed; using store")
		}
	}

	day, err := c.store.Days().Get(ctx)
	if err != nil {
		return 0, err
	}

	// an Advance may have landed since the read; Fill never replaces it
	if c.cache != nil {
		if err := c.cache.Fill(ctx, day); err != nil {
			zlog.Warn().Err(err).Int("day", day).Msg("day cache fill failed")
		}
	}
	return day, nil
}

// Advance sets the day unconditionally. The cache is written inside the same
// transaction as the durable value; if that write fails or the commit fails
// the cached key is dropped so the next read goes back to the store.
func (c *Clock) Advance(ctx context.Context, day int) (int, error) {
	err := c.store.WithTx(ctx, func(tx Tx) error {
		if err := tx.Days().Set(ctx, day); err != nil {
			return err
		}
		if c.cache != nil {
			if err := c.cache.Set(ctx, day); err != nil {
				zlog.Warn().Err(err).Int("day", day).Msg("day cache update failed")
				c.invalidate(ctx)
			}
		}
		return nil
	})
	if err != nil {
		c.invalidate(ctx)
		return 0, err
	}
	return day, nil
}

func (c *Clock) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx); err != nil {
		zlog.Warn().Err(err).Msg("day cache invalidate failed")
	}
}

// AdvanceDay is the audited entry point used by the admin surface.
func (s *Service) AdvanceDay(ctx context.Context, day int) (int, error) {
	got, err := s.clock.Advance(ctx, day)
	if err != nil {
		return 0, err
	}
	s.emitAudit("time.advance", map[string]string{"day": strconv.Itoa(got)})
	return got, nil
}
