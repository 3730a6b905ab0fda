package ads_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
	redisc "github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/memory"
)

type mockDayCache struct{ mock.Mock }

func (m *mockDayCache) Get(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockDayCache) Set(ctx context.Context, day int) error {
	return m.Called(ctx, day).Error(0)
}

func (m *mockDayCache) Fill(ctx context.Context, day int) error {
	return m.Called(ctx, day).Error(0)
}

func (m *mockDayCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestClock_Today(t *testing.T) {
	ctx := context.Background()

	t.Run("cache_hit_skips_store", func(t *testing.T) {
		store := memory.NewStore()
		cache := new(mockDayCache)
		cache.On("Get", mock.Anything).Return(7, nil).Once()

		day, err := ads.NewClock(store, cache).Today(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, day)
		cache.AssertExpectations(t)
	})

	t.Run("cache_miss_refills_from_store", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Days().Set(ctx, 3))
		cache := new(mockDayCache)
		cache.On("Get", mock.Anything).Return(0, domain.ErrCacheMiss).Once()
		cache.On("Fill", mock.Anything, 3).Return(nil).Once()

		day, err := ads.NewClock(store, cache).Today(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, day)
		cache.AssertExpectations(t)
	})

	t.Run("cache_error_falls_back_to_store", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Days().Set(ctx, 4))
		cache := new(mockDayCache)
		cache.On("Get", mock.Anything).Return(0, errors.New("redis down")).Once()
		cache.On("Fill", mock.Anything, 4).Return(errors.New("redis down")).Once()

		day, err := ads.NewClock(store, cache).Today(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, day)
	})

	t.Run("nil_cache_reads_store", func(t *testing.T) {
		store := memory.NewStore()
		day, err := ads.NewClock(store, nil).Today(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, day)
	})
}

func TestClock_Advance(t *testing.T) {
	ctx := context.Background()

	t.Run("writes_store_and_cache", func(t *testing.T) {
		store := memory.NewStore()
		cache := new(mockDayCache)
		cache.On("Set", mock.Anything, 9).Return(nil).Once()

		day, err := ads.NewClock(store, cache).Advance(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, day)

		stored, _ := store.Days().Get(ctx)
		assert.Equal(t, 9, stored)
		cache.AssertExpectations(t)
	})

	t.Run("may_move_backwards", func(t *testing.T) {
		store := memory.NewStore()
		clock := ads.NewClock(store, nil)
		_, err := clock.Advance(ctx, 10)
		require.NoError(t, err)
		day, err := clock.Advance(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, day)
	})

	t.Run("cache_write_failure_invalidates", func(t *testing.T) {
		store := memory.NewStore()
		cache := new(mockDayCache)
		cache.On("Set", mock.Anything, 5).Return(errors.New("redis down")).Once()
		cache.On("Invalidate", mock.Anything).Return(nil).Once()

		day, err := ads.NewClock(store, cache).Advance(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, day)

		stored, _ := store.Days().Get(ctx)
		assert.Equal(t, 5, stored)
		cache.AssertExpectations(t)
	})
}

// stallingStore holds a non-transactional day read after it has happened,
// so a concurrent Advance can commit in between.
type stallingStore struct {
	ads.Store
	read    chan int
	release chan struct{}
}

func (s *stallingStore) Days() ads.DayRepo { return stallingDays{DayRepo: s.Store.Days(), s: s} }

type stallingDays struct {
	ads.DayRepo
	s *stallingStore
}

func (d stallingDays) Get(ctx context.Context) (int, error) {
	day, err := d.DayRepo.Get(ctx)
	select {
	case d.s.read <- day:
	default:
	}
	<-d.s.release
	return day, err
}

func TestClock_RefillDoesNotOverwriteAdvance(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redisc.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	store := &stallingStore{
		Store:   memory.NewStore(),
		read:    make(chan int, 1),
		release: make(chan struct{}),
	}
	clock := ads.NewClock(store, redisc.NewDayCache(rc, 0))

	refilled := make(chan int, 1)
	go func() {
		day, err := clock.Today(ctx)
		assert.NoError(t, err)
		refilled <- day
	}()

	assert.Equal(t, 0, <-store.read)

	_, err := clock.Advance(ctx, 5)
	require.NoError(t, err)
	close(store.release)

	// the slow reader still answers with what it read
	assert.Equal(t, 0, <-refilled)

	day, err := clock.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, day)

	cached, err := mr.Get(redisc.DayKey)
	require.NoError(t, err)
	assert.Equal(t, "5", cached)
}

func TestService_AdvanceDayAudits(t *testing.T) {
	store := memory.NewStore()
	var got map[string]string
	svc := ads.New(store, ads.NewClock(store, nil), memory.NewImageStore(cdnBase)).
		WithAudit(func(action string, fields map[string]string) {
			if action == "time.advance" {
				got = fields
			}
		})

	_, err := svc.AdvanceDay(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "12", got["day"])
}
