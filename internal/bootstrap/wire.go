package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/config"
	redisc "github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/memory"
	rabbitpub "github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/infrastructure/storage"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/ad-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) *redisc.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	NewImageStore func(ctx context.Context, cfg *config.Config) (ImageStore, error)
}

type Publisher interface {
	ads.EventPublisher
	Close() error
}

// ImageStore is the blob store the service writes campaign images to.
// EnsureBucket runs once at startup.
type ImageStore interface {
	ads.ImageStore
	EnsureBucket(ctx context.Context) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) store
	var (
		store ads.Store
		sqlDB *sql.DB
		pg    *postgres.Store
	)
	if cfg.DatabaseURL == "" && cfg.IsDev() {
		logger.Logger.Warn().Msg("DATABASE_URL empty; using in-memory store")
		store = memory.NewStore()
	} else {
		sqlDB, err = deps.NewDB(cfg.DatabaseURL, cfg.DBDebug)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = sqlDB.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = postgres.Migrate(ctx, sqlDB)
		cancel()
		if err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
		pg = postgres.New(sqlDB)
		store = pg
	}

	// 2) day cache (best-effort)
	var dayCache ads.DayCache
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; day cache disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
			dayCache = redisc.NewDayCache(c, cfg.DayCacheTTL)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher + outbox relay
	var pub ads.EventPublisher = ads.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			logger.Logger.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	} else {
		logger.Logger.Warn().Msg("RABBIT_URL empty: ad events will not be published")
	}

	if pg != nil {
		ctx, cancel := context.WithCancel(context.Background())
		pg.StartOutboxWorker(ctx, pub, cfg.OutboxPollInterval)
		cleanupFns = append(cleanupFns, cancel)
	}

	// 4) image store
	var images ads.ImageStore
	if cfg.S3Endpoint == "" && cfg.IsDev() {
		logger.Logger.Warn().Msg("S3_ENDPOINT empty; images kept in memory")
		images = memory.NewImageStore(cfg.CDNBaseURL)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s, err := deps.NewImageStore(ctx, cfg)
		if err == nil {
			err = s.EnsureBucket(ctx)
		}
		cancel()

		switch {
		case err == nil:
			images = s
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("object storage unavailable; images kept in memory")
			images = memory.NewImageStore(cfg.CDNBaseURL)
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 5) service
	svc := ads.New(store, ads.NewClock(store, dayCache), images)
	svc = svc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	if day, err := svc.Clock().Today(context.Background()); err == nil {
		middleware.CurrentDay.Set(float64(day))
	}

	// 6) handlers + router
	var pinger handlers.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	if cfg.AdminJWTSecret == "" {
		logger.Logger.Warn().Msg("ADMIN_JWT_SECRET empty: /time/advance is unauthenticated")
	}

	mux := router.New(router.Deps{
		Ads:       handlers.NewAdsHandler(svc),
		Campaigns: handlers.NewCampaignsHandler(svc, cfg.MaxImageBytes),
		Stats:     handlers.NewStatsHandler(svc),
		Audience:  handlers.NewAudienceHandler(svc),
		Time:      handlers.NewTimeHandler(svc),
		Health:    handlers.NewHealthHandler(pinger),
		AdminMW:   middleware.RequireAdmin(cfg.AdminJWTSecret, cfg.AdminJWTIssuer, response.WriteError),
		RLEnabled: cfg.RLEnabled,
		RLLimit:   cfg.RLLimit,
		RLWindow:  cfg.RLWindow,
	})

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { runCleanup(cleanupFns) })
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis:   redisc.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitpub.NewPublisher(url, exchange)
		},
		NewImageStore: func(ctx context.Context, cfg *config.Config) (ImageStore, error) {
			return storage.NewS3ImageStore(ctx, storage.S3Config{
				Endpoint:        cfg.S3Endpoint,
				Region:          cfg.S3Region,
				AccessKeyID:     cfg.S3AccessKeyID,
				SecretAccessKey: cfg.S3SecretAccessKey,
				UsePathStyle:    cfg.S3UsePathStyle,
				Bucket:          cfg.ImageBucket,
				CDNBaseURL:      cfg.CDNBaseURL,
			}, logger.Logger)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
