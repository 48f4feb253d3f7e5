package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"yt-insights/domain/repository"
	"yt-insights/infrastructure/cache"
	youtubeclient "yt-insights/infrastructure/clients/youtube"
	"yt-insights/infrastructure/configuration"
	"yt-insights/infrastructure/logger"
	"yt-insights/infrastructure/metrics"
	"yt-insights/infrastructure/persistence"
	"yt-insights/infrastructure/pubsub"
	"yt-insights/infrastructure/servicebus"
	httpHandler "yt-insights/interfaces/http"
	"yt-insights/server"
	"yt-insights/usecase"
)

const shutdownTimeout = 10 * time.Second

// stores holds the channel store and whatever must be closed on exit.
type stores struct {
	channels repository.IChannel
	videos   repository.IVideo
	db       *sql.DB
	closers  []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func main() {
	configuration.LoadEnvFromFile("config.env", ".env")
	log := logger.New(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))

	if err := run(log); err != nil {
		log.WithField("error", err).Error("Application stopped with an error")
		os.Exit(1)
	}
}

func run(log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := configuration.Load(log)
	if err != nil {
		return err
	}
	logger.SetLevel(log, cfg.Logger.Level)

	youtubeConfig, err := cfg.GetYouTubeConfig()
	if err != nil {
		return err
	}

	m := metrics.New()

	st, err := initiateDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()
	m.RegisterDB(st.db)

	interval := time.Duration(cfg.RateLimit.MinFetchIntervalSec) * time.Second
	rateLimitStore := initiateRateLimitStore(ctx, cfg, st, interval, log)
	events := initiateImportEvents(ctx, cfg, st, log)

	youtubeClient, err := youtubeclient.NewYouTubeClient(ctx, youtubeclient.Config{
		APIKey:            youtubeConfig.APIKey,
		Endpoint:          youtubeConfig.Endpoint,
		RequestsPerSecond: youtubeConfig.RequestsPerSecond,
	}, log, m)
	if err != nil {
		return err
	}

	limiter := usecase.NewRateLimiter(rateLimitStore, interval, log, m)
	importUseCase := usecase.NewImportUseCase(youtubeClient, st.channels, limiter, events, m, log)
	channelUseCase := usecase.NewChannelUseCase(st.channels, st.videos, limiter, log)
	analyticsUseCase := usecase.NewAnalyticsUseCase(st.channels, st.videos, usecase.AnalyticsOptions{
		DefaultRPM: cfg.Analytics.DefaultRPM,
		Timezone:   cfg.Analytics.Timezone,
	}, log)

	router := server.InitiateRouter(
		httpHandler.NewChannelHandler(importUseCase, channelUseCase, log),
		httpHandler.NewAnalyticsHandler(analyticsUseCase, log),
		httpHandler.NewHealthHandler(st.db, rateLimitStore, log),
		m,
		cfg.App.SecretKey,
		log,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{"port": cfg.App.Port, "tls": cfg.App.TLSEnabled}).Info("Starting application")
		var err error
		if cfg.App.TLSEnabled && cfg.App.TLSCertFile != "" && cfg.App.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.App.TLSCertFile, cfg.App.TLSKeyFile)
		} else {
			if cfg.App.TLSEnabled {
				log.Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// initiateDatabase opens the channel store for the configured vendor and
// ensures its schema.
func initiateDatabase(ctx context.Context, cfg *configuration.Config, log *logrus.Logger) (*stores, error) {
	switch cfg.Database.Vendor {
	case configuration.VendorMySQL:
		gormDB, err := persistence.NewMySQLDB(cfg.Database.MySql)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("mysql handle: %w", err)
		}
		if err := persistence.EnsureSchemaMySQL(ctx, gormDB, log); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Info("MySQL connected successfully")
		return &stores{
			channels: persistence.NewChannelRepositoryMySQL(gormDB),
			videos:   persistence.NewVideoRepositoryMySQL(gormDB),
			db:       sqlDB,
			closers:  []func(){func() { _ = sqlDB.Close() }},
		}, nil
	case configuration.VendorPostgres:
		db, err := persistence.NewPostgreSQLDB(cfg.Database.Psql)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := persistence.EnsureSchema(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("PostgreSQL connected successfully")
		return &stores{
			channels: persistence.NewChannelRepository(db),
			videos:   persistence.NewVideoRepository(db),
			db:       db,
			closers:  []func(){func() { _ = db.Close() }},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database vendor %q", cfg.Database.Vendor)
	}
}

// initiateRateLimitStore connects the configured backend. Any failure leaves
// a store without a client, which never blocks fetching.
func initiateRateLimitStore(ctx context.Context, cfg *configuration.Config, st *stores, ttl time.Duration, log *logrus.Logger) repository.IRateLimitStore {
	fallback := func(err error) repository.IRateLimitStore {
		log.WithFields(logrus.Fields{
			"error":   err,
			"backend": cfg.RateLimit.Backend,
		}).Warn("Rate-limit store not available - every import will fetch")
		return cache.NewChannelUpdateCache(nil, 0)
	}

	switch cfg.RateLimit.Backend {
	case configuration.BackendRedis:
		rdb, err := cache.NewCache(ctx,
			fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
			cfg.RedisClient.Username,
			cfg.RedisClient.Password,
			cfg.RedisClient.DB,
		)
		if err != nil {
			return fallback(err)
		}
		st.closers = append(st.closers, func() { _ = rdb.Close() })
		return cache.NewChannelUpdateCache(rdb, ttl)
	case configuration.BackendPostgres:
		db := st.db
		if cfg.Database.Vendor != configuration.VendorPostgres {
			var err error
			if db, err = persistence.NewPostgreSQLDB(cfg.Database.Psql); err != nil {
				return fallback(err)
			}
			st.closers = append(st.closers, func() { _ = db.Close() })
		}
		if err := persistence.EnsureChannelUpdateCacheSchema(ctx, db); err != nil {
			return fallback(err)
		}
		return persistence.NewYouTubeCacheRepository(db)
	case configuration.BackendMSSQL:
		db, err := persistence.NewMSSQLDB(cfg.Database.Mssql)
		if err != nil {
			return fallback(err)
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		if err := persistence.EnsureChannelUpdateCacheSchemaMSSQL(ctx, db); err != nil {
			return fallback(err)
		}
		return persistence.NewYouTubeCacheRepositoryMSSQL(db)
	case configuration.BackendMongo:
		mongo := cfg.Database.Mongo
		client, err := persistence.NewMongoDb(ctx, mongo.Host, mongo.Port, mongo.User, mongo.Password)
		if err != nil {
			return fallback(err)
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })
		return persistence.NewYouTubeCacheRepositoryMongo(client, mongo.Name)
	default:
		return fallback(fmt.Errorf("unsupported rate-limit backend %q", cfg.RateLimit.Backend))
	}
}

// initiateImportEvents returns nil when no provider is configured or it
// cannot be reached; imports then skip publishing.
func initiateImportEvents(ctx context.Context, cfg *configuration.Config, st *stores, log *logrus.Logger) repository.IImportEvents {
	switch cfg.Events.Provider {
	case configuration.EventsPubSub:
		client, err := pubsub.NewPubSub(ctx, cfg.Events.ProjectID)
		if err != nil {
			log.WithField("error", err).Warn("PubSub not available - continuing without import events")
			return nil
		}
		publisher := pubsub.NewImportEventPublisher(client, cfg.Events.Topic, log)
		st.closers = append(st.closers, func() {
			publisher.Close()
			_ = client.Close()
		})
		return publisher
	case configuration.EventsServiceBus:
		client, err := servicebus.NewServiceBus(cfg.Events.Namespace)
		if err != nil {
			log.WithField("error", err).Warn("Azure Service Bus not available - continuing without import events")
			return nil
		}
		st.closers = append(st.closers, func() { _ = client.Close(context.Background()) })
		return servicebus.NewImportEventPublisher(client, cfg.Events.Topic, log)
	default:
		return nil
	}
}
