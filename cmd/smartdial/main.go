package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/api/middleware"
	"github.com/feral-file/ff-smartdial/internal/api/server"
	"github.com/feral-file/ff-smartdial/internal/api/shared/executor"
	"github.com/feral-file/ff-smartdial/internal/config"
	"github.com/feral-file/ff-smartdial/internal/directory"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/messaging"
	"github.com/feral-file/ff-smartdial/internal/providers/contacts"
	"github.com/feral-file/ff-smartdial/internal/providers/jetstream"
	"github.com/feral-file/ff-smartdial/internal/query"
	"github.com/feral-file/ff-smartdial/internal/ratelimit"
	"github.com/feral-file/ff-smartdial/internal/store"
	"github.com/feral-file/ff-smartdial/internal/sweeper"
	"github.com/feral-file/ff-smartdial/internal/syncer"
	"github.com/feral-file/ff-smartdial/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSmartDialConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "smartdial",
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting smart-dial service")

	// Connect to database
	db, err := store.OpenDB(cfg.Database.Driver, cfg.Database.DSN(), cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	defer func() {
		if err := store.CloseDB(db); err != nil {
			logger.Error(err)
		}
	}()

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database", zap.String("driver", cfg.Database.Driver))

	// Initialize store, rebuilding the index when the schema version changed
	dataStore := store.NewSQLStore(db)
	if err := dataStore.Bootstrap(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to bootstrap index store", zap.Error(err))
	}

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Initialize contact directory
	var dir directory.Directory
	switch cfg.Directory.Source {
	case config.DIRECTORY_SOURCE_HTTP:
		httpClient := adapter.NewHTTPClient(cfg.Directory.Timeout)
		dir = contacts.NewClient(httpClient, cfg.Directory.BaseURL, cfg.Directory.APIKey, cfg.Directory.PageSize)
		logger.InfoCtx(ctx, "Using HTTP contact directory", zap.String("base_url", cfg.Directory.BaseURL))
	default:
		memory := directory.NewMemory(directory.WithPageSize(cfg.Directory.PageSize))
		if cfg.Directory.FixturePath != "" {
			if err := memory.LoadFixtureFile(cfg.Directory.FixturePath); err != nil {
				logger.FatalCtx(ctx, "Failed to load directory fixture", zap.Error(err), zap.String("path", cfg.Directory.FixturePath))
			}
		}
		dir = memory
		logger.InfoCtx(ctx, "Using in-memory contact directory", zap.String("fixture", cfg.Directory.FixturePath))
	}

	// Connect to NATS JetStream for index-changed notifications
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		p, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer p.Close()
		publisher = p
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, index-changed notifications stay in process")
	}

	// Initialize webhook notifier
	var notifier *webhook.Notifier
	if len(cfg.Webhooks) > 0 {
		endpoints := make([]webhook.Endpoint, 0, len(cfg.Webhooks))
		for _, wh := range cfg.Webhooks {
			endpoints = append(endpoints, webhook.Endpoint{URL: wh.URL, Secret: wh.Secret, EventFilters: wh.EventFilters})
		}
		notifier = webhook.NewNotifier(endpoints, adapter.NewHTTPClient(webhook.DELIVERY_TIMEOUT), jsonAdapter, clock)
		defer notifier.Close()
		logger.InfoCtx(ctx, "Webhook delivery enabled", zap.Int("endpoints", len(endpoints)))
	}

	// Initialize engines
	syncEngine := syncer.NewEngine(syncer.Config{
		BatchSize:          cfg.Sync.BatchSize,
		MaxLookupKeyLength: cfg.Sync.MaxLookupKeyLength,
	}, dataStore, dir, publisher, clock)
	defer syncEngine.Close()
	syncEngine.Subscribe(func(event domain.IndexChanged) {
		logger.Info("Index changed",
			zap.String("event_id", event.EventID),
			zap.Int64("watermark", event.Watermark),
		)
	})
	if notifier != nil {
		syncEngine.Subscribe(notifier.NotifyIndexChanged)
	}

	queryEngine := query.NewEngine(query.Config{MaxResults: cfg.Query.MaxResults}, dataStore, syncEngine, clock)

	// Create and start server
	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.Server.RateLimitRPS,
			Burst:             cfg.Server.RateLimitBurst,
		},
	}, executor.NewExecutor(dataStore, queryEngine, syncEngine))

	errCh := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Start the periodic sync sweeper
	var syncSweeper sweeper.Sweeper
	if cfg.Sync.Interval > 0 {
		syncSweeper = sweeper.NewSyncSweeper(&sweeper.SyncSweeperConfig{
			Interval:   cfg.Sync.Interval,
			RunOnStart: cfg.Sync.RunOnStart,
		}, syncEngine, clock)
		go func() {
			if err := syncSweeper.Start(ctx); err != nil {
				errCh <- err
			}
		}()
		logger.InfoCtx(ctx, "Started sync sweeper", zap.Duration("interval", cfg.Sync.Interval))
	} else if cfg.Sync.RunOnStart {
		syncEngine.TriggerSync()
	}

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err)
	}
	cancel()

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if syncSweeper != nil {
		if err := syncSweeper.Stop(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.Info("Smart-dial service stopped")
}
