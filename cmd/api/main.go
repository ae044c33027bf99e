package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jplsports/player-auction-backend/internal/api/rest"
	"github.com/jplsports/player-auction-backend/internal/api/websocket"
	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/cache"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/config"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/database"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/repository"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/telemetry"
	"github.com/jplsports/player-auction-backend/internal/metrics"
	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "run database migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel, cfg.Environment)

	if *migrateFlag {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	pool, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	registry := metrics.NewRegistry()
	catalog := repository.NewCatalogStore(pool)
	users := repository.NewUserRepository(pool)
	history := repository.NewHistoryRepository(pool)
	authSvc := auth.NewService(cfg.Security.JWTSecret, cfg.Security.TokenExpiry)

	// Redis is optional: without it the server runs with no snapshot cache
	// and no session revocation.
	var (
		snapshots *cache.SnapshotCache
		sessions  *cache.SessionStore
	)
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(&cfg.Redis, zapLogger)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		snapshots = cache.NewSnapshotCache(redisCache, 24*time.Hour, zapLogger)
		sessions = cache.NewSessionStore(redisCache)
	}

	coordCfg := svcauction.Config{
		Duration:         cfg.Auction.Duration,
		TickInterval:     cfg.Auction.TickInterval,
		MinIncrement:     values.MustNewMoneyFromInt(cfg.Auction.MinIncrement, cfg.Auction.Currency),
		BidsWhilePaused:  cfg.Auction.BidsWhilePaused,
		StrictSettlement: cfg.Auction.StrictSettlement,
	}

	var coordinator *svcauction.Coordinator
	hub := websocket.NewHub(zapLogger, func() svcauction.Snapshot {
		return coordinator.QueryState()
	}, registry)

	opts := []svcauction.Option{svcauction.WithMetrics(registry)}
	if snapshots != nil {
		opts = append(opts, svcauction.WithSnapshotSink(snapshots))
	}
	coordinator = svcauction.NewCoordinator(catalog, hub, logger, coordCfg, opts...)

	// A live snapshot left behind by a previous run is stale: the in-memory
	// cycle died with the process. Replace it so cache readers see idle.
	if snapshots != nil {
		if snap, ok := snapshots.Load(ctx); ok && snap.State != auction.StateIdle.String() {
			logger.Warn("discarding auction snapshot from a previous run",
				"state", snap.State,
				"cycle_id", snap.CycleID)
		}
		snapshots.Store(ctx, coordinator.QueryState())
	}

	router := rest.NewRouter(rest.RouterDeps{
		Auction:  rest.NewAuctionHandler(coordinator, logger, cfg.Auction.Currency),
		Catalog:  rest.NewCatalogHandler(catalog, catalog, history, logger, cfg.Auction.Currency),
		Auth:     rest.NewAuthHandler(users, authSvc, sessions, logger),
		AuthSvc:  authSvc,
		Sessions: sessions,
		Registry: registry,
		WSHandle: websocket.Handler(hub),
		Logger:   logger,
	})
	server := rest.NewServer(router, cfg.Server, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return server.Run(gctx)
	})

	logger.Info("player auction backend started",
		"port", cfg.Server.Port,
		"environment", cfg.Environment)

	return g.Wait()
}
