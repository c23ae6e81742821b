package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/sifan077/linkdash/config"
	"github.com/sifan077/linkdash/internal/app/linkrow"
	appmodel "github.com/sifan077/linkdash/internal/app/model"
	apprepository "github.com/sifan077/linkdash/internal/app/repository"
	appserver "github.com/sifan077/linkdash/internal/app/server"
	appservice "github.com/sifan077/linkdash/internal/app/service"
	"github.com/sifan077/linkdash/internal/http/util"
	infraDatabase "github.com/sifan077/linkdash/internal/infra/database"
	"github.com/sifan077/linkdash/internal/infra/logger"
	infraNATS "github.com/sifan077/linkdash/internal/infra/nats"
	infraPostgres "github.com/sifan077/linkdash/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/linkdash/internal/infra/prometheus"
	infraRedis "github.com/sifan077/linkdash/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.MustInit(logger.ConfigFromEnv())
	defer func() { _ = logger.Sync() }()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Session.Secret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}

	log.Info("Configuration loaded successfully",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("sqlite_path", cfg.SQLite.Path),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_url", infraNATS.URL(cfg.NATS)),
		zap.String("short_link_base", cfg.Dashboard.ShortLinkBase),
	)

	gormDB, err := infraDatabase.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	var pool *pgxpool.Pool
	if cfg.Database.Driver != infraDatabase.DriverSQLite {
		pool, err = infraPostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		defer pool.Close()
		log.Info("Connected to Postgres successfully")
	}

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()

	if err := infraNATS.EnsureStream(js, nats.StreamConfig{
		Name:     appmodel.ToastStreamName,
		Subjects: []string{appmodel.ToastStreamSubject},
		MaxAge:   appmodel.ToastStreamMaxAge,
		MaxBytes: appmodel.ToastStreamMaxBytes,
		Storage:  nats.FileStorage,
	}); err != nil {
		log.Fatal("Failed to ensure toast stream", zap.Error(err))
	}
	log.Info("Connected to NATS successfully", zap.String("stream", appmodel.ToastStreamName))

	registry := promclient.NewRegistry()
	metrics := infraPrometheus.NewMetrics(registry)
	promServer := infraPrometheus.NewServer(cfg.Prometheus, registry)
	go func() {
		log.Info("Starting Prometheus metrics server", zap.String("addr", promServer.Addr))
		if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
		}
	}()
	defer func() {
		if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Failed to close Prometheus server", zap.Error(err))
		}
	}()

	linkRepo := apprepository.NewLinkRepository(gormDB)

	resolver := appservice.NewKeyResolver(cfg.Dashboard.ShortLinkBase, linkRepo, cfg.Dashboard.BloomCapacity)
	refresher := appservice.NewBloomRefresher(
		logger.Named("bloom"),
		resolver,
		metrics,
		config.Duration(cfg.Dashboard.BloomRefresh, 5*time.Minute),
	)
	refresher.Start()
	defer refresher.Stop()

	storeTTL := config.Duration(cfg.Dashboard.ClipboardTTL, 10*time.Minute)
	clipboard := appservice.NewRedisClipboard(redisClient, storeTTL)
	inbox := appservice.NewRedisToastInbox(redisClient, storeTTL)

	consumer := appservice.NewToastConsumer(js, logger.Named("toasts"), inbox, metrics)
	if err := consumer.Start(ctx); err != nil {
		log.Fatal("Failed to start toast relay", zap.Error(err))
	}

	location, err := time.LoadLocation(cfg.Dashboard.TimeZone)
	if err != nil {
		log.Warn("Unknown dashboard time zone, using UTC",
			zap.String("time_zone", cfg.Dashboard.TimeZone),
			zap.Error(err),
		)
		location = time.UTC
	}

	rows := linkrow.NewRegistry(linkrow.Deps{
		Resolver:  resolver,
		Clipboard: clipboard,
		Notifier:  appservice.NewToastPublisher(js),
		Deriver: linkrow.Deriver{
			FaviconTemplate: cfg.Dashboard.FaviconTemplate,
			Dates: linkrow.DateFormatter{
				Layout:   cfg.Dashboard.DateLayout,
				Location: location,
			},
		},
	})

	dashboard := appservice.NewDashboardService(appservice.DashboardDeps{
		Logger:    logger.Named("dashboard"),
		Links:     linkRepo,
		Registry:  rows,
		QRTargets: appservice.NewRedisQRTargets(redisClient, storeTTL),
		QR:        appservice.NewQRService(cfg.Dashboard.QRSize),
		Metrics:   metrics,
	})

	server := appserver.New(appserver.Dependencies{
		Logger:        log,
		Postgres:      pool,
		Redis:         redisClient,
		NATS:          natsConn,
		Dashboard:     dashboard,
		Clipboard:     clipboard,
		Toasts:        inbox,
		Sessions:      util.NewSessionSigner([]byte(cfg.Session.Secret), config.Duration(cfg.Session.TTL, 24*time.Hour)),
		AllowedOrigin: cfg.HTTP.AllowedOrigin,
		SecureCookies: cfg.Session.Secure,
		RateLimit:     cfg.HTTP.RateLimit,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("Fiber shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting dashboard server", zap.String("addr", cfg.HTTP.Addr))
	if err := server.Listen(cfg.HTTP.Addr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
