package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/isp-admin/internal/config"
	"github.com/segyhp/isp-admin/internal/lock"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	"github.com/segyhp/isp-admin/internal/scheduler"
	"github.com/segyhp/isp-admin/internal/service"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	zap.ReplaceGlobals(appLogger.Desugar())

	appLogger.Infow("Starting status scheduler...")

	location, err := cfg.SchedulerLocation()
	if err != nil {
		appLogger.Fatalw("Invalid scheduler time zone", "error", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		appLogger.Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	var locker lock.Locker
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			appLogger.Fatalw("Invalid REDIS_URL", "error", err)
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		if cfg.Redis.DB != 0 {
			opts.DB = cfg.Redis.DB
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient)
	} else {
		appLogger.Infow("REDIS_URL not set; guarding runs with a Postgres advisory lock")
		locker = lock.NewPostgresLocker(db)
	}

	syncService := service.NewStatusSyncService(
		repository.NewAccountRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewInstallationRepository(db),
		repository.NewTransactor(db),
		locker,
		cfg.Scheduler.LockTTL,
		location,
		appLogger,
	)

	// A run may not outlive the lock that guards it.
	s, err := scheduler.New(cfg.Scheduler.StatusSyncSpec, location, syncService, cfg.Scheduler.LockTTL, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to schedule status sync", "spec", cfg.Scheduler.StatusSyncSpec, "error", err)
	}

	s.Start()
	appLogger.Infow("Scheduler started successfully",
		"spec", cfg.Scheduler.StatusSyncSpec,
		"timezone", location.String(),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infow("Shutting down scheduler...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Stop(ctx)
	appLogger.Infow("Scheduler stopped")
}
