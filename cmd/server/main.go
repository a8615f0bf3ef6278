package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/isp-admin/internal/auth"
	"github.com/segyhp/isp-admin/internal/config"
	"github.com/segyhp/isp-admin/internal/handler"
	"github.com/segyhp/isp-admin/internal/lock"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	"github.com/segyhp/isp-admin/internal/service"
	"github.com/segyhp/isp-admin/internal/storage"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
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

	location, err := cfg.SchedulerLocation()
	if err != nil {
		appLogger.Fatalw("Invalid scheduler time zone", "error", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		appLogger.Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		appLogger.Fatalw("Failed to initialize redis", "error", err)
	}
	var locker lock.Locker
	if redisClient != nil {
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient)
	} else {
		appLogger.Infow("REDIS_URL not set; guarding status sync with a Postgres advisory lock")
		locker = lock.NewPostgresLocker(db)
	}

	files, err := storage.NewDiskStore(cfg.Storage.ContentDir, cfg.MaxUploadBytes())
	if err != nil {
		appLogger.Fatalw("Failed to initialize content storage", "dir", cfg.Storage.ContentDir, "error", err)
	}

	// Initialize repositories
	tx := repository.NewTransactor(db)
	accountRepo := repository.NewAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	installationRepo := repository.NewInstallationRepository(db)
	planRepo := repository.NewPlanRepository(db)
	sectorRepo := repository.NewSectorRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	// Initialize services
	accountService := service.NewAccountService(accountRepo, paymentRepo, planRepo, sectorRepo, tx, appLogger)
	paymentService := service.NewPaymentService(accountRepo, paymentRepo, planRepo, tx, cfg, appLogger)
	installationService := service.NewInstallationService(installationRepo, accountRepo, planRepo, sectorRepo, files, tx, appLogger)
	syncService := service.NewStatusSyncService(accountRepo, paymentRepo, installationRepo, tx, locker, cfg.Scheduler.LockTTL, location, appLogger)

	handlers := handler.Handlers{
		Health:       handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout()),
		Account:      handler.NewAccountHandler(accountService, paymentService, installationService, syncService, appLogger),
		Payment:      handler.NewPaymentHandler(paymentService, appLogger),
		Installation: handler.NewInstallationHandler(installationService, cfg.MaxUploadBytes(), appLogger),
		Catalog:      handler.NewCatalogHandler(service.NewCatalogService(planRepo, sectorRepo, appLogger), appLogger),
		Device:       handler.NewDeviceHandler(service.NewDeviceService(deviceRepo, installationRepo, appLogger), appLogger),
		Employee: handler.NewEmployeeHandler(
			service.NewEmployeeService(employeeRepo, roleRepo, appLogger),
			service.NewRoleService(roleRepo, tx, appLogger),
			appLogger,
		),
		Company: handler.NewCompanyHandler(service.NewCompanyService(companyRepo, files, appLogger), cfg.MaxUploadBytes(), appLogger),
	}

	opts := handler.RouterOptions{ContentDir: files.Dir()}
	if cfg.Auth.Enabled {
		opts.Auth = auth.Middleware(auth.NewVerifier(cfg.Auth.JWTSecret), appLogger)
	} else {
		appLogger.Warnw("AUTH_ENABLED=false; API routes are unauthenticated")
	}

	// Setup routes
	router := handler.NewRouter(handlers, opts, appLogger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Infow("Server starting", "addr", server.Addr, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Infow("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server forced to shutdown", "error", err)
	}

	appLogger.Infow("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// initRedis returns nil when no REDIS_URL is configured.
func initRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return redis.NewClient(opts), nil
}
