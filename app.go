package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amirphl/studio-hiring-api/app/handlers"
	"github.com/amirphl/studio-hiring-api/app/middleware"
	"github.com/amirphl/studio-hiring-api/app/router"
	"github.com/amirphl/studio-hiring-api/app/scheduler"
	"github.com/amirphl/studio-hiring-api/app/services"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/config"
	"github.com/amirphl/studio-hiring-api/docs"
	"github.com/amirphl/studio-hiring-api/logging"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/asaskevich/EventBus"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Application holds the wired server and everything that must be stopped with it
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	notifier  services.NotificationService
	stopFuncs []func()
}

func runServer(cfg *config.ProductionConfig) error {
	logCloser, err := logging.Setup(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer logCloser.Close()

	log.WithFields(log.Fields{
		"version":     cfg.Deployment.Version,
		"environment": cfg.Deployment.Environment,
	}).Info("Starting studio hiring API")

	app, err := initializeApplication(cfg)
	if err != nil {
		return err
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.router.Start(cfg.ListenAddress())
	}()

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutting down gracefully...")
	case err := <-serverErr:
		if err != nil {
			app.stop()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	if err := app.router.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}
	app.stop()

	log.Info("Server stopped")
	return nil
}

// stop runs stopFuncs in reverse registration order, then lets queued
// notifications finish
func (a *Application) stop() {
	for i := len(a.stopFuncs) - 1; i >= 0; i-- {
		a.stopFuncs[i]()
	}
	if a.notifier != nil {
		a.notifier.Wait()
	}
}

// initializeDatabase opens PostgreSQL or SQLite depending on cfg.Driver
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithFields(log.Fields{
		"driver":         cfg.Driver,
		"max_open_conns": cfg.MaxOpenConns,
	}).Info("Database connection established")

	return db, nil
}

// initializeRedis connects to Redis when it is the configured cache provider
func initializeRedis(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.WithField("db", opt.DB).Info("Redis connection established")
	return rc, nil
}

// startCacheHealthMonitor pings Redis periodically so connectivity loss shows
// up in the logs. The returned function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.WithError(err).WithField("error_type", "redis").Error("Redis healthcheck failed")
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeStatsCache returns nil when caching is disabled
func initializeStatsCache(cfg config.CacheConfig, rc *redis.Client) services.StatsCache {
	if !cfg.Enabled {
		return nil
	}
	if rc != nil {
		return services.NewRedisStatsCache(rc, cfg.RedisPrefix, cfg.DefaultTTL)
	}
	return services.NewMemoryStatsCache(cfg.DefaultTTL, cfg.CleanupInterval)
}

func initializeMailer(cfg config.EmailConfig) (services.Mailer, error) {
	switch cfg.Provider {
	case "log":
		return services.NewLogMailer(log.StandardLogger()), nil
	case "smtp":
		return services.NewSMTPMailer(services.SMTPConfig{
			Host:      cfg.Host,
			Port:      cfg.Port,
			Username:  cfg.Username,
			Password:  cfg.Password,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
			UseTLS:    cfg.UseTLS,
		})
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	app := &Application{config: cfg}

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		app.stopFuncs = append(app.stopFuncs, func() { _ = sqlDB.Close() })
	}

	rc, err := initializeRedis(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		app.stopFuncs = append(app.stopFuncs, func() { _ = rc.Close() })
		app.stopFuncs = append(app.stopFuncs, startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval))
	}
	cache := initializeStatsCache(cfg.Cache, rc)

	// Repositories
	adminRepo := repository.NewAdminRepository(db, cfg.Security.BcryptCost)
	jobRepo := repository.NewJobPostingRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	contactRepo := repository.NewContactLeadRepository(db)

	// Services
	tokenService, err := services.NewTokenService(
		cfg.JWT.TokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	mailer, err := initializeMailer(cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	notifier, err := services.NewNotificationService(EventBus.New(), mailer, services.NotificationConfig{
		AdminEmail:  cfg.Admin.NotificationEmail,
		CompanyName: cfg.Email.CompanyName,
		SendTimeout: cfg.Email.Timeout,
	}, log.StandardLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifications: %w", err)
	}
	app.notifier = notifier

	// Flows
	authFlow := businessflow.NewAdminAuthFlow(adminRepo, tokenService, businessflow.AuthPolicy{
		MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
		LockoutDuration:   cfg.Auth.LockoutDuration,
		BcryptCost:        cfg.Security.BcryptCost,
	}, nil)
	accountFlow := businessflow.NewAdminAccountFlow(adminRepo)
	jobFlow := businessflow.NewJobFlow(jobRepo, cache, nil)
	applicationFlow := businessflow.NewApplicationFlow(appRepo, jobRepo, notifier, cache, nil)
	contactFlow := businessflow.NewContactFlow(contactRepo, notifier, cache, nil)
	dashboardFlow := businessflow.NewDashboardFlow(jobRepo, appRepo, contactRepo, cache, nil)

	if err := ensureDefaultAdmin(accountFlow, cfg); err != nil {
		return nil, err
	}

	// Transport
	docs.SwaggerInfo.Version = cfg.Deployment.Version
	app.router = router.NewFiberRouter(router.Config{
		AppName:         "Studio Hiring API",
		Version:         cfg.Deployment.Version,
		AllowOrigins:    cfg.Security.AllowedOrigins,
		GlobalRateLimit: cfg.Security.GlobalRateLimit,
		AuthRateLimit:   cfg.Security.AuthRateLimit,
		RateWindow:      cfg.Security.RateLimitWindow,
		BodyLimit:       cfg.Server.BodyLimit,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
		AccessLog:       cfg.Logging.EnableAccessLog,
		DocsEnabled:     !cfg.IsProduction(),
	}, router.Handlers{
		Auth:        handlers.NewAdminAuthHandler(authFlow, handlers.CookieConfig{Secure: cfg.Security.CookieSecure, Domain: cfg.Security.CookieDomain}),
		Account:     handlers.NewAdminAccountHandler(accountFlow, dashboardFlow),
		Job:         handlers.NewJobHandler(jobFlow, applicationFlow),
		Application: handlers.NewApplicationHandler(applicationFlow),
		Contact:     handlers.NewContactHandler(contactFlow),
	}, middleware.NewAuthMiddleware(authFlow))

	// Background jobs
	if cfg.Scheduler.Enabled {
		expiry, err := scheduler.NewJobExpiryScheduler(jobFlow, cfg.Scheduler.JobExpirySpec)
		if err != nil {
			return nil, fmt.Errorf("invalid job expiry schedule: %w", err)
		}
		stop, err := expiry.Start(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to start job expiry scheduler: %w", err)
		}
		app.stopFuncs = append(app.stopFuncs, stop)
	}

	return app, nil
}

// ensureDefaultAdmin bootstraps the first super-admin when credentials are configured
func ensureDefaultAdmin(accounts businessflow.AdminAccountFlow, cfg *config.ProductionConfig) error {
	if cfg.Admin.DefaultPassword == "" || cfg.Admin.DefaultEmail == "" {
		log.Debug("Default admin credentials not configured; skipping bootstrap")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := accounts.EnsureDefaultAdmin(ctx, defaultAdminConfig(cfg)); err != nil {
		if be, ok := businessflow.AsBusinessError(err); ok {
			return fmt.Errorf("failed to create default admin (%s): %w", be.Code, err)
		}
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	return nil
}
