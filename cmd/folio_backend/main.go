package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/hotelops/folio-core/internal/core/services"
	"github.com/hotelops/folio-core/internal/handlers"
	"github.com/hotelops/folio-core/internal/middleware"
	"github.com/hotelops/folio-core/internal/platform/notify"
	"github.com/hotelops/folio-core/internal/repositories/database/pgsql"
	"github.com/hotelops/folio-core/internal/repositories/database/sqlite"
	"github.com/hotelops/folio-core/pkg/config"
	"github.com/hotelops/folio-core/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Defer closing the connection pool
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Local durable queue for offline front-desk actions.
	queueStore, err := sqlite.NewQueueRepository(cfg.QueueDBPath)
	if err != nil {
		logger.Error("Failed to open local queue store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := queueStore.Close(); cerr != nil {
			logger.Error("Error closing local queue store", slog.String("error", cerr.Error()))
		}
	}()

	// Change feed for bill reconciliation. LISTEN/NOTIFY against the store
	// when enabled, an in-process bus otherwise (single-terminal deployments).
	var channel notify.Channel
	if cfg.NotifyEnabled {
		listener := notify.NewPGListener(dbPool, logger)
		listener.Start(ctx)
		defer listener.Stop()
		channel = listener
	} else {
		channel = notify.NewBus()
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container, err := services.NewContainer(ctx, &repos, queueStore, channel, services.ContainerConfig{
		TenantID:        cfg.TenantID,
		CheckoutTimeout: cfg.CheckoutTimeout,
		GraceWindow:     cfg.OfflineGraceWindow,
		RetryBaseDelay:  cfg.RetryBaseDelay,
		RetryMaxDelay:   cfg.RetryMaxDelay,
	})
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Background replay tick: drains the offline queue whenever the terminal
	// is back online. Passes coalesce, so a tick overlapping a manual retry
	// is harmless.
	scheduler := cron.New()
	if cfg.RetryTickInterval > 0 {
		_, err = scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.RetryTickInterval), func() {
			delivered, rerr := container.Queue.RetryQueue(ctx)
			if rerr != nil {
				logger.Error("Background replay pass failed", slog.String("error", rerr.Error()))
				return
			}
			if delivered > 0 {
				logger.Info("Background replay delivered queued actions", slog.Int("delivered", delivered))
			}
		})
		if err != nil {
			logger.Error("Failed to schedule queue replay", slog.String("error", err.Error()))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Staff-ID")
	r.Use(cors.New(corsConfig))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Front-desk terminals are low-volume clients; the limit only guards
	// against a looping terminal.
	rateLimiter := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 300})

	handlers.RegisterRoutes(r, cfg, container, rateLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory over a temporary database/sql connection.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		migrationDB.Close()
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		m.Close()
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
