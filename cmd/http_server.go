package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/facility-management/internal"
	"github.com/frahmantamala/facility-management/internal/auth"
	authPostgres "github.com/frahmantamala/facility-management/internal/auth/postgres"
	authRedis "github.com/frahmantamala/facility-management/internal/auth/redis"
	"github.com/frahmantamala/facility-management/internal/core/events"
	"github.com/frahmantamala/facility-management/internal/deployment"
	deploymentPostgres "github.com/frahmantamala/facility-management/internal/deployment/postgres"
	"github.com/frahmantamala/facility-management/internal/facility"
	facilityPostgres "github.com/frahmantamala/facility-management/internal/facility/postgres"
	"github.com/frahmantamala/facility-management/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/facility-management/internal/inventory/postgres"
	"github.com/frahmantamala/facility-management/internal/notification"
	"github.com/frahmantamala/facility-management/internal/schedule"
	schedulePostgres "github.com/frahmantamala/facility-management/internal/schedule/postgres"
	"github.com/frahmantamala/facility-management/internal/ticket"
	ticketPostgres "github.com/frahmantamala/facility-management/internal/ticket/postgres"
	"github.com/frahmantamala/facility-management/internal/transport/rest"
	"github.com/frahmantamala/facility-management/internal/transport/swagger"
	"github.com/frahmantamala/facility-management/internal/user"
	userPostgres "github.com/frahmantamala/facility-management/internal/user/postgres"
	"github.com/frahmantamala/facility-management/pkg/logger"

	"github.com/go-chi/chi"
	goredis "github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Redis    *goredis.Client
	EventBus *events.EventBus
	Notifier *notification.WebhookNotifier
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.close(ctx)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

// close drains in-flight events before releasing connections.
func (d *Dependencies) close(ctx context.Context) {
	if err := d.EventBus.Wait(ctx); err != nil {
		d.Logger.Error("Event bus drain error", "error", err)
	}
	if d.Notifier != nil {
		if err := d.Notifier.Shutdown(ctx); err != nil {
			d.Logger.Error("Notifier shutdown error", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.Handlers, rest.RouterConfig{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		OpenAPIPath:    deps.Config.Server.OpenAPIPath,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	ctx := context.Background()
	if config.Server.OpenAPIPath != "" {
		if _, err := swagger.LoadSpec(ctx, config.Server.OpenAPIPath); err != nil {
			return nil, err
		}
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	checks := map[string]rest.Check{
		"postgres": db.PingContext,
	}

	var (
		grantCache  auth.GrantCache = auth.NewNoopGrantCache()
		redisClient *goredis.Client
	)
	if config.Redis.Enabled {
		redisClient, err = authRedis.NewClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		grantCache = authRedis.NewGrantCache(redisClient, config.Redis.GrantTTL)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	bus := events.NewEventBus(lg)
	var notifier *notification.WebhookNotifier
	if config.Notification.Enabled {
		notifier = notification.NewWebhookNotifier(notification.Config{
			WebhookURL:    config.Notification.WebhookURL,
			SigningSecret: config.Notification.SigningSecret,
			Timeout:       config.Notification.Timeout,
			RetryCount:    config.Notification.RetryCount,
		}, lg)
		bus.Subscribe(events.AllEvents, notifier.Handle)
	}

	checker := auth.NewPermissionChecker()
	role, err := auth.ParseRole(config.Auth.DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("invalid auth.default_role: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gdb), tokenGen, grantCache, auth.ServiceConfig{
		DefaultRole: role,
		BCryptCost:  config.Security.BCryptCost,
	}, lg)

	facilityService := facility.NewService(facilityPostgres.NewFacilityRepository(gdb), lg)
	deploymentService := deployment.NewService(
		deploymentPostgres.NewDeploymentRepository(gdb),
		deploymentPostgres.NewLedgerRepository(db),
		facilityService,
		bus,
		lg,
	)
	inventoryService := inventory.NewService(inventoryPostgres.NewInventoryRepository(gdb), facilityService, deploymentService, lg)
	ticketService := ticket.NewService(ticketPostgres.NewTicketRepository(gdb), facilityService, checker, bus, lg)
	scheduleService := schedule.NewService(schedulePostgres.NewScheduleRepository(gdb), checker, lg)
	userService := user.NewService(userPostgres.NewUserRepository(gdb), checker, grantCache, bus, lg)

	handlers := rest.Handlers{
		Health:     rest.NewHealthHandler(checks),
		Auth:       auth.NewHandler(authService),
		RBAC:       auth.NewRBACAuthorization(checker, lg),
		User:       user.NewHandler(userService),
		Facility:   facility.NewHandler(facilityService),
		Inventory:  inventory.NewHandler(inventoryService),
		Deployment: deployment.NewHandler(deploymentService),
		Ticket:     ticket.NewHandler(ticketService),
		Schedule:   schedule.NewHandler(scheduleService),
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Redis:    redisClient,
		EventBus: bus,
		Notifier: notifier,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Logger:   lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
