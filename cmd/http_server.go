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

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/assignment"
	"github.com/frahmantamala/workforce-management/internal/auth"
	authPostgres "github.com/frahmantamala/workforce-management/internal/auth/postgres"
	"github.com/frahmantamala/workforce-management/internal/core/events"
	"github.com/frahmantamala/workforce-management/internal/initiative"
	initiativePostgres "github.com/frahmantamala/workforce-management/internal/initiative/postgres"
	"github.com/frahmantamala/workforce-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/workforce-management/internal/notification/postgres"
	"github.com/frahmantamala/workforce-management/internal/project"
	projectPostgres "github.com/frahmantamala/workforce-management/internal/project/postgres"
	"github.com/frahmantamala/workforce-management/internal/transport/rest"
	"github.com/frahmantamala/workforce-management/internal/transport/swagger"
	"github.com/frahmantamala/workforce-management/internal/user"
	userPostgres "github.com/frahmantamala/workforce-management/internal/user/postgres"
	"github.com/frahmantamala/workforce-management/internal/workload"
	"github.com/frahmantamala/workforce-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.DB, deps.Handlers,
		deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithLevel(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	// Boot fails fast on a broken API contract.
	if _, err := swagger.LoadSpec("./api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	handlers, eventBus := buildHandlers(config, gormDB, lg)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		EventBus: eventBus,
	}, nil
}

// buildHandlers wires the full service graph: repositories, the mutation
// ledger, the capacity calculator, the assignment validator and the rule
// engine, plus the event bus fan-out for push alerts.
func buildHandlers(config *internal.Config, gormDB *gorm.DB, lg *slog.Logger) (rest.Handlers, *events.EventBus) {
	userRepo := userPostgres.NewUserRepository(gormDB)
	projectRepo := projectPostgres.NewProjectRepository(gormDB)
	initiativeRepo := initiativePostgres.NewInitiativeRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.SessionSecret,
		config.Security.SessionSecret+":refresh",
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo, authService, lg)

	workloadService := workload.NewService(userRepo, projectRepo, initiativeRepo, lg)
	projectService := project.NewService(projectRepo, lg)
	assignmentService := assignment.NewService(projectService, workloadService, lg)
	initiativeService := initiative.NewService(initiativeRepo, lg)

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.EventTypeNotificationAlert, func(ctx context.Context, event events.Event) error {
		lg.Info("alert push",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	engine := notification.NewEngine(config.Notifications)
	notificationService := notification.NewService(
		engine, notificationRepo, userRepo, projectRepo, initiativeRepo, eventBus, lg)

	return rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Workload:     workload.NewHandler(workloadService),
		Project:      project.NewHandler(projectService),
		Assignment:   assignment.NewHandler(assignmentService),
		Initiative:   initiative.NewHandler(initiativeService),
		Notification: notification.NewHandler(notificationService),
	}, eventBus
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
