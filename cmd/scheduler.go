package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/workforce-management/internal/core/events"
	initiativePostgres "github.com/frahmantamala/workforce-management/internal/initiative/postgres"
	"github.com/frahmantamala/workforce-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/workforce-management/internal/notification/postgres"
	projectPostgres "github.com/frahmantamala/workforce-management/internal/project/postgres"
	userPostgres "github.com/frahmantamala/workforce-management/internal/user/postgres"
	"github.com/frahmantamala/workforce-management/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the notification scan scheduler",
	Long:  `Run the notification rule engine periodically against the current entity store.`,
	Run: func(cmd *cobra.Command, args []string) {
		startScheduler()
	},
}

var scanInterval time.Duration

func init() {
	schedulerCmd.Flags().DurationVar(&scanInterval, "interval", 0, "Scan interval (overrides config)")
}

func startScheduler() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithLevel(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.EventTypeNotificationAlert, func(ctx context.Context, event events.Event) error {
		lg.Info("alert push",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	scanner := notification.NewService(
		notification.NewEngine(config.Notifications),
		notificationPostgres.NewNotificationRepository(gormDB),
		userPostgres.NewUserRepository(gormDB),
		projectPostgres.NewProjectRepository(gormDB),
		initiativePostgres.NewInitiativeRepository(gormDB),
		eventBus,
		lg,
	)

	interval := config.Notifications.WithDefaults().ScanInterval
	if scanInterval > 0 {
		interval = scanInterval
	}

	lg.Info("notification scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// First pass runs immediately so a restart does not delay alerts by a
	// full interval.
	if err := scanner.Scan(); err != nil {
		lg.Error("notification scan failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := scanner.Scan(); err != nil {
				lg.Error("notification scan failed", "error", err)
			}
		case sig := <-sigChan:
			lg.Info("received signal, shutting down scheduler", "signal", sig)
			if err := db.Close(); err != nil {
				lg.Error("database close error", "error", err)
			}
			lg.Info("scheduler shutdown complete")
			return
		}
	}
}
