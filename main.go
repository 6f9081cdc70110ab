package main

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/your-org/family-calendar-sync/auth"
	"github.com/your-org/family-calendar-sync/calendar"
	"github.com/your-org/family-calendar-sync/config"
	"github.com/your-org/family-calendar-sync/database"
	"github.com/your-org/family-calendar-sync/server"
	"github.com/your-org/family-calendar-sync/sync"
	"github.com/your-org/family-calendar-sync/tasks"
	"github.com/your-org/family-calendar-sync/util"
)

func main() {
	logger := util.NewLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Refusing to start without Google application credentials")
	}

	loc, err := time.LoadLocation(cfg.CalendarTimeZone)
	if err != nil {
		logger.WithError(err).WithField("timezone", cfg.CalendarTimeZone).Fatal("Invalid calendar timezone")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	store := database.NewIntegrationStore(db, logger)
	googleSvc := auth.NewGoogleService(cfg, store, logger)

	clock := sync.SystemClock
	mapper := sync.NewEventMapper(clock, loc, cfg.AppBaseURL)
	reconciler := sync.NewReconciler(mapper, clock, logger)
	tokenManager := sync.NewTokenManager(store, sync.NewOAuthRefresher(googleSvc.OAuthConfig()), clock, logger)
	taskClient := tasks.NewClient(cfg.TasksAPIURL)

	newClient := func(ctx context.Context, token *oauth2.Token) (calendar.Client, error) {
		return calendar.NewGoogleClient(ctx, token)
	}

	syncSvc := sync.NewService(store, taskClient, tokenManager, reconciler, newClient,
		clock, logger, cfg.DefaultCalendarName, cfg.CalendarTimeZone, cfg.SyncTimeout)

	queue := sync.NewQueue(syncSvc, cfg.QueueSize, logger)
	queue.Start()
	defer queue.Stop()

	scheduler := sync.NewScheduler(syncSvc, cfg.SyncInterval, logger)
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.NewServer(googleSvc, store, queue, logger)
	logger.WithField("port", cfg.Port).Info("Starting calendar sync service")
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("HTTP server exited")
	}
}
