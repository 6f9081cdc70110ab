package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/your-org/family-calendar-sync/calendar"
	"github.com/your-org/family-calendar-sync/models"
)

// IntegrationStore is the persistence surface the engine needs. Implemented
// by database.IntegrationStore.
type IntegrationStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID, provider string) (*models.CalendarIntegration, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, expiry time.Time) error
	UpdateSyncStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	ListSyncEnabled(ctx context.Context) ([]models.CalendarIntegration, error)
}

// TaskProvider supplies the current projection of tasks that should appear
// on the user's calendar. Owned by the task-management service; the engine
// never caches projections across calls.
type TaskProvider interface {
	TasksForUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
}

// ClientFactory builds an authenticated provider client for one sync pass.
type ClientFactory func(ctx context.Context, token *oauth2.Token) (calendar.Client, error)

// Service drives a full sync: token lifecycle, calendar resolution, then
// reconciliation, persisting the outcome on the integration record.
type Service struct {
	store     IntegrationStore
	tasks     TaskProvider
	tokens    *TokenManager
	rec       *Reconciler
	newClient ClientFactory
	clock     Clock
	logger    *logrus.Logger

	calendarName string
	timeZone     string
	timeout      time.Duration
}

// NewService creates a new sync service
func NewService(store IntegrationStore, tasks TaskProvider, tokens *TokenManager, rec *Reconciler,
	newClient ClientFactory, clock Clock, logger *logrus.Logger,
	calendarName, timeZone string, timeout time.Duration) *Service {
	return &Service{
		store:        store,
		tasks:        tasks,
		tokens:       tokens,
		rec:          rec,
		newClient:    newClient,
		clock:        clock,
		logger:       logger,
		calendarName: calendarName,
		timeZone:     timeZone,
		timeout:      timeout,
	}
}

// SyncUserCalendar runs one sync pass for a user. Disabled or absent
// integrations return a no-op success with zero provider calls. The outcome
// is always persisted on the record, even on failure, so the settings
// surface can reflect sync health.
func (s *Service) SyncUserCalendar(ctx context.Context, userID uuid.UUID) models.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in, err := s.store.GetByUserID(ctx, userID, models.ProviderGoogle)
	if err != nil {
		s.logger.WithError(err).WithField("userId", userID).Error("Failed to load integration")
		return models.SyncResult{Success: false, Error: err.Error()}
	}
	if in == nil || !in.SyncEnabled || !in.SyncTasksToCalendar {
		return models.SyncResult{Success: true}
	}

	result := s.run(ctx, in)

	status := models.SyncStatusSuccess
	if !result.Success {
		status = models.SyncStatusError
	}
	// Status must land even when the pass timed out, so the write uses a
	// detached context.
	statusCtx, statusCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer statusCancel()
	if err := s.store.UpdateSyncStatus(statusCtx, in.ID, status, s.clock.Now()); err != nil {
		s.logger.WithError(err).WithField("userId", userID).Error("Failed to persist sync status")
	}

	if !result.Success {
		s.logger.WithFields(logrus.Fields{
			"userId": userID,
			"error":  result.Error,
		}).Warn("Calendar sync failed")
	}
	return result
}

func (s *Service) run(ctx context.Context, in *models.CalendarIntegration) models.SyncResult {
	in, err := s.tokens.EnsureValidToken(ctx, in)
	if err != nil {
		return models.SyncResult{Success: false, Error: err.Error()}
	}

	client, err := s.newClient(ctx, in.Token())
	if err != nil {
		return models.SyncResult{Success: false, Error: err.Error()}
	}

	name := in.CalendarName
	if name == "" {
		name = s.calendarName
	}
	calendarID, err := ResolveCalendar(ctx, client, name, s.timeZone)
	if err != nil {
		return models.SyncResult{Success: false, Error: err.Error()}
	}

	tasks, err := s.tasks.TasksForUser(ctx, in.UserID)
	if err != nil {
		return models.SyncResult{Success: false, Error: err.Error()}
	}

	return s.rec.Reconcile(ctx, client, calendarID, tasks)
}

// SyncAllDueUsers runs the authoritative batch sweep over every integration
// with outbound sync enabled. One user's failure never stops the sweep.
func (s *Service) SyncAllDueUsers(ctx context.Context) []models.SyncResult {
	list, err := s.store.ListSyncEnabled(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list integrations for batch sync")
		return nil
	}

	results := make([]models.SyncResult, 0, len(list))
	for _, in := range list {
		results = append(results, s.SyncUserCalendar(ctx, in.UserID))
	}
	return results
}
