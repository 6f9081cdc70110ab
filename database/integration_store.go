package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/family-calendar-sync/models"
)

// IntegrationStore is the persistence adapter for calendar integration
// records. Pure data access; all updates are single-row, last-write-wins.
type IntegrationStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewIntegrationStore creates a new integration store
func NewIntegrationStore(db *gorm.DB, logger *logrus.Logger) *IntegrationStore {
	return &IntegrationStore{db: db, logger: logger}
}

// GetByUserID loads the integration record for a user and provider.
// Returns (nil, nil) when no record exists: a missing record means sync is
// disconnected, never an error.
func (s *IntegrationStore) GetByUserID(ctx context.Context, userID uuid.UUID, provider string) (*models.CalendarIntegration, error) {
	var in models.CalendarIntegration
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}
	return &in, nil
}

// Upsert creates the integration record or updates an existing row for the
// same (user, provider). An empty refresh token on the incoming record never
// overwrites a stored one: Google only returns it on first consent.
func (s *IntegrationStore) Upsert(ctx context.Context, in *models.CalendarIntegration) error {
	existing, err := s.GetByUserID(ctx, in.UserID, in.Provider)
	if err != nil {
		return err
	}

	if existing == nil {
		if err := s.db.WithContext(ctx).Create(in).Error; err != nil {
			return fmt.Errorf("failed to create integration: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"userId":   in.UserID,
			"provider": in.Provider,
			"email":    in.Email,
		}).Info("Calendar integration created")
		return nil
	}

	existing.Email = in.Email
	existing.AccessToken = in.AccessToken
	existing.TokenExpiry = in.TokenExpiry
	if in.RefreshToken != "" {
		existing.RefreshToken = in.RefreshToken
	}
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return fmt.Errorf("failed to update integration: %w", err)
	}
	*in = *existing

	s.logger.WithFields(logrus.Fields{
		"userId":   in.UserID,
		"provider": in.Provider,
	}).Info("Calendar integration updated")
	return nil
}

// UpdateTokens replaces the access token and its expiry atomically.
func (s *IntegrationStore) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, expiry time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.CalendarIntegration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"token_expiry": expiry,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	return nil
}

// UpdateSyncStatus records the outcome and time of the latest sync attempt.
func (s *IntegrationStore) UpdateSyncStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.CalendarIntegration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_sync_status": status,
			"last_sync_at":     at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	return nil
}

// SettingsPatch carries optional settings changes from the settings surface.
type SettingsPatch struct {
	SyncEnabled         *bool   `json:"syncEnabled"`
	SyncTasksToCalendar *bool   `json:"syncTasksToCalendar"`
	SyncCalendarToTasks *bool   `json:"syncCalendarToTasks"`
	CalendarName        *string `json:"calendarName"`
}

// UpdateSettings applies a partial settings update to the user's record.
func (s *IntegrationStore) UpdateSettings(ctx context.Context, userID uuid.UUID, provider string, patch SettingsPatch) (*models.CalendarIntegration, error) {
	in, err := s.GetByUserID(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, nil
	}

	updates := map[string]interface{}{}
	if patch.SyncEnabled != nil {
		updates["sync_enabled"] = *patch.SyncEnabled
	}
	if patch.SyncTasksToCalendar != nil {
		updates["sync_tasks_to_calendar"] = *patch.SyncTasksToCalendar
	}
	if patch.SyncCalendarToTasks != nil {
		updates["sync_calendar_to_tasks"] = *patch.SyncCalendarToTasks
	}
	if patch.CalendarName != nil && *patch.CalendarName != "" {
		updates["calendar_name"] = *patch.CalendarName
	}
	if len(updates) == 0 {
		return in, nil
	}

	err = s.db.WithContext(ctx).
		Model(&models.CalendarIntegration{}).
		Where("id = ?", in.ID).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return s.GetByUserID(ctx, userID, provider)
}

// Delete removes the integration record on explicit disconnect.
func (s *IntegrationStore) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&models.CalendarIntegration{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"userId":   userID,
		"provider": provider,
	}).Info("Calendar integration disconnected")
	return nil
}

// ListSyncEnabled returns every integration eligible for the scheduled
// batch sweep.
func (s *IntegrationStore) ListSyncEnabled(ctx context.Context) ([]models.CalendarIntegration, error) {
	var list []models.CalendarIntegration
	err := s.db.WithContext(ctx).
		Where("sync_enabled = ? AND sync_tasks_to_calendar = ?", true, true).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return list, nil
}
