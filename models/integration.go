package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// ProviderGoogle is the only calendar provider currently supported.
const ProviderGoogle = "google"

// Sync status values persisted on the integration record.
const (
	SyncStatusPending = "pending"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// CalendarIntegration links a user to an external calendar account. One row
// per (user, provider); created on OAuth callback, deleted on disconnect.
//
// RefreshToken is immutable once issued by the provider for a given
// authorization. AccessToken and TokenExpiry are always replaced together.
type CalendarIntegration struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_integrations_user_provider;not null" json:"userId"`
	Provider     string    `gorm:"type:varchar(50);uniqueIndex:idx_integrations_user_provider;not null" json:"provider"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	AccessToken  string    `gorm:"type:text" json:"-"` // Not exposed in JSON
	RefreshToken string    `gorm:"type:text" json:"-"` // Not exposed in JSON
	TokenExpiry  time.Time `gorm:"type:timestamp" json:"tokenExpiry"`

	SyncEnabled         bool   `gorm:"default:true" json:"syncEnabled"`
	SyncTasksToCalendar bool   `gorm:"default:true" json:"syncTasksToCalendar"`
	SyncCalendarToTasks bool   `gorm:"default:false" json:"syncCalendarToTasks"`
	CalendarName        string `gorm:"type:varchar(255)" json:"calendarName"`

	LastSyncAt     *time.Time `gorm:"type:timestamp" json:"lastSyncAt"`
	LastSyncStatus string     `gorm:"type:varchar(20);default:'pending'" json:"lastSyncStatus"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate is called before inserting a new integration into the database
func (i *CalendarIntegration) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.LastSyncStatus == "" {
		i.LastSyncStatus = SyncStatusPending
	}
	return nil
}

// Token returns the stored credential as an oauth2 token.
func (i *CalendarIntegration) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  i.AccessToken,
		RefreshToken: i.RefreshToken,
		Expiry:       i.TokenExpiry,
		TokenType:    "Bearer",
	}
}
