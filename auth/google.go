package auth

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/your-org/family-calendar-sync/config"
	"github.com/your-org/family-calendar-sync/database"
	"github.com/your-org/family-calendar-sync/models"
	"github.com/your-org/family-calendar-sync/util"
)

// GoogleService manages the Google Calendar connect flow: authorization URL,
// callback code exchange, first credential record, and disconnect.
type GoogleService struct {
	store       *database.IntegrationStore
	logger      *logrus.Logger
	oauthConfig *oauth2.Config

	defaultCalendarName string

	// In-memory state for the OAuth flow
	stateMutex stdsync.Mutex
	stateStore map[string]uuid.UUID // Maps state to user ID
}

// NewGoogleService creates a new Google connect service
func NewGoogleService(cfg *config.Config, store *database.IntegrationStore, logger *logrus.Logger) *GoogleService {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			gcal.CalendarScope,
			oauth2api.UserinfoEmailScope,
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleService{
		store:               store,
		logger:              logger,
		oauthConfig:         oauthConfig,
		defaultCalendarName: cfg.DefaultCalendarName,
		stateStore:          make(map[string]uuid.UUID),
	}
}

// OAuthConfig exposes the configured oauth2 client for the sync engine's
// token refresher.
func (s *GoogleService) OAuthConfig() *oauth2.Config {
	return s.oauthConfig
}

// AuthorizationURL returns the consent URL for a user. Offline access and
// forced approval make Google return a refresh token.
func (s *GoogleService) AuthorizationURL(userID uuid.UUID) string {
	state := util.GenerateRandomString(32)

	s.stateMutex.Lock()
	s.stateStore[state] = userID
	s.stateMutex.Unlock()

	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback verifies the state, exchanges the authorization code,
// records the connected account's email, and persists the credential record.
func (s *GoogleService) HandleCallback(ctx context.Context, state, code string) (*models.CalendarIntegration, error) {
	s.stateMutex.Lock()
	userID, exists := s.stateStore[state]
	delete(s.stateStore, state)
	s.stateMutex.Unlock()

	if !exists {
		return nil, fmt.Errorf("invalid state parameter")
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	email, err := s.fetchEmail(ctx, token)
	if err != nil {
		return nil, err
	}

	integration := &models.CalendarIntegration{
		UserID:              userID,
		Provider:            models.ProviderGoogle,
		Email:               util.NormalizeEmail(email),
		AccessToken:         token.AccessToken,
		RefreshToken:        token.RefreshToken,
		TokenExpiry:         token.Expiry,
		SyncEnabled:         true,
		SyncTasksToCalendar: true,
		SyncCalendarToTasks: false,
		CalendarName:        s.defaultCalendarName,
		LastSyncStatus:      models.SyncStatusPending,
	}

	if err := s.store.Upsert(ctx, integration); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userId":      userID,
		"email":       integration.Email,
		"has_refresh": token.RefreshToken != "",
	}).Info("Google Calendar connected")

	return integration, nil
}

// fetchEmail calls the user-info endpoint once, at connection time.
func (s *GoogleService) fetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get user info: %w", err)
	}
	return info.Email, nil
}

// Disconnect deletes the credential record. Sync treats the absence of a
// record as disabled, so no further cleanup is needed.
func (s *GoogleService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	return s.store.Delete(ctx, userID, models.ProviderGoogle)
}
