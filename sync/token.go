package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/your-org/family-calendar-sync/models"
)

// tokenExpiryMargin is the safety window before expiry inside which the
// access token is treated as unusable.
const tokenExpiryMargin = 60 * time.Second

// TokenRefresher exchanges a refresh token for a fresh access token at the
// provider's token endpoint.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type oauthRefresher struct {
	cfg *oauth2.Config
}

// NewOAuthRefresher builds the production refresher on top of the oauth2
// token source.
func NewOAuthRefresher(cfg *oauth2.Config) TokenRefresher {
	return &oauthRefresher{cfg: cfg}
}

func (r *oauthRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	src := r.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return src.Token()
}

// TokenManager keeps the stored access token usable, refreshing and
// persisting it when it is expired or about to expire.
type TokenManager struct {
	store     IntegrationStore
	refresher TokenRefresher
	clock     Clock
	logger    *logrus.Logger
}

// NewTokenManager creates a new token manager
func NewTokenManager(store IntegrationStore, refresher TokenRefresher, clock Clock, logger *logrus.Logger) *TokenManager {
	return &TokenManager{store: store, refresher: refresher, clock: clock, logger: logger}
}

// EnsureValidToken returns an integration whose access token is valid for at
// least the safety margin. The no-op path performs no persistence write; a
// successful refresh performs exactly one.
func (m *TokenManager) EnsureValidToken(ctx context.Context, in *models.CalendarIntegration) (*models.CalendarIntegration, error) {
	if in.TokenExpiry.After(m.clock.Now().Add(tokenExpiryMargin)) {
		return in, nil
	}

	if in.RefreshToken == "" {
		return nil, &AuthError{Err: errors.New("no refresh token on record")}
	}

	tok, err := m.refresher.Refresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	in.AccessToken = tok.AccessToken
	in.TokenExpiry = tok.Expiry
	if in.TokenExpiry.IsZero() {
		in.TokenExpiry = m.clock.Now().Add(time.Hour)
	}

	if err := m.store.UpdateTokens(ctx, in.ID, in.AccessToken, in.TokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"integrationId": in.ID,
		"expiry":        in.TokenExpiry,
	}).Info("Access token refreshed")

	return in, nil
}
