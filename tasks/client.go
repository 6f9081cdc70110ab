// Package tasks is the read-only client for the task-management service,
// which owns task and assignment data. The sync engine consumes a fresh
// projection on every call and never caches it.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/family-calendar-sync/models"
)

// Client fetches per-user task projections over the internal API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new task projection client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// TasksForUser returns the tasks that should currently appear on the user's
// calendar. Projections failing boundary validation are dropped here rather
// than passed into the engine.
func (c *Client) TasksForUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	url := fmt.Sprintf("%s/internal/users/%s/calendar-tasks", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task projection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task service returned status %d", resp.StatusCode)
	}

	var raw []models.Task
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode task projection: %w", err)
	}

	tasks := make([]models.Task, 0, len(raw))
	for _, t := range raw {
		if err := t.Validate(); err != nil {
			continue
		}
		t.Normalize()
		tasks = append(tasks, t)
	}
	return tasks, nil
}
