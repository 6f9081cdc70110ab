package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/your-org/family-calendar-sync/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakeClient is an in-memory calendar provider with failure injection.
type fakeClient struct {
	calendars []*gcal.CalendarListEntry
	events    map[string]*gcal.Event
	nextID    int

	listCalendarCalls int
	listEventCalls    int
	insertedCalendars int

	failList      bool
	failInsertFor map[string]bool // keyed by task_id tag
	failUpdateFor map[string]bool
	failDelete    bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		events:        make(map[string]*gcal.Event),
		failInsertFor: make(map[string]bool),
		failUpdateFor: make(map[string]bool),
	}
}

func taskIDOf(ev *gcal.Event) string {
	if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil {
		return ""
	}
	return ev.ExtendedProperties.Private[propTaskID]
}

// addManualEvent seeds an event the user created by hand: no ownership tag.
func (c *fakeClient) addManualEvent(summary string) string {
	c.nextID++
	id := fmt.Sprintf("manual-%d", c.nextID)
	c.events[id] = &gcal.Event{Id: id, Summary: summary}
	return id
}

func (c *fakeClient) ListCalendars(ctx context.Context) ([]*gcal.CalendarListEntry, error) {
	c.listCalendarCalls++
	return c.calendars, nil
}

func (c *fakeClient) InsertCalendar(ctx context.Context, cal *gcal.Calendar) (*gcal.Calendar, error) {
	c.insertedCalendars++
	c.nextID++
	id := fmt.Sprintf("cal-%d", c.nextID)
	c.calendars = append(c.calendars, &gcal.CalendarListEntry{Id: id, Summary: cal.Summary})
	return &gcal.Calendar{Id: id, Summary: cal.Summary, TimeZone: cal.TimeZone}, nil
}

func (c *fakeClient) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, props map[string]string) ([]*gcal.Event, error) {
	c.listEventCalls++
	if c.failList {
		return nil, fmt.Errorf("simulated list failure")
	}
	var out []*gcal.Event
	for _, ev := range c.events {
		matches := true
		for k, v := range props {
			if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil || ev.ExtendedProperties.Private[k] != v {
				matches = false
				break
			}
		}
		if matches {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (c *fakeClient) InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	if c.failInsertFor[taskIDOf(event)] {
		return nil, fmt.Errorf("simulated insert failure")
	}
	c.nextID++
	stored := *event
	stored.Id = fmt.Sprintf("ev-%d", c.nextID)
	c.events[stored.Id] = &stored
	return &stored, nil
}

func (c *fakeClient) UpdateEvent(ctx context.Context, calendarID, eventID string, event *gcal.Event) (*gcal.Event, error) {
	if c.failUpdateFor[taskIDOf(event)] {
		return nil, fmt.Errorf("simulated update failure")
	}
	if _, ok := c.events[eventID]; !ok {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	stored := *event
	stored.Id = eventID
	c.events[eventID] = &stored
	return &stored, nil
}

func (c *fakeClient) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if c.failDelete {
		return fmt.Errorf("simulated delete failure")
	}
	if _, ok := c.events[eventID]; !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	delete(c.events, eventID)
	return nil
}

// fakeStore is an in-memory IntegrationStore.
type fakeStore struct {
	integration *models.CalendarIntegration

	tokenWrites  int
	statusWrites int
	lastStatus   string
	lastSyncAt   time.Time
}

func (s *fakeStore) GetByUserID(ctx context.Context, userID uuid.UUID, provider string) (*models.CalendarIntegration, error) {
	if s.integration == nil || s.integration.UserID != userID {
		return nil, nil
	}
	in := *s.integration
	return &in, nil
}

func (s *fakeStore) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, expiry time.Time) error {
	s.tokenWrites++
	if s.integration != nil {
		s.integration.AccessToken = accessToken
		s.integration.TokenExpiry = expiry
	}
	return nil
}

func (s *fakeStore) UpdateSyncStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	s.statusWrites++
	s.lastStatus = status
	s.lastSyncAt = at
	return nil
}

func (s *fakeStore) ListSyncEnabled(ctx context.Context) ([]models.CalendarIntegration, error) {
	if s.integration == nil || !s.integration.SyncEnabled || !s.integration.SyncTasksToCalendar {
		return nil, nil
	}
	return []models.CalendarIntegration{*s.integration}, nil
}

// fakeRefresher simulates the provider token endpoint.
type fakeRefresher struct {
	token *oauth2.Token
	err   error
	calls int
}

func (r *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.token, nil
}

// staticTasks is a TaskProvider returning a fixed projection.
type staticTasks struct {
	tasks []models.Task
	err   error
}

func (p *staticTasks) TasksForUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return p.tasks, p.err
}

func testTask(id, name string) models.Task {
	return models.Task{
		ID:                 id,
		Name:               name,
		Frequency:          models.FrequencyOneTime,
		RecurrenceInterval: 1,
	}
}
