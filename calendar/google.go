package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// googleClient implements Client on top of the Google Calendar API. The
// token is static: refreshing is the token lifecycle manager's job, not a
// hidden side effect of API calls.
type googleClient struct {
	svc *gcal.Service
}

// NewGoogleClient builds a Calendar API client from an already-valid access
// token.
func NewGoogleClient(ctx context.Context, token *oauth2.Token) (Client, error) {
	svc, err := gcal.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &googleClient{svc: svc}, nil
}

func (c *googleClient) ListCalendars(ctx context.Context) ([]*gcal.CalendarListEntry, error) {
	var entries []*gcal.CalendarListEntry
	pageToken := ""
	for {
		call := c.svc.CalendarList.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list calendars: %w", err)
		}
		entries = append(entries, list.Items...)
		pageToken = list.NextPageToken
		if pageToken == "" {
			return entries, nil
		}
	}
}

func (c *googleClient) InsertCalendar(ctx context.Context, cal *gcal.Calendar) (*gcal.Calendar, error) {
	created, err := c.svc.Calendars.Insert(cal).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}
	return created, nil
}

func (c *googleClient) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, props map[string]string) ([]*gcal.Event, error) {
	var events []*gcal.Event
	pageToken := ""
	for {
		call := c.svc.Events.List(calendarID).
			Context(ctx).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			MaxResults(2500)
		for k, v := range props {
			call = call.PrivateExtendedProperty(k + "=" + v)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		events = append(events, list.Items...)
		pageToken = list.NextPageToken
		if pageToken == "" {
			return events, nil
		}
	}
}

func (c *googleClient) InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return created, nil
}

func (c *googleClient) UpdateEvent(ctx context.Context, calendarID, eventID string, event *gcal.Event) (*gcal.Event, error) {
	updated, err := c.svc.Events.Update(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

func (c *googleClient) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
