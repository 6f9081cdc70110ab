// Package calendar wraps the Google Calendar API behind the narrow surface
// the sync engine needs, so the engine can be tested against a fake.
package calendar

import (
	"context"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// Client is the provider surface used by the sync engine. Implementations
// must scope every call to the given calendar id and honor the context
// deadline.
type Client interface {
	ListCalendars(ctx context.Context) ([]*gcal.CalendarListEntry, error)
	InsertCalendar(ctx context.Context, cal *gcal.Calendar) (*gcal.Calendar, error)

	// ListEvents returns events in [timeMin, timeMax) that carry every
	// private extended property in props.
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, props map[string]string) ([]*gcal.Event, error)
	InsertEvent(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, event *gcal.Event) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
