package sync

import (
	"context"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/your-org/family-calendar-sync/calendar"
)

// ResolveCalendar returns the id of the dedicated application calendar,
// creating it on first use. Name matching is exact, so repeated calls never
// create duplicates (true concurrent first-use races are not guarded; both
// racers converge on whichever calendar the next pass finds first).
func ResolveCalendar(ctx context.Context, client calendar.Client, name, timeZone string) (string, error) {
	entries, err := client.ListCalendars(ctx)
	if err != nil {
		return "", &ProviderError{Op: "list calendars", Err: err}
	}

	for _, entry := range entries {
		if entry.Summary == name {
			return entry.Id, nil
		}
	}

	created, err := client.InsertCalendar(ctx, &gcal.Calendar{
		Summary:  name,
		TimeZone: timeZone,
	})
	if err != nil {
		return "", &ProviderError{Op: "insert calendar", Err: err}
	}
	return created.Id, nil
}
