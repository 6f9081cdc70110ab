package sync

import (
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/your-org/family-calendar-sync/models"
)

// Ownership tag keys. The tag is the only mechanism by which the engine
// recognizes events it manages; untagged events are never touched.
const (
	propTaskID = "task_id"
	propSynced = "synced"
)

const (
	defaultDueHour = 9
	eventDuration  = time.Hour
)

// EventMapper converts task projections into calendar event payloads. Pure:
// given the same task and clock reading it always produces the same payload.
type EventMapper struct {
	clock      Clock
	loc        *time.Location
	appBaseURL string
}

// NewEventMapper creates a new event mapper
func NewEventMapper(clock Clock, loc *time.Location, appBaseURL string) *EventMapper {
	if loc == nil {
		loc = time.Local
	}
	return &EventMapper{clock: clock, loc: loc, appBaseURL: appBaseURL}
}

// ToEvent builds the full event payload for a task, including the recurrence
// rule and the ownership tag.
func (m *EventMapper) ToEvent(task models.Task) *gcal.Event {
	start := m.startTime(task)
	end := start.Add(eventDuration)

	return &gcal.Event{
		Summary:     fmt.Sprintf("%s (%s)", task.Name, assigneeList(task.AssignedToNames)),
		Description: m.description(task),
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: m.loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: m.loc.String(),
		},
		Recurrence: EncodeRecurrence(task.Frequency, task.RecurrenceInterval),
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				propTaskID: task.ID,
				propSynced: "true",
			},
		},
	}
}

// startTime resolves the task's due time to an instant on today's date.
func (m *EventMapper) startTime(task models.Task) time.Time {
	now := m.clock.Now().In(m.loc)
	hour, minute := parseDueTime(task.DueTime)
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, m.loc)
}

func (m *EventMapper) description(task models.Task) string {
	var b strings.Builder
	if task.Description != "" {
		b.WriteString(task.Description)
		b.WriteString("\n\n")
	}
	if task.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", task.Category)
	}
	fmt.Fprintf(&b, "Points: %d\n", task.Points)
	fmt.Fprintf(&b, "Open in Family Tasks: %s/tasks\n", m.appBaseURL)
	return b.String()
}

// parseDueTime accepts 24-hour ("15:04") and 12-hour ("3:04 PM") wall-clock
// forms. Anything unparseable, including an absent due time, defaults to
// 09:00.
func parseDueTime(s string) (hour, minute int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultDueHour, 0
	}
	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute()
		}
	}
	return defaultDueHour, 0
}

func assigneeList(names []string) string {
	if len(names) == 0 {
		return "Unassigned"
	}
	return strings.Join(names, ", ")
}
