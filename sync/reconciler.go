package sync

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/your-org/family-calendar-sync/calendar"
	"github.com/your-org/family-calendar-sync/models"
)

// syncWindow bounds the remote-event fetch to ±30 days around now.
const syncWindow = 30 * 24 * time.Hour

// Reconciler makes the remote calendar match the current task projection.
// Remote events it owns are always overwritten wholesale rather than
// field-diffed: the payload is engine-owned, so an overwrite is always safe,
// at the accepted cost of provider calls on no-op passes.
type Reconciler struct {
	mapper *EventMapper
	clock  Clock
	logger *logrus.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(mapper *EventMapper, clock Clock, logger *logrus.Logger) *Reconciler {
	return &Reconciler{mapper: mapper, clock: clock, logger: logger}
}

// Reconcile fetches previously-synced events in the window, then creates,
// updates, and deletes events so the calendar reflects tasks. A failure on
// one task is logged and skipped; only a failed fetch of the existing event
// set fails the whole pass.
func (r *Reconciler) Reconcile(ctx context.Context, client calendar.Client, calendarID string, tasks []models.Task) models.SyncResult {
	now := r.clock.Now()
	existing, err := client.ListEvents(ctx, calendarID, now.Add(-syncWindow), now.Add(syncWindow),
		map[string]string{propSynced: "true"})
	if err != nil {
		perr := &ProviderError{Op: "list events", Err: err}
		r.logger.WithError(perr).Error("Failed to fetch previously synced events")
		return models.SyncResult{Success: false, Error: perr.Error()}
	}

	// Previously managed events, keyed by the task id in their ownership
	// tag. Untagged events never enter this map and are never touched.
	managed := make(map[string]*gcal.Event)
	for _, ev := range existing {
		if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil {
			continue
		}
		taskID := ev.ExtendedProperties.Private[propTaskID]
		if taskID == "" {
			continue
		}
		managed[taskID] = ev
	}

	result := models.SyncResult{Success: true}
	current := make(map[string]bool, len(tasks))

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			r.logger.WithError(err).Warn("Skipping invalid task projection")
			result.Failed++
			continue
		}
		task.Normalize()
		current[task.ID] = true

		payload := r.mapper.ToEvent(task)
		if ev, ok := managed[task.ID]; ok {
			if _, err := client.UpdateEvent(ctx, calendarID, ev.Id, payload); err != nil {
				r.logger.WithError(err).WithField("taskId", task.ID).Warn("Failed to update calendar event")
				result.Failed++
				continue
			}
			result.Updated++
		} else {
			if _, err := client.InsertEvent(ctx, calendarID, payload); err != nil {
				r.logger.WithError(err).WithField("taskId", task.ID).Warn("Failed to create calendar event")
				result.Failed++
				continue
			}
			result.Created++
		}
	}

	// Events whose task is gone from the projection were deleted or
	// unassigned since the last pass.
	for taskID, ev := range managed {
		if current[taskID] {
			continue
		}
		if err := client.DeleteEvent(ctx, calendarID, ev.Id); err != nil {
			r.logger.WithError(err).WithField("taskId", taskID).Warn("Failed to delete stale calendar event")
			result.Failed++
			continue
		}
		result.Deleted++
	}

	result.SyncedCount = result.Created + result.Updated
	r.logger.WithFields(logrus.Fields{
		"calendarId": calendarID,
		"created":    result.Created,
		"updated":    result.Updated,
		"deleted":    result.Deleted,
		"failed":     result.Failed,
	}).Info("Reconciliation pass complete")

	return result
}
