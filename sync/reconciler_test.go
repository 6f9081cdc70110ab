package sync

import (
	"context"
	"testing"
	"time"

	"github.com/your-org/family-calendar-sync/models"
)

func newTestReconciler() (*Reconciler, *fakeClient) {
	clock := &fakeClock{now: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
	mapper := NewEventMapper(clock, time.UTC, "https://app.example.com")
	return NewReconciler(mapper, clock, testLogger()), newFakeClient()
}

func managedEventCount(c *fakeClient) int {
	n := 0
	for _, ev := range c.events {
		if taskIDOf(ev) != "" {
			n++
		}
	}
	return n
}

func TestReconcileCreatesEvents(t *testing.T) {
	r, client := newTestReconciler()
	tasks := []models.Task{testTask("t1", "Dishes"), testTask("t2", "Laundry")}

	result := r.Reconcile(context.Background(), client, "cal-1", tasks)

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Created != 2 || result.SyncedCount != 2 {
		t.Errorf("created = %d, syncedCount = %d, want 2 and 2", result.Created, result.SyncedCount)
	}
	if got := managedEventCount(client); got != 2 {
		t.Errorf("managed events = %d, want 2", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	r, client := newTestReconciler()
	tasks := []models.Task{testTask("t1", "Dishes"), testTask("t2", "Laundry")}

	first := r.Reconcile(context.Background(), client, "cal-1", tasks)
	if !first.Success || first.Created != 2 {
		t.Fatalf("first pass: %+v", first)
	}

	summariesAfterFirst := map[string]string{}
	for id, ev := range client.events {
		summariesAfterFirst[id] = ev.Summary
	}

	second := r.Reconcile(context.Background(), client, "cal-1", tasks)
	if !second.Success {
		t.Fatalf("second pass failed: %q", second.Error)
	}
	if second.Created != 0 || second.Updated != 2 || second.Deleted != 0 {
		t.Errorf("second pass = %+v, want pure updates", second)
	}
	if got := managedEventCount(client); got != 2 {
		t.Errorf("managed events after second pass = %d, want 2", got)
	}
	for id, ev := range client.events {
		if summariesAfterFirst[id] != ev.Summary {
			t.Errorf("event %s content changed on no-op reconcile: %q -> %q", id, summariesAfterFirst[id], ev.Summary)
		}
	}
}

func TestManualEventsAreNeverTouched(t *testing.T) {
	r, client := newTestReconciler()
	manualID := client.addManualEvent("Dentist appointment")

	result := r.Reconcile(context.Background(), client, "cal-1", nil)
	if !result.Success {
		t.Fatalf("reconcile failed: %q", result.Error)
	}

	ev, ok := client.events[manualID]
	if !ok {
		t.Fatal("manual event was deleted by reconciliation")
	}
	if ev.Summary != "Dentist appointment" {
		t.Errorf("manual event was modified: %q", ev.Summary)
	}
}

func TestDeletionOnTaskRemoval(t *testing.T) {
	r, client := newTestReconciler()
	both := []models.Task{testTask("t1", "Dishes"), testTask("t2", "Laundry")}
	if res := r.Reconcile(context.Background(), client, "cal-1", both); !res.Success {
		t.Fatalf("seed pass failed: %q", res.Error)
	}

	result := r.Reconcile(context.Background(), client, "cal-1", []models.Task{testTask("t2", "Laundry")})
	if !result.Success {
		t.Fatalf("reconcile failed: %q", result.Error)
	}
	if result.Deleted != 1 || result.Updated != 1 {
		t.Errorf("result = %+v, want 1 deleted and 1 updated", result)
	}

	for _, ev := range client.events {
		if taskIDOf(ev) == "t1" {
			t.Error("event for removed task t1 still present")
		}
	}
	found := false
	for _, ev := range client.events {
		if taskIDOf(ev) == "t2" {
			found = true
		}
	}
	if !found {
		t.Error("event for surviving task t2 was deleted")
	}
}

func TestPartialFailureContainment(t *testing.T) {
	r, client := newTestReconciler()
	client.failInsertFor["tA"] = true

	tasks := []models.Task{testTask("tA", "Broken"), testTask("tB", "Fine")}
	result := r.Reconcile(context.Background(), client, "cal-1", tasks)

	if !result.Success {
		t.Fatalf("pass should succeed despite per-task failure, got error %q", result.Error)
	}
	if result.SyncedCount != 1 || result.Created != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 created and 1 failed", result)
	}
	found := false
	for _, ev := range client.events {
		if taskIDOf(ev) == "tB" {
			found = true
		}
	}
	if !found {
		t.Error("sibling task tB was not synced")
	}
}

func TestDeletionFailureIsNotFatal(t *testing.T) {
	r, client := newTestReconciler()
	if res := r.Reconcile(context.Background(), client, "cal-1", []models.Task{testTask("t1", "Dishes")}); !res.Success {
		t.Fatalf("seed pass failed: %q", res.Error)
	}

	client.failDelete = true
	result := r.Reconcile(context.Background(), client, "cal-1", nil)
	if !result.Success {
		t.Fatalf("pass should succeed despite delete failure, got %q", result.Error)
	}
	if result.Failed != 1 || result.Deleted != 0 {
		t.Errorf("result = %+v, want 1 failed deletion", result)
	}
}

func TestFetchFailureFailsThePass(t *testing.T) {
	r, client := newTestReconciler()
	client.failList = true

	result := r.Reconcile(context.Background(), client, "cal-1", []models.Task{testTask("t1", "Dishes")})
	if result.Success {
		t.Fatal("expected failure when existing events cannot be fetched")
	}
	if result.Error == "" {
		t.Error("expected error message on failed pass")
	}
}

func TestInvalidProjectionIsSkipped(t *testing.T) {
	r, client := newTestReconciler()

	tasks := []models.Task{{ID: "", Name: "nameless id"}, testTask("t1", "Dishes")}
	result := r.Reconcile(context.Background(), client, "cal-1", tasks)

	if !result.Success || result.Created != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 created and 1 failed", result)
	}
}
