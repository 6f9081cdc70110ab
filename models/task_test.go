package models

import "testing"

func TestNewTaskRequiresIDAndName(t *testing.T) {
	if _, err := NewTask("", "Dishes"); err == nil {
		t.Error("expected error for missing id")
	}
	if _, err := NewTask("t1", ""); err == nil {
		t.Error("expected error for missing name")
	}

	task, err := NewTask("t1", "Dishes")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Frequency != FrequencyOneTime || task.RecurrenceInterval != 1 {
		t.Errorf("defaults = %q/%d, want one-time/1", task.Frequency, task.RecurrenceInterval)
	}
}

func TestNormalizeClampsInvalidFields(t *testing.T) {
	task := Task{ID: "t1", Name: "Dishes", Frequency: "hourly", RecurrenceInterval: -2}
	task.Normalize()

	if task.Frequency != FrequencyOneTime {
		t.Errorf("frequency = %q, want one-time fallback", task.Frequency)
	}
	if task.RecurrenceInterval != 1 {
		t.Errorf("interval = %d, want 1", task.RecurrenceInterval)
	}
}
