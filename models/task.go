package models

import "fmt"

// Frequency describes how often a task recurs.
type Frequency string

const (
	FrequencyOneTime Frequency = "one-time"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Task is the read-only projection of a household task supplied by the
// task-management service. The ID is the sync key: it is never reused for a
// semantically different task.
type Task struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Points             int       `json:"points"`
	DueTime            string    `json:"dueTime"` // local wall clock, "15:04" or "3:04 PM", may be empty
	Frequency          Frequency `json:"frequency"`
	RecurrenceInterval int       `json:"recurrenceInterval"`
	AssignedToNames    []string  `json:"assignedToNames"`
}

// NewTask validates a task projection at the boundary. ID and name are
// required; the recurrence interval defaults to 1 and unknown frequencies
// fall back to one-time.
func NewTask(id, name string) (Task, error) {
	if id == "" {
		return Task{}, fmt.Errorf("task id is required")
	}
	if name == "" {
		return Task{}, fmt.Errorf("task %s: name is required", id)
	}
	return Task{
		ID:                 id,
		Name:               name,
		Frequency:          FrequencyOneTime,
		RecurrenceInterval: 1,
	}, nil
}

// Normalize clamps invalid recurrence fields to their defaults.
func (t *Task) Normalize() {
	if t.RecurrenceInterval < 1 {
		t.RecurrenceInterval = 1
	}
	switch t.Frequency {
	case FrequencyOneTime, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		t.Frequency = FrequencyOneTime
	}
}

// Validate reports whether the projection carries its required fields.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("task %s: name is required", t.ID)
	}
	return nil
}
