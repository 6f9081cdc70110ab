package sync

import (
	"fmt"

	"github.com/your-org/family-calendar-sync/models"
)

// EncodeRecurrence maps a task frequency to a Google Calendar RRULE set.
// One-time (and unknown) frequencies produce no rule. Monthly tasks always
// repeat every month: the custom interval is not honored for monthly
// frequency, a documented limitation of the schedule model.
func EncodeRecurrence(freq models.Frequency, interval int) []string {
	if interval < 1 {
		interval = 1
	}
	switch freq {
	case models.FrequencyDaily:
		return []string{fmt.Sprintf("RRULE:FREQ=DAILY;INTERVAL=%d", interval)}
	case models.FrequencyWeekly:
		return []string{fmt.Sprintf("RRULE:FREQ=WEEKLY;INTERVAL=%d", interval)}
	case models.FrequencyMonthly:
		return []string{"RRULE:FREQ=MONTHLY;INTERVAL=1"}
	default:
		return nil
	}
}
