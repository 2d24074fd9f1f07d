package attendance

import (
	"context"
	"time"
)

// ClockEntryRepository reads time-clock punches.
type ClockEntryRepository interface {
	// ListByEmployee returns entries with clock_in in [from, to).
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]ClockEntry, error)
}
