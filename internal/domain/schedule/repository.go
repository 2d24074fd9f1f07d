package schedule

import (
	"context"
	"time"
)

type ScheduleRepository interface {
	// ListByEmployee returns schedule rows dated within [start, end].
	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Day, error)
}
