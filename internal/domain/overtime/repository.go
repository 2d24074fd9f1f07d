package overtime

import (
	"context"
	"time"
)

type OvertimeRepository interface {
	// ListApproved returns approved requests dated within [start, end].
	ListApproved(ctx context.Context, employeeID string, start, end time.Time) ([]Request, error)
}
