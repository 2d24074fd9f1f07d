package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveRepository interface {
	// ListApproved returns approved leaves having at least one date within [start, end].
	// Dates outside the window are trimmed.
	ListApproved(ctx context.Context, employeeID string, start, end time.Time) ([]ApprovedLeave, error)

	// SumSILDays returns the approved SIL days taken within the calendar year.
	SumSILDays(ctx context.Context, employeeID string, year int) (decimal.Decimal, error)
}
