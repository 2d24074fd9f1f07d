package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListApproved returns approved leave overlapping [start, end], each with
// its dates clipped to that window.
func (r *leaveRequestRepositoryImpl) ListApproved(ctx context.Context, employeeID string, start, end time.Time) ([]leave.ApprovedLeave, error) {
	return r.listApproved(ctx, employeeID, nil, start, end)
}

func (r *leaveRequestRepositoryImpl) SumSILDays(ctx context.Context, employeeID string, year int) (decimal.Decimal, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	sil := leave.LeaveTypeSIL
	leaves, err := r.listApproved(ctx, employeeID, &sil, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return leave.TotalDays(leaves), nil
}

func (r *leaveRequestRepositoryImpl) listApproved(ctx context.Context, employeeID string, leaveType *string, start, end time.Time) ([]leave.ApprovedLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lt.code, lr.start_date, lr.end_date, lr.duration_type = 'half_day'
		FROM leave_requests lr
		INNER JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.employee_id = $1
		  AND lr.status = 'approved'
		  AND lr.start_date <= $3
		  AND lr.end_date >= $2
	`
	args := []interface{}{employeeID, start, end}
	if leaveType != nil {
		query += " AND lt.code = $4"
		args = append(args, *leaveType)
	}
	query += " ORDER BY lr.start_date ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var leaves []leave.ApprovedLeave
	for rows.Next() {
		var (
			l                  leave.ApprovedLeave
			startDate, endDate time.Time
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.LeaveType, &startDate, &endDate, &l.IsHalfDay); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		l.Dates = leave.ClipDates(startDate, endDate, start, end)
		if len(l.Dates) > 0 {
			leaves = append(leaves, l)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return leaves, nil
}
