package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

const leaveStatusApproved = "approved"

type leaveRepository struct {
	s *Store
}

func NewLeaveRepository(s *Store) leave.LeaveRepository {
	return &leaveRepository{s: s}
}

func (r *leaveRepository) ListApproved(ctx context.Context, employeeID string, start, end time.Time) ([]leave.ApprovedLeave, error) {
	return r.listApproved(ctx, employeeID, "", start, end)
}

func (r *leaveRepository) SumSILDays(ctx context.Context, employeeID string, year int) (decimal.Decimal, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	leaves, err := r.listApproved(ctx, employeeID, leave.LeaveTypeSIL, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return leave.TotalDays(leaves), nil
}

func (r *leaveRepository) listApproved(ctx context.Context, employeeID, leaveType string, start, end time.Time) ([]leave.ApprovedLeave, error) {
	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, is_half_day
		FROM leave_requests
		WHERE employee_id = ? AND status = ? AND start_date <= ? AND end_date >= ?
	`
	args := []interface{}{employeeID, leaveStatusApproved, formatDate(end), formatDate(start)}
	if leaveType != "" {
		query += " AND leave_type = ?"
		args = append(args, leaveType)
	}
	query += " ORDER BY start_date ASC"

	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var leaves []leave.ApprovedLeave
	for rows.Next() {
		var (
			l                  leave.ApprovedLeave
			startDate, endDate string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.LeaveType, &startDate, &endDate, &l.IsHalfDay); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		from, err := parseDate(startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date on leave %s: %w", l.ID, err)
		}
		to, err := parseDate(endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date on leave %s: %w", l.ID, err)
		}
		l.Dates = leave.ClipDates(from, to, start, end)
		if len(l.Dates) > 0 {
			leaves = append(leaves, l)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return leaves, nil
}

// SaveApprovedLeave records an approved leave spanning [start, end].
func (s *Store) SaveApprovedLeave(ctx context.Context, employeeID, leaveType string, start, end time.Time, halfDay bool) (string, error) {
	id := newID()
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, is_half_day, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, employeeID, leaveType, formatDate(start), formatDate(end), halfDay, leaveStatusApproved, now())
	if err != nil {
		return "", fmt.Errorf("failed to save leave: %w", err)
	}
	return id, nil
}
