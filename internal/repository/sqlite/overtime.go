package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/overtime"
)

type overtimeRepository struct {
	s *Store
}

func NewOvertimeRepository(s *Store) overtime.OvertimeRepository {
	return &overtimeRepository{s: s}
}

func (r *overtimeRepository) ListApproved(ctx context.Context, employeeID string, start, end time.Time) ([]overtime.Request, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT id, employee_id, date, end_date, start_time, end_time, total_hours, status, created_at
		FROM overtime_requests
		WHERE employee_id = ? AND status = ? AND date BETWEEN ? AND ?
		ORDER BY date ASC, start_time ASC
	`, employeeID, overtime.StatusApproved, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.Request
	for rows.Next() {
		var (
			o               overtime.Request
			date, createdAt string
			endDate         sql.NullString
		)
		if err := rows.Scan(
			&o.ID, &o.EmployeeID, &date, &endDate, &o.StartTime, &o.EndTime, &o.TotalHours, &o.Status, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		if o.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("invalid date on overtime request %s: %w", o.ID, err)
		}
		if endDate.Valid && endDate.String != "" {
			d, err := parseDate(endDate.String)
			if err != nil {
				return nil, fmt.Errorf("invalid end_date on overtime request %s: %w", o.ID, err)
			}
			o.EndDate = &d
		}
		if o.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at on overtime request %s: %w", o.ID, err)
		}
		requests = append(requests, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime requests: %w", err)
	}

	return requests, nil
}

// SaveOvertimeRequest records an overtime request. Used for seeding the
// development database.
func (s *Store) SaveOvertimeRequest(ctx context.Context, o overtime.Request) (overtime.Request, error) {
	if o.ID == "" {
		o.ID = newID()
	}
	var endDate *string
	if o.EndDate != nil {
		v := formatDate(*o.EndDate)
		endDate = &v
	}

	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO overtime_requests (
			id, employee_id, date, end_date, start_time, end_time, total_hours, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.EmployeeID, formatDate(o.Date), endDate, o.StartTime, o.EndTime, o.TotalHours, o.Status, now())
	if err != nil {
		return overtime.Request{}, fmt.Errorf("failed to save overtime request: %w", err)
	}
	return o, nil
}
