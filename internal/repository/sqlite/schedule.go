package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/schedule"
)

type scheduleRepository struct {
	s *Store
}

func NewScheduleRepository(s *Store) schedule.ScheduleRepository {
	return &scheduleRepository{s: s}
}

func (r *scheduleRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]schedule.Day, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT employee_id, date, day_off
		FROM employee_schedules
		WHERE employee_id = ? AND date BETWEEN ? AND ?
		ORDER BY date ASC
	`, employeeID, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list employee schedule: %w", err)
	}
	defer rows.Close()

	var days []schedule.Day
	for rows.Next() {
		var (
			d    schedule.Day
			date string
		)
		if err := rows.Scan(&d.EmployeeID, &date, &d.DayOff); err != nil {
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		if d.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("invalid schedule date %q: %w", date, err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule: %w", err)
	}

	return days, nil
}

// SaveScheduleDay sets the rest day flag of one date.
func (s *Store) SaveScheduleDay(ctx context.Context, d schedule.Day) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO employee_schedules (employee_id, date, day_off) VALUES (?, ?, ?)
		ON CONFLICT (employee_id, date) DO UPDATE SET day_off = excluded.day_off
	`, d.EmployeeID, formatDate(d.Date), d.DayOff)
	if err != nil {
		return fmt.Errorf("failed to save schedule day: %w", err)
	}
	return nil
}
