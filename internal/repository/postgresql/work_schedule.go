package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// ListByEmployee returns the per-date rest day flags of a client-based
// schedule. Office-based employees normally have none.
func (r *scheduleRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]schedule.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, date, day_off
		FROM employee_schedules
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee schedule: %w", err)
	}
	defer rows.Close()

	var days []schedule.Day
	for rows.Next() {
		var d schedule.Day
		if err := rows.Scan(&d.EmployeeID, &d.Date, &d.DayOff); err != nil {
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule: %w", err)
	}

	return days, nil
}
