package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
)

type clockEntryRepository struct {
	db *database.DB
}

func NewClockEntryRepository(db *database.DB) attendance.ClockEntryRepository {
	return &clockEntryRepository{db: db}
}

// ListByEmployee returns entries with clock_in in [from, to).
func (r *clockEntryRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, clock_in, clock_out,
			   COALESCE(regular_hours, 0), COALESCE(overtime_hours, 0), COALESCE(night_diff_hours, 0),
			   status, created_at, updated_at
		FROM clock_entries
		WHERE employee_id = $1
		  AND clock_in >= $2 AND clock_in < $3
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.ClockEntry
	for rows.Next() {
		var e attendance.ClockEntry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.ClockIn, &e.ClockOut,
			&e.RegularHours, &e.OvertimeHours, &e.NightDiffHours,
			&e.Status, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan clock entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock entries: %w", err)
	}

	return entries, nil
}
