package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

func (r *overtimeRepository) ListApproved(ctx context.Context, employeeID string, start, end time.Time) ([]overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, end_date, start_time::text, end_time::text,
			   total_hours, status, created_at
		FROM overtime_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND date BETWEEN $3 AND $4
		ORDER BY date ASC, start_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, overtime.StatusApproved, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.Request
	for rows.Next() {
		var o overtime.Request
		if err := rows.Scan(
			&o.ID, &o.EmployeeID, &o.Date, &o.EndDate, &o.StartTime, &o.EndTime,
			&o.TotalHours, &o.Status, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overtime requests: %w", err)
	}

	return requests, nil
}
