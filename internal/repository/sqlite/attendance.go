package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
)

type clockEntryRepository struct {
	s *Store
}

func NewClockEntryRepository(s *Store) attendance.ClockEntryRepository {
	return &clockEntryRepository{s: s}
}

// ListByEmployee returns entries with clock_in in [from, to).
func (r *clockEntryRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEntry, error) {
	query := `
		SELECT id, employee_id, clock_in, clock_out, regular_hours, overtime_hours,
			   night_diff_hours, status, created_at, updated_at
		FROM clock_entries
		WHERE employee_id = ? AND clock_in >= ? AND clock_in < ?
		ORDER BY clock_in ASC
	`

	rows, err := r.s.q(ctx).QueryContext(ctx, query, employeeID, formatTimestamp(from), formatTimestamp(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list clock entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.ClockEntry
	for rows.Next() {
		var (
			e                             attendance.ClockEntry
			clockIn, createdAt, updatedAt string
			clockOut                      sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &clockIn, &clockOut, &e.RegularHours, &e.OvertimeHours,
			&e.NightDiffHours, &e.Status, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan clock entry: %w", err)
		}
		if e.ClockIn, err = parseTimestamp(clockIn); err != nil {
			return nil, fmt.Errorf("invalid clock_in on entry %s: %w", e.ID, err)
		}
		if clockOut.Valid {
			out, err := parseTimestamp(clockOut.String)
			if err != nil {
				return nil, fmt.Errorf("invalid clock_out on entry %s: %w", e.ID, err)
			}
			e.ClockOut = &out
		}
		if e.CreatedAt, e.UpdatedAt, err = parseAuditTimestamps(createdAt, updatedAt); err != nil {
			return nil, fmt.Errorf("clock entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock entries: %w", err)
	}

	return entries, nil
}

// SaveClockEntry records a clock entry. Used for seeding the development
// database.
func (s *Store) SaveClockEntry(ctx context.Context, e attendance.ClockEntry) (attendance.ClockEntry, error) {
	if e.ID == "" {
		e.ID = newID()
	}
	var clockOut *string
	if e.ClockOut != nil {
		v := formatTimestamp(*e.ClockOut)
		clockOut = &v
	}
	ts := now()

	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO clock_entries (
			id, employee_id, clock_in, clock_out, regular_hours, overtime_hours,
			night_diff_hours, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.EmployeeID, formatTimestamp(e.ClockIn), clockOut, e.RegularHours, e.OvertimeHours,
		e.NightDiffHours, e.Status, ts, ts,
	)
	if err != nil {
		return attendance.ClockEntry{}, fmt.Errorf("failed to save clock entry: %w", err)
	}
	return e, nil
}
