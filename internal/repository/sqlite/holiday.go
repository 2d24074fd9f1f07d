package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/holiday"
)

type holidayRepository struct {
	s *Store
}

func NewHolidayRepository(s *Store) holiday.HolidayRepository {
	return &holidayRepository{s: s}
}

func (r *holidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT id, date, name, is_regular
		FROM holidays
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC
	`, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var (
			h         holiday.Holiday
			isRegular bool
		)
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &isRegular); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Type = holiday.TypeFromFlag(isRegular)
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holiday.Normalize(holidays), nil
}

// SaveHoliday records a holiday. Used for seeding the development database.
func (s *Store) SaveHoliday(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	if h.ID == "" {
		h.ID = newID()
	}
	h.Date = holiday.NormalizeDate(h.Date)

	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, is_regular) VALUES (?, ?, ?, ?)
	`, h.ID, h.Date, h.Name, h.Type == holiday.HolidayTypeRegular)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}
