package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListBetween returns holidays with start <= date <= end.
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}
