package payroll

import (
	"fmt"
	"time"
)

// Cutoff is one half of a calendar month: Half 1 covers the 1st-15th and
// Half 2 the 16th to month end.
type Cutoff struct {
	Year  int
	Month time.Month
	Half  int
}

// CutoffOf returns the cutoff the civil date falls in.
func CutoffOf(date time.Time) Cutoff {
	half := 1
	if date.Day() >= 16 {
		half = 2
	}
	return Cutoff{Year: date.Year(), Month: date.Month(), Half: half}
}

// Index numbers the cutoffs of a year 1..24.
func (c Cutoff) Index() int {
	return (int(c.Month)-1)*2 + c.Half
}

func (c Cutoff) IsSecond() bool {
	return c.Half == 2
}

func (c Cutoff) Start() time.Time {
	day := 1
	if c.IsSecond() {
		day = 16
	}
	return time.Date(c.Year, c.Month, day, 0, 0, 0, 0, time.UTC)
}

func (c Cutoff) End() time.Time {
	if !c.IsSecond() {
		return time.Date(c.Year, c.Month, 15, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(c.Year, c.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func (c Cutoff) String() string {
	return fmt.Sprintf("%d-%02d/%d", c.Year, int(c.Month), c.Half)
}

// PayslipNumber is the deterministic upsert key of a payslip.
func PayslipNumber(employeeID string, c Cutoff) string {
	return fmt.Sprintf("PS-%d-%02d-%s", c.Year, c.Index(), employeeID)
}
