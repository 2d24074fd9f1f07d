package schedule

import "time"

// Day is one entry of an employee's declared weekly schedule.
type Day struct {
	EmployeeID string
	Date       time.Time
	DayOff     bool
}

// RestDayMap converts schedule rows into the date -> isRestDay map consumed
// by the timesheet. It returns nil when no rows exist so callers fall back to
// the default rest day.
func RestDayMap(days []Day) map[string]bool {
	if len(days) == 0 {
		return nil
	}
	m := make(map[string]bool, len(days))
	for _, d := range days {
		m[d.Date.Format("2006-01-02")] = d.DayOff
	}
	return m
}
