package timesheet

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/holiday"
)

// Classify returns the day type of date. A nil isRestDay means the schedule
// said nothing about the date: office-based employees then rest on Sunday,
// client-based employees do not.
//
// Holidays take precedence over rest days; a holiday on a rest day yields
// the compound sunday-* type. Unparseable dates are logged and classified
// as regular.
func Classify(date string, holidays []holiday.Holiday, isRestDay *bool, isClientBased bool) attendance.DayType {
	key := holiday.NormalizeDate(date)
	d, err := time.Parse(attendance.DateLayout, key)
	if err != nil {
		slog.Warn("day type classification failed, defaulting to regular",
			"date", date,
			"error", err,
		)
		return attendance.DayTypeRegular
	}

	restDay := false
	switch {
	case isRestDay != nil:
		restDay = *isRestDay
	case !isClientBased:
		restDay = d.Weekday() == time.Sunday
	}

	h, found := findHoliday(key, holidays)
	isRegularHoliday := found && h.Type == holiday.HolidayTypeRegular
	isNonWorkingHoliday := found && h.Type == holiday.HolidayTypeNonWorking

	switch {
	case restDay && isRegularHoliday:
		return attendance.DayTypeSundayRegularHoliday
	case restDay && isNonWorkingHoliday:
		return attendance.DayTypeSundaySpecialHoliday
	case isRegularHoliday:
		return attendance.DayTypeRegularHoliday
	case isNonWorkingHoliday:
		return attendance.DayTypeNonWorkingHoliday
	case restDay:
		return attendance.DayTypeSunday
	default:
		return attendance.DayTypeRegular
	}
}

// findHoliday matches on the exact date string first, then on holidays whose
// stored date carries a timestamp suffix.
func findHoliday(date string, holidays []holiday.Holiday) (holiday.Holiday, bool) {
	for _, h := range holidays {
		if h.Date == date {
			return h, true
		}
	}
	for _, h := range holidays {
		if strings.HasPrefix(h.Date, date) {
			return h, true
		}
	}
	return holiday.Holiday{}, false
}
