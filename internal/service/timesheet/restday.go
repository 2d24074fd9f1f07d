package timesheet

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
)

// RestDayState is the resolved meaning of a schedule entry.
type RestDayState int

const (
	Workday RestDayState = iota
	RestDay
	// ForcedWorkday is a client-based employee's second rest day of an ISO
	// week. It is paid as a guaranteed regular day.
	ForcedWorkday
)

type isoWeek struct {
	year int
	week int
}

// EffectiveRestDays resolves a client-based schedule: within each ISO week
// only the chronologically first rest day stays a rest day, later ones
// become ForcedWorkday. Keys that do not parse as dates are kept as given.
// The input map is not modified.
func EffectiveRestDays(restDays map[string]bool) map[string]RestDayState {
	if restDays == nil {
		return nil
	}

	out := make(map[string]RestDayState, len(restDays))
	weeks := make(map[isoWeek][]string)

	for key, off := range restDays {
		if !off {
			out[key] = Workday
			continue
		}
		d, err := time.Parse(attendance.DateLayout, key)
		if err != nil {
			out[key] = RestDay
			continue
		}
		y, w := d.ISOWeek()
		wk := isoWeek{year: y, week: w}
		weeks[wk] = append(weeks[wk], key)
	}

	for _, dates := range weeks {
		// YYYY-MM-DD sorts chronologically
		sort.Strings(dates)
		for i, key := range dates {
			if i == 0 {
				out[key] = RestDay
			} else {
				out[key] = ForcedWorkday
			}
		}
	}

	return out
}

// StaticRestDays maps an office-based schedule without the weekly rule.
func StaticRestDays(restDays map[string]bool) map[string]RestDayState {
	if restDays == nil {
		return nil
	}
	out := make(map[string]RestDayState, len(restDays))
	for key, off := range restDays {
		if off {
			out[key] = RestDay
		} else {
			out[key] = Workday
		}
	}
	return out
}
