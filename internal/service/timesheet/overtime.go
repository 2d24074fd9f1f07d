package timesheet

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/overtime"
)

// Night-differential window used for approved overtime: 17:00 to 06:00.
const (
	nightStartHour = 17
	nightEndHour   = 6
)

// ResolveHours picks the overtime or night-differential hours of a day.
// clock is nil when the day has no countable clock entries; request is nil
// when no approved-request map was supplied. With both present the larger
// wins and the two are never summed; a tie keeps the clock.
func ResolveHours(clock, request *attendance.HourSource) attendance.HourSource {
	switch {
	case request == nil && clock == nil:
		return attendance.HourSource{Source: attendance.HourSourceClock}
	case request == nil:
		return *clock
	case clock == nil:
		return *request
	case request.Hours > clock.Hours:
		return *request
	default:
		return *clock
	}
}

// DeriveOvertimeMaps builds per-date overtime and night-differential hours
// from approved overtime requests. Both maps are keyed by the request date.
func DeriveOvertimeMaps(requests []overtime.Request, loc *time.Location) (ot map[string]float64, nd map[string]float64) {
	if loc == nil {
		loc = Manila()
	}
	ot = make(map[string]float64)
	nd = make(map[string]float64)

	for _, r := range requests {
		key := r.Date.Format(attendance.DateLayout)
		ot[key] += r.TotalHours

		start, end, err := requestSpan(r, loc)
		if err != nil {
			slog.Warn("skipping night differential for overtime request",
				"request_id", r.ID,
				"date", key,
				"error", err,
			)
			continue
		}
		nd[key] += math.Min(nightOverlap(start, end, loc), r.TotalHours)
	}

	return ot, nd
}

func requestSpan(r overtime.Request, loc *time.Location) (time.Time, time.Time, error) {
	sh, sm, err := parseClock(r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := parseClock(r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), sh, sm, 0, 0, loc)

	endDay := r.Date
	if r.EndDate != nil {
		endDay = *r.EndDate
	}
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), eh, em, 0, 0, loc)
	if !end.After(start) && r.EndDate == nil {
		end = end.Add(24 * time.Hour)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is not after start %s", end, start)
	}
	return start, end, nil
}

// parseClock accepts "HH:MM" and "HH:MM:SS".
func parseClock(s string) (int, int, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("invalid time of day %q", s)
}

// nightOverlap returns the hours of [start, end) that fall inside a
// 17:00-06:00 window of any civil day.
func nightOverlap(start, end time.Time, loc *time.Location) float64 {
	var total time.Duration
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	for !day.After(end) {
		wStart := day.Add(nightStartHour * time.Hour)
		wEnd := day.AddDate(0, 0, 1).Add(nightEndHour * time.Hour)
		total += overlap(start, end, wStart, wEnd)
		day = day.AddDate(0, 0, 1)
	}
	return total.Hours()
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	s := aStart
	if bStart.After(s) {
		s = bStart
	}
	e := aEnd
	if bEnd.Before(e) {
		e = bEnd
	}
	if e.After(s) {
		return e.Sub(s)
	}
	return 0
}
