package timesheet

import (
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/holiday"
)

const (
	DefaultLookbackDays = 7
	DefaultCutoverDate  = "2026-01-01"
	DefaultTimezone     = "Asia/Manila"

	fullDayHours = 8
)

// Manila returns the payroll timezone, falling back to a fixed UTC+8 zone
// when the tz database is unavailable.
func Manila() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// Options configures a timesheet run. Nil maps mean "not supplied", which
// is different from an empty map.
type Options struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Holidays    []holiday.Holiday

	// RestDays is the employee schedule keyed by YYYY-MM-DD.
	RestDays map[string]bool

	EligibleForOT        bool
	EligibleForNightDiff bool
	IsClientBased        bool

	// IsClientBasedAccountSupervisor is carried with the run for callers;
	// no timesheet rule depends on it. The Saturday guarantee covers every
	// employee.
	IsClientBasedAccountSupervisor bool

	// Approved request hours keyed by YYYY-MM-DD. Ignored when the matching
	// eligibility flag is false.
	ApprovedOT map[string]float64
	ApprovedND map[string]float64

	Location     *time.Location
	LookbackDays int
	CutoverDate  string
}

type Result struct {
	AttendanceData []attendance.DailyAttendance
	Totals         attendance.Totals
	HasAttendance  bool
}

type dayHours struct {
	regular   float64
	overtime  float64
	nightDiff float64
}

// Generate produces one DailyAttendance per civil day of
// [PeriodStart, PeriodEnd]. Days up to LookbackDays before PeriodStart are
// evaluated as context for holiday eligibility but not returned, so
// entries should be supplied from that earlier date.
func Generate(entries []attendance.ClockEntry, opts Options) Result {
	loc := opts.Location
	if loc == nil {
		loc = Manila()
	}
	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	cutover := opts.CutoverDate
	if cutover == "" {
		cutover = DefaultCutoverDate
	}

	start := civilDate(opts.PeriodStart)
	end := civilDate(opts.PeriodEnd)
	if end.Before(start) {
		slog.Warn("timesheet period end before start", "period_start", start, "period_end", end)
		return Result{AttendanceData: []attendance.DailyAttendance{}}
	}

	holidays := holiday.Normalize(opts.Holidays)
	buckets := bucketEntries(entries, loc, opts.EligibleForOT, opts.EligibleForNightDiff)

	var restDays map[string]RestDayState
	if opts.IsClientBased {
		restDays = EffectiveRestDays(opts.RestDays)
	} else {
		restDays = StaticRestDays(opts.RestDays)
	}

	approvedOT, approvedND := opts.ApprovedOT, opts.ApprovedND
	if !opts.EligibleForOT {
		approvedOT = nil
	}
	if !opts.EligibleForNightDiff {
		approvedND = nil
	}

	var (
		all                 []attendance.DailyAttendance
		lastEligibleHoliday string
		hasAttendance       bool
	)

	first := start.AddDate(0, 0, -lookback)
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(attendance.DateLayout)
		inPeriod := !d.Before(start)

		var isRestDay *bool
		state, scheduled := restDays[key]
		if scheduled {
			rest := state == RestDay
			isRestDay = &rest
		}
		dayType := Classify(key, holidays, isRestDay, opts.IsClientBased)

		hours, hasClock := buckets[key]
		ot := ResolveHours(clockSource(hasClock, hours.overtime), requestSource(approvedOT, key))
		nd := ResolveHours(clockSource(hasClock, hours.nightDiff), requestSource(approvedND, key))

		if inPeriod && (hasClock || ot.Hours > 0 || nd.Hours > 0) {
			hasAttendance = true
		}

		day := attendance.DailyAttendance{
			Date:           key,
			DayType:        dayType,
			RegularHours:   math.Floor(hours.regular),
			OvertimeHours:  ot.Hours,
			NightDiffHours: nd.Hours,
			Basis:          attendance.BasisNone,
		}
		if ot.Hours > 0 {
			day.OvertimeSource = ot.Source
		}
		if nd.Hours > 0 {
			day.NightDiffSource = nd.Source
		}
		if day.RegularHours > 0 {
			day.Basis = attendance.BasisWorked
		}

		if dayType == attendance.DayTypeRegular && day.RegularHours == 0 {
			switch {
			case d.Weekday() == time.Saturday:
				day.RegularHours = fullDayHours
				day.Basis = attendance.BasisSaturdayGuarantee
			case state == ForcedWorkday:
				day.RegularHours = fullDayHours
				day.Basis = attendance.BasisRestDayGuarantee
			}
		}

		if dayType == attendance.DayTypeRegularHoliday || dayType == attendance.DayTypeNonWorkingHoliday {
			if day.RegularHours == 0 {
				prevKey := d.AddDate(0, 0, -1).Format(attendance.DateLayout)
				eligible := key == cutover ||
					(lastEligibleHoliday != "" && lastEligibleHoliday == prevKey) ||
					workedDayBefore(all, lookback)
				if eligible {
					day.RegularHours = fullDayHours
					day.Basis = attendance.BasisHolidayPay
					lastEligibleHoliday = key
				}
			} else if day.RegularHours >= fullDayHours {
				lastEligibleHoliday = key
			}
		}

		day.RegularHours = math.Floor(day.RegularHours)
		day.OvertimeHours = math.Floor(day.OvertimeHours)
		day.NightDiffHours = math.Floor(day.NightDiffHours)

		all = append(all, day)
	}

	data := all[lookback:]
	return Result{
		AttendanceData: data,
		Totals:         Totals(data),
		HasAttendance:  hasAttendance,
	}
}

// workedDayBefore walks back over already generated days, skipping rest days
// and holidays. The nearest regular day decides: it must carry a full day.
func workedDayBefore(days []attendance.DailyAttendance, lookback int) bool {
	for i := 1; i <= lookback && i <= len(days); i++ {
		prev := days[len(days)-i]
		if prev.DayType != attendance.DayTypeRegular {
			continue
		}
		return prev.RegularHours >= fullDayHours
	}
	return false
}

// bucketEntries sums countable clock entries per civil date in loc.
func bucketEntries(entries []attendance.ClockEntry, loc *time.Location, eligibleOT, eligibleND bool) map[string]dayHours {
	buckets := make(map[string]dayHours)
	for _, e := range entries {
		if !e.Status.Countable() {
			continue
		}
		key := e.ClockIn.In(loc).Format(attendance.DateLayout)
		h := buckets[key]
		h.regular += e.RegularHours
		if eligibleOT {
			h.overtime += e.OvertimeHours
		}
		if eligibleND {
			h.nightDiff += e.NightDiffHours
		}
		buckets[key] = h
	}
	return buckets
}

func clockSource(hasClock bool, hours float64) *attendance.HourSource {
	if !hasClock {
		return nil
	}
	return &attendance.HourSource{Source: attendance.HourSourceClock, Hours: hours}
}

func requestSource(approved map[string]float64, key string) *attendance.HourSource {
	if approved == nil {
		return nil
	}
	return &attendance.HourSource{Source: attendance.HourSourceApprovedRequest, Hours: approved[key]}
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
