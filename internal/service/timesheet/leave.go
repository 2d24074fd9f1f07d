package timesheet

import (
	"math"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/leave"
)

// ApplyLeave overlays approved leave onto a timesheet and returns a new
// slice. SIL counts as worked time: the day becomes regular with 8 hours,
// 4 for a half day. Every other leave type leaves the day untouched.
func ApplyLeave(days []attendance.DailyAttendance, leaves map[string]leave.ApprovedLeave) []attendance.DailyAttendance {
	out := make([]attendance.DailyAttendance, len(days))
	copy(out, days)

	for i, day := range out {
		l, ok := leaves[day.Date]
		if !ok || !l.IsSIL() {
			continue
		}
		hours := float64(fullDayHours)
		if l.IsHalfDay {
			hours = fullDayHours / 2
		}
		day.RegularHours = hours
		day.DayType = attendance.DayTypeRegular
		day.Basis = attendance.BasisSILLeave
		out[i] = day
	}

	return out
}

// Totals floors each day's hours, sums them, and floors the sums.
func Totals(days []attendance.DailyAttendance) attendance.Totals {
	var t attendance.Totals
	for _, d := range days {
		t.RegularHours += math.Floor(d.RegularHours)
		t.OvertimeHours += math.Floor(d.OvertimeHours)
		t.NightDiffHours += math.Floor(d.NightDiffHours)
		if d.Basis == attendance.BasisWorked || d.Basis == attendance.BasisSILLeave {
			t.DaysPresent++
		}
	}
	t.RegularHours = math.Floor(t.RegularHours)
	t.OvertimeHours = math.Floor(t.OvertimeHours)
	t.NightDiffHours = math.Floor(t.NightDiffHours)
	return t
}
