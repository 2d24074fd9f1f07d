package attendance

import (
	"time"
)

// DateLayout is the civil-date key used across the payroll pipeline.
const DateLayout = "2006-01-02"

// ClockEntryStatus is the lifecycle state of a time-clock punch.
type ClockEntryStatus string

const (
	ClockEntryStatusClockedIn    ClockEntryStatus = "clocked_in"
	ClockEntryStatusClockedOut   ClockEntryStatus = "clocked_out"
	ClockEntryStatusPending      ClockEntryStatus = "pending"
	ClockEntryStatusApproved     ClockEntryStatus = "approved"
	ClockEntryStatusAutoApproved ClockEntryStatus = "auto_approved"
	ClockEntryStatusRejected     ClockEntryStatus = "rejected"
)

// Countable reports whether the entry's hours may be summed into payroll.
func (s ClockEntryStatus) Countable() bool {
	switch s {
	case ClockEntryStatusApproved, ClockEntryStatusAutoApproved, ClockEntryStatusClockedOut:
		return true
	}
	return false
}

// ClockEntry is a raw punch as stored by the time-clock. ClockIn is UTC.
type ClockEntry struct {
	ID             string
	EmployeeID     string
	ClockIn        time.Time
	ClockOut       *time.Time
	RegularHours   float64
	OvertimeHours  float64
	NightDiffHours float64
	Status         ClockEntryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DayType is one of six mutually exclusive day categories.
type DayType string

const (
	DayTypeRegular              DayType = "regular"
	DayTypeSunday               DayType = "sunday"
	DayTypeNonWorkingHoliday    DayType = "non-working-holiday"
	DayTypeRegularHoliday       DayType = "regular-holiday"
	DayTypeSundaySpecialHoliday DayType = "sunday-special-holiday"
	DayTypeSundayRegularHoliday DayType = "sunday-regular-holiday"
)

var DayTypeValues = []DayType{
	DayTypeRegular,
	DayTypeSunday,
	DayTypeNonWorkingHoliday,
	DayTypeRegularHoliday,
	DayTypeSundaySpecialHoliday,
	DayTypeSundayRegularHoliday,
}

// IsHoliday reports whether the day type carries any holiday.
func (d DayType) IsHoliday() bool {
	return d != DayTypeRegular && d != DayTypeSunday
}

// Basis records why a day carries the regular hours it does.
type Basis string

const (
	BasisWorked            Basis = "worked"
	BasisNone              Basis = "none"
	BasisSaturdayGuarantee Basis = "saturday_guarantee"
	BasisRestDayGuarantee  Basis = "rest_day_guarantee"
	BasisHolidayPay        Basis = "holiday_pay"
	BasisSILLeave          Basis = "sil_leave"
)

// HourSourceKind identifies where overtime or night-differential hours came from.
type HourSourceKind string

const (
	HourSourceClock           HourSourceKind = "clock"
	HourSourceApprovedRequest HourSourceKind = "approved_request"
)

// HourSource is a tagged hour count.
type HourSource struct {
	Source HourSourceKind `json:"source"`
	Hours  float64        `json:"hours"`
}

// DailyAttendance is the unit record of the pipeline: one per calendar day.
type DailyAttendance struct {
	Date            string         `json:"date"`
	DayType         DayType        `json:"day_type"`
	RegularHours    float64        `json:"regular_hours"`
	OvertimeHours   float64        `json:"overtime_hours"`
	NightDiffHours  float64        `json:"night_diff_hours"`
	Basis           Basis          `json:"basis"`
	OvertimeSource  HourSourceKind `json:"overtime_source,omitempty"`
	NightDiffSource HourSourceKind `json:"night_diff_source,omitempty"`
}

// Totals are the floored hour sums over a period.
type Totals struct {
	RegularHours   float64 `json:"regular_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	NightDiffHours float64 `json:"night_diff_hours"`
	DaysPresent    int     `json:"days_present"`
}
