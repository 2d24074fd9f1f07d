package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType codes as stored on approved requests.
const (
	LeaveTypeSIL       = "SIL"
	LeaveTypeVacation  = "VL"
	LeaveTypeEmergency = "EL"
	LeaveTypeMaternity = "ML"
	LeaveTypePaternity = "PL"
	LeaveTypeUnpaid    = "LWOP"
)

// ApprovedLeave is an approved leave request expanded to the dates it covers.
type ApprovedLeave struct {
	ID         string
	EmployeeID string
	LeaveType  string
	Dates      []time.Time
	IsHalfDay  bool
}

// IsSIL reports whether the leave counts as worked time.
func (l ApprovedLeave) IsSIL() bool {
	return l.LeaveType == LeaveTypeSIL
}

// Days returns the number of leave days the request consumes.
func (l ApprovedLeave) Days() decimal.Decimal {
	n := decimal.NewFromInt(int64(len(l.Dates)))
	if l.IsHalfDay {
		return n.Div(decimal.NewFromInt(2))
	}
	return n
}

// ByDate indexes leaves per civil date. When several leaves cover the same
// date the SIL one wins, otherwise the first one listed.
func ByDate(leaves []ApprovedLeave) map[string]ApprovedLeave {
	out := make(map[string]ApprovedLeave)
	for _, l := range leaves {
		for _, d := range l.Dates {
			key := d.Format("2006-01-02")
			existing, ok := out[key]
			if !ok || (!existing.IsSIL() && l.IsSIL()) {
				out[key] = l
			}
		}
	}
	return out
}

// ClipDates lists the calendar dates of [start, end] that fall inside
// [from, to].
func ClipDates(start, end, from, to time.Time) []time.Time {
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// TotalDays sums Days over leaves.
func TotalDays(leaves []ApprovedLeave) decimal.Decimal {
	total := decimal.Zero
	for _, l := range leaves {
		total = total.Add(l.Days())
	}
	return total
}
