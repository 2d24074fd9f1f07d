package timesheet

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/overtime"
	"github.com/stretchr/testify/assert"
)

func TestResolveHours(t *testing.T) {
	clock := func(h float64) *attendance.HourSource {
		return &attendance.HourSource{Source: attendance.HourSourceClock, Hours: h}
	}
	request := func(h float64) *attendance.HourSource {
		return &attendance.HourSource{Source: attendance.HourSourceApprovedRequest, Hours: h}
	}

	tests := []struct {
		name    string
		clock   *attendance.HourSource
		request *attendance.HourSource
		want    attendance.HourSource
	}{
		{"nothing", nil, nil, attendance.HourSource{Source: attendance.HourSourceClock}},
		{"clock only", clock(2), nil, *clock(2)},
		{"request only", nil, request(3), *request(3)},
		{"pre-zeroed clock never sums", clock(0), request(3), *request(3)},
		{"clock larger", clock(4), request(3), *clock(4)},
		{"tie keeps clock", clock(3), request(3), *clock(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHours(tt.clock, tt.request))
		})
	}
}

func TestDeriveOvertimeMaps(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	other := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	third := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	fourth := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	requests := []overtime.Request{
		// afternoon into evening: 17:00-19:00 is night
		{ID: "a", Date: day, StartTime: "15:00", EndTime: "19:00", TotalHours: 4},
		// crosses midnight without an end date: all four hours are night
		{ID: "b", Date: other, StartTime: "22:00", EndTime: "02:00", TotalHours: 4},
		// explicit end date: 20:00-06:00 is night, 06:00-08:00 is not
		{ID: "c", Date: third, EndDate: &nextDay, StartTime: "20:00", EndTime: "08:00", TotalHours: 12},
		// capped at total hours
		{ID: "d", Date: fourth, StartTime: "18:00:00", EndTime: "22:00:00", TotalHours: 3},
	}

	ot, nd := DeriveOvertimeMaps(requests, Manila())

	assert.Equal(t, 4.0, ot["2025-03-03"])
	assert.InDelta(t, 2.0, nd["2025-03-03"], 1e-9)

	assert.Equal(t, 4.0, ot["2025-03-05"])
	assert.InDelta(t, 4.0, nd["2025-03-05"], 1e-9)

	assert.Equal(t, 12.0, ot["2025-03-07"])
	assert.InDelta(t, 10.0, nd["2025-03-07"], 1e-9)

	assert.Equal(t, 3.0, ot["2025-03-10"])
	assert.InDelta(t, 3.0, nd["2025-03-10"], 1e-9)
}

func TestDeriveOvertimeMaps_SameDateSums(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	requests := []overtime.Request{
		{ID: "a", Date: day, StartTime: "06:00", EndTime: "08:00", TotalHours: 2},
		{ID: "b", Date: day, StartTime: "17:00", EndTime: "18:00", TotalHours: 1},
	}

	ot, nd := DeriveOvertimeMaps(requests, nil)
	assert.Equal(t, 3.0, ot["2025-03-03"])
	assert.InDelta(t, 1.0, nd["2025-03-03"], 1e-9)
}

func TestDeriveOvertimeMaps_BadTimeKeepsOvertime(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	ot, nd := DeriveOvertimeMaps([]overtime.Request{
		{ID: "x", Date: day, StartTime: "late", EndTime: "22:00", TotalHours: 2},
	}, time.UTC)

	assert.Equal(t, 2.0, ot["2025-03-03"])
	assert.Zero(t, nd["2025-03-03"])
}
