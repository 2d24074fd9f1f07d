package timesheet

import (
	"testing"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/holiday"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestClassify_Precedence(t *testing.T) {
	// 2025-06-12 is a Thursday
	const date = "2025-06-12"
	regular := []holiday.Holiday{{Date: date, Name: "Independence Day", Type: holiday.HolidayTypeRegular}}
	special := []holiday.Holiday{{Date: date, Name: "Special Day", Type: holiday.HolidayTypeNonWorking}}

	tests := []struct {
		name     string
		holidays []holiday.Holiday
		restDay  bool
		want     attendance.DayType
	}{
		{"rest day + regular holiday", regular, true, attendance.DayTypeSundayRegularHoliday},
		{"rest day + non-working holiday", special, true, attendance.DayTypeSundaySpecialHoliday},
		{"regular holiday", regular, false, attendance.DayTypeRegularHoliday},
		{"non-working holiday", special, false, attendance.DayTypeNonWorkingHoliday},
		{"rest day", nil, true, attendance.DayTypeSunday},
		{"plain day", nil, false, attendance.DayTypeRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, clientBased := range []bool{false, true} {
				got := Classify(date, tt.holidays, boolPtr(tt.restDay), clientBased)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassify_DefaultRestDay(t *testing.T) {
	// 2025-03-02 is a Sunday
	assert.Equal(t, attendance.DayTypeSunday, Classify("2025-03-02", nil, nil, false))
	assert.Equal(t, attendance.DayTypeRegular, Classify("2025-03-02", nil, nil, true))

	// an explicit schedule overrides the default
	assert.Equal(t, attendance.DayTypeRegular, Classify("2025-03-02", nil, boolPtr(false), false))
	assert.Equal(t, attendance.DayTypeSunday, Classify("2025-03-03", nil, boolPtr(true), true))
}

func TestClassify_HolidayOnDefaultSunday(t *testing.T) {
	holidays := []holiday.Holiday{{Date: "2025-03-02", Type: holiday.HolidayTypeRegular}}
	assert.Equal(t, attendance.DayTypeSundayRegularHoliday, Classify("2025-03-02", holidays, nil, false))
	assert.Equal(t, attendance.DayTypeRegularHoliday, Classify("2025-03-02", holidays, nil, true))
}

func TestClassify_TimestampSuffixedHoliday(t *testing.T) {
	holidays := []holiday.Holiday{{Date: "2025-12-25T00:00:00Z", Type: holiday.HolidayTypeRegular}}

	assert.Equal(t, attendance.DayTypeRegularHoliday, Classify("2025-12-25", holidays, boolPtr(false), false))
	assert.Equal(t, attendance.DayTypeRegularHoliday, Classify("2025-12-25 00:00:00", holidays, boolPtr(false), false))
	assert.Equal(t, attendance.DayTypeRegular, Classify("2025-12-26", holidays, boolPtr(false), false))
}

func TestClassify_MalformedDateFailsOpen(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, attendance.DayTypeRegular, Classify("not-a-date", nil, boolPtr(true), false))
		assert.Equal(t, attendance.DayTypeRegular, Classify("", nil, nil, false))
	})
}

func TestClassify_Pure(t *testing.T) {
	holidays := []holiday.Holiday{{Date: "2025-04-18", Type: holiday.HolidayTypeRegular}}
	first := Classify("2025-04-18", holidays, boolPtr(true), false)
	second := Classify("2025-04-18", holidays, boolPtr(true), false)
	assert.Equal(t, first, second)
	assert.Equal(t, "2025-04-18", holidays[0].Date)
}
