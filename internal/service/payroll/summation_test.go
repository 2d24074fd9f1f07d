package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumPeriod(t *testing.T) {
	days := []attendance.DailyAttendance{
		{Date: "2025-03-03", DayType: attendance.DayTypeRegular, RegularHours: 8, OvertimeHours: 2, NightDiffHours: 1, Basis: attendance.BasisWorked},
		{Date: "2025-03-09", DayType: attendance.DayTypeSunday, RegularHours: 8, Basis: attendance.BasisWorked},
		{Date: "2025-04-17", DayType: attendance.DayTypeRegularHoliday, RegularHours: 8, Basis: attendance.BasisHolidayPay},
		{Date: "2025-04-20", DayType: attendance.DayTypeSunday, Basis: attendance.BasisNone},
	}

	got := SumPeriod(days, decimal.NewFromInt(100))

	require.Len(t, got.Days, 4)
	assertDecimal(t, "1060", got.Days[0].Total)
	assertDecimal(t, "1040", got.Days[1].Total)

	// unworked holiday granted by the day-before rule is paid the plain rate
	assertDecimal(t, "800", got.Days[2].Total)
	assertDecimal(t, "1", got.Days[2].Multiplier)
	assert.Equal(t, attendance.DayTypeRegularHoliday, got.Days[2].DayType)

	assertDecimal(t, "0", got.Days[3].Total)

	assertDecimal(t, "2640", got.RegularPay)
	assertDecimal(t, "250", got.OvertimePay)
	assertDecimal(t, "10", got.NightDiffPay)
	assertDecimal(t, "2900", got.Total)
}

func TestSumPeriod_RoundsPerDay(t *testing.T) {
	// 15000 / 26 / 8 = 72.115384...
	rate := decimal.NewFromInt(15000).Div(decimal.NewFromInt(26)).Div(decimal.NewFromInt(8))
	days := []attendance.DailyAttendance{
		{Date: "2025-03-03", DayType: attendance.DayTypeRegular, RegularHours: 8},
		{Date: "2025-03-04", DayType: attendance.DayTypeRegular, RegularHours: 8},
		{Date: "2025-03-05", DayType: attendance.DayTypeRegular, RegularHours: 3},
	}

	got := SumPeriod(days, rate)

	// 576.923... -> 576.92, 216.346... -> 216.35
	assertDecimal(t, "576.92", got.Days[0].Total)
	assertDecimal(t, "216.35", got.Days[2].Total)
	assertDecimal(t, "1370.19", got.Total)
	for _, d := range got.Days {
		assert.LessOrEqual(t, -d.Total.Exponent(), int32(2))
	}
}
