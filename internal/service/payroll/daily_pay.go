package payroll

import (
	"log/slog"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

type rateRow struct {
	base        decimal.Decimal
	description string
}

var (
	regularOTMultiplier = decimal.RequireFromString("1.25")
	premiumOTMultiplier = decimal.RequireFromString("1.3")
	nightDiffMultiplier = decimal.RequireFromString("0.1")
)

var rateTable = map[attendance.DayType]rateRow{
	attendance.DayTypeRegular:              {decimal.RequireFromString("1.0"), "Regular day"},
	attendance.DayTypeSunday:               {decimal.RequireFromString("1.3"), "Rest day"},
	attendance.DayTypeNonWorkingHoliday:    {decimal.RequireFromString("1.3"), "Special non-working holiday"},
	attendance.DayTypeRegularHoliday:       {decimal.RequireFromString("2.0"), "Regular holiday"},
	attendance.DayTypeSundaySpecialHoliday: {decimal.RequireFromString("1.5"), "Special holiday on rest day"},
	attendance.DayTypeSundayRegularHoliday: {decimal.RequireFromString("2.6"), "Regular holiday on rest day"},
}

// DailyPay is the unrounded pay of one day.
type DailyPay struct {
	RegularPay   decimal.Decimal
	OvertimePay  decimal.Decimal
	NightDiffPay decimal.Decimal
	Total        decimal.Decimal
	Multiplier   decimal.Decimal
	Description  string
}

// CalculateDailyPay prices one day. Overtime is 125% on a regular day and
// base x 130% on any other; night differential is always 10% of the hourly
// rate. Nothing is rounded here.
func CalculateDailyPay(dayType attendance.DayType, regularHours, overtimeHours, nightDiffHours float64, ratePerHour decimal.Decimal) DailyPay {
	row, ok := rateTable[dayType]
	if !ok {
		slog.Warn("unknown day type, pricing as regular", "day_type", dayType)
		dayType = attendance.DayTypeRegular
		row = rateTable[dayType]
	}

	regular := decimal.NewFromFloat(regularHours).Mul(ratePerHour).Mul(row.base)

	otMultiplier := row.base.Mul(premiumOTMultiplier)
	if dayType == attendance.DayTypeRegular {
		otMultiplier = regularOTMultiplier
	}
	overtime := decimal.NewFromFloat(overtimeHours).Mul(ratePerHour).Mul(otMultiplier)

	nightDiff := decimal.NewFromFloat(nightDiffHours).Mul(ratePerHour).Mul(nightDiffMultiplier)

	return DailyPay{
		RegularPay:   regular,
		OvertimePay:  overtime,
		NightDiffPay: nightDiff,
		Total:        regular.Add(overtime).Add(nightDiff),
		Multiplier:   row.base,
		Description:  row.description,
	}
}
