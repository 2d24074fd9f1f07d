package payroll

import (
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// PeriodPay is the priced timesheet of a period.
type PeriodPay struct {
	Days         []payroll.EarningDay
	RegularPay   decimal.Decimal
	OvertimePay  decimal.Decimal
	NightDiffPay decimal.Decimal
	Total        decimal.Decimal
}

// SumPeriod prices every day and sums the results. Amounts are rounded to
// centavos per day and again on the totals. Unworked holidays granted by the
// day-before rule are paid the plain daily rate.
func SumPeriod(days []attendance.DailyAttendance, ratePerHour decimal.Decimal) PeriodPay {
	out := PeriodPay{
		Days:         make([]payroll.EarningDay, 0, len(days)),
		RegularPay:   decimal.Zero,
		OvertimePay:  decimal.Zero,
		NightDiffPay: decimal.Zero,
		Total:        decimal.Zero,
	}

	for _, d := range days {
		pricedAs := d.DayType
		if d.Basis == attendance.BasisHolidayPay {
			pricedAs = attendance.DayTypeRegular
		}
		pay := CalculateDailyPay(pricedAs, d.RegularHours, d.OvertimeHours, d.NightDiffHours, ratePerHour)

		regular := pay.RegularPay.Round(moneyPlaces)
		overtime := pay.OvertimePay.Round(moneyPlaces)
		nightDiff := pay.NightDiffPay.Round(moneyPlaces)
		total := regular.Add(overtime).Add(nightDiff)

		description := pay.Description
		if d.Basis == attendance.BasisHolidayPay {
			description = "Holiday pay (unworked)"
		}

		out.Days = append(out.Days, payroll.EarningDay{
			DailyAttendance: d,
			RegularPay:      regular,
			OvertimePay:     overtime,
			NightDiffPay:    nightDiff,
			Total:           total,
			Multiplier:      pay.Multiplier,
			Description:     description,
		})

		out.RegularPay = out.RegularPay.Add(regular)
		out.OvertimePay = out.OvertimePay.Add(overtime)
		out.NightDiffPay = out.NightDiffPay.Add(nightDiff)
		out.Total = out.Total.Add(total)
	}

	out.RegularPay = out.RegularPay.Round(moneyPlaces)
	out.OvertimePay = out.OvertimePay.Round(moneyPlaces)
	out.NightDiffPay = out.NightDiffPay.Round(moneyPlaces)
	out.Total = out.Total.Round(moneyPlaces)
	return out
}
