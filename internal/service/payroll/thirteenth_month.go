package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// MonthsWorked counts the calendar months of year the employee was employed,
// the hire month included.
func MonthsWorked(hireDate time.Time, year int) int {
	switch {
	case hireDate.IsZero() || hireDate.Year() < year:
		return 12
	case hireDate.Year() > year:
		return 0
	default:
		return 12 - int(hireDate.Month()) + 1
	}
}

// ThirteenthMonthPay is basic/12 for every month worked, less SIL days which
// do not count toward it. Never negative.
func ThirteenthMonthPay(monthlyBasicSalary, dailyRate decimal.Decimal, monthsWorked int, silDays decimal.Decimal) decimal.Decimal {
	accrued := monthlyBasicSalary.Div(monthsPerYear).Mul(decimal.NewFromInt(int64(monthsWorked)))
	silExclusion := silDays.Mul(dailyRate).Div(monthsPerYear)
	return decimal.Max(accrued.Sub(silExclusion), decimal.Zero).Round(moneyPlaces)
}

// AccruesThirteenthMonth reports whether a period starting on periodStart
// carries the 13th-month accrual.
func AccruesThirteenthMonth(periodStart time.Time) bool {
	return periodStart.Month() == time.December
}
