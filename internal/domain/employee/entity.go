package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                  string
	CompanyID           string
	EmployeeCode        string
	FullName            string
	Position            string
	JobLevel            string
	EmployeeType        EmployeeType
	IsAccountSupervisor bool
	EligibleForOT       bool
	EligibleForND       bool
	RatePerDay          *decimal.Decimal
	MonthlyRate         *decimal.Decimal
	Allowance           *decimal.Decimal // per cutoff, non-taxable
	HireDate            time.Time
	EmploymentStatus    EmploymentStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type EmployeeType string

const (
	EmployeeTypeOfficeBased EmployeeType = "office-based"
	EmployeeTypeClientBased EmployeeType = "client-based"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// WorkingDaysPerMonth converts between monthly and daily rates.
var WorkingDaysPerMonth = decimal.NewFromInt(26)

var hoursPerDay = decimal.NewFromInt(8)

func (e Employee) IsClientBased() bool {
	return e.EmployeeType == EmployeeTypeClientBased
}

// HasRate reports whether a daily or monthly rate is configured.
func (e Employee) HasRate() bool {
	return (e.RatePerDay != nil && e.RatePerDay.IsPositive()) ||
		(e.MonthlyRate != nil && e.MonthlyRate.IsPositive())
}

// DailyRate is the configured per-day rate, or monthly / 26 when the monthly
// rate is authoritative.
func (e Employee) DailyRate() decimal.Decimal {
	if e.MonthlyRate != nil && e.MonthlyRate.IsPositive() {
		return e.MonthlyRate.Div(WorkingDaysPerMonth)
	}
	if e.RatePerDay != nil {
		return *e.RatePerDay
	}
	return decimal.Zero
}

func (e Employee) HourlyRate() decimal.Decimal {
	return e.DailyRate().Div(hoursPerDay)
}

// MonthlyBasicSalary excludes allowances.
func (e Employee) MonthlyBasicSalary() decimal.Decimal {
	if e.MonthlyRate != nil && e.MonthlyRate.IsPositive() {
		return *e.MonthlyRate
	}
	if e.RatePerDay != nil {
		return e.RatePerDay.Mul(WorkingDaysPerMonth)
	}
	return decimal.Zero
}

func (e Employee) CutoffAllowance() decimal.Decimal {
	if e.Allowance == nil {
		return decimal.Zero
	}
	return *e.Allowance
}
