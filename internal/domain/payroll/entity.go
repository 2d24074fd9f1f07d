package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipStatusDraft PayslipStatus = "draft"
	PayslipStatusSaved PayslipStatus = "saved"
)

// EarningDay is a DailyAttendance priced by the daily pay calculator.
type EarningDay struct {
	attendance.DailyAttendance
	RegularPay   decimal.Decimal `json:"regular_pay"`
	OvertimePay  decimal.Decimal `json:"overtime_pay"`
	NightDiffPay decimal.Decimal `json:"night_diff_pay"`
	Total        decimal.Decimal `json:"total"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	Description  string          `json:"description"`
}

// DeductionCode enum
type DeductionCode string

const (
	DeductionSSS            DeductionCode = "sss"
	DeductionSSSWISP        DeductionCode = "sss_wisp"
	DeductionPhilHealth     DeductionCode = "philhealth"
	DeductionPagIBIG        DeductionCode = "pagibig"
	DeductionWithholdingTax DeductionCode = "withholding_tax"
	DeductionLoan           DeductionCode = "loan"
)

type DeductionLine struct {
	Code   DeductionCode   `json:"code"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	LoanID *string         `json:"loan_id,omitempty"`
}

// Payslip - persisted result of a payroll run for one employee and cutoff
type Payslip struct {
	ID                  string
	PayslipNumber       string
	CompanyID           string
	EmployeeID          string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	EarningsBreakdown   []EarningDay
	RegularPay          decimal.Decimal
	OvertimePay         decimal.Decimal
	NightDiffPay        decimal.Decimal
	Allowance           decimal.Decimal
	GrossPay            decimal.Decimal
	DeductionsBreakdown []DeductionLine
	TotalDeductions     decimal.Decimal
	SSSAmount           decimal.Decimal
	PhilHealthAmount    decimal.Decimal
	PagIBIGAmount       decimal.Decimal
	WithholdingTax      decimal.Decimal
	LoanDeductions      decimal.Decimal
	ThirteenthMonthPay  decimal.Decimal
	NetPay              decimal.Decimal
	Status              PayslipStatus
	GeneratedBy         *string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// SideEffectStatus enum
type SideEffectStatus string

const (
	SideEffectStatusPending  SideEffectStatus = "pending"
	SideEffectStatusResolved SideEffectStatus = "resolved"
)

const SideEffectThirteenthMonth = "thirteenth_month_accrual"

// SideEffect is a compensation-log entry for a best-effort step that failed
// after the payslip was written.
type SideEffect struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	PayslipNumber string
	Step          string
	PeriodStart   time.Time
	Status        SideEffectStatus
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
