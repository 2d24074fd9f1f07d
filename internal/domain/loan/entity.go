package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// CutoffAssignment selects the cutoff(s) a loan is deducted in.
type CutoffAssignment string

const (
	CutoffFirst  CutoffAssignment = "first"
	CutoffSecond CutoffAssignment = "second"
	CutoffBoth   CutoffAssignment = "both"
)

// Loan is the one payroll entity with cross-period mutable state. Version is
// bumped on every write and checked on update.
type Loan struct {
	ID               string
	EmployeeID       string
	CompanyID        string
	LoanType         string
	CurrentBalance   decimal.Decimal
	MonthlyPayment   decimal.Decimal
	TotalTerms       decimal.Decimal
	RemainingTerms   decimal.Decimal
	CutoffAssignment CutoffAssignment
	EffectivityDate  time.Time
	IsActive         bool
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Deduction is the ledger row written when a loan is deducted on a payslip.
// (LoanID, PayslipNumber) is unique so a cutoff re-run cannot deduct twice.
type Deduction struct {
	ID            string
	LoanID        string
	PayslipNumber string
	LoanType      string
	Amount        decimal.Decimal
	TermDecrement decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}
