package loan

import (
	"context"
	"time"
)

type LoanRepository interface {
	// ListActive returns active loans of the employee effective on or before asOf.
	ListActive(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]Loan, error)

	// ListDeductionsByPayslip returns ledger rows already written for a payslip.
	ListDeductionsByPayslip(ctx context.Context, payslipNumber string) ([]Deduction, error)

	// ApplyDeduction inserts the ledger row and writes the loan's new state,
	// guarded by the loan's Version. Returns ErrDeductionAlreadyApplied when
	// the ledger row exists and ErrConcurrentModification on a version clash.
	ApplyDeduction(ctx context.Context, updated Loan, deduction Deduction) error
}
