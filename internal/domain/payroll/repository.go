package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access methods for payslips.
// Reads include companyID to prevent cross-company data access.
type PayrollRepository interface {
	// UpsertPayslip inserts or updates by PayslipNumber.
	UpsertPayslip(ctx context.Context, payslip Payslip) (Payslip, error)
	GetPayslipByNumber(ctx context.Context, number string, companyID string) (Payslip, error)
	ListPayslips(ctx context.Context, companyID string, filter PayslipFilter) ([]Payslip, error)
	UpdateThirteenthMonthPay(ctx context.Context, number string, companyID string, amount decimal.Decimal) error
}

// SideEffectRepository is the compensation log of best-effort payroll steps.
type SideEffectRepository interface {
	Record(ctx context.Context, effect SideEffect) (SideEffect, error)
	// ListPending returns pending entries, all companies when companyID is nil.
	ListPending(ctx context.Context, companyID *string, limit int) ([]SideEffect, error)
	MarkResolved(ctx context.Context, id string) error
	MarkAttempt(ctx context.Context, id string, lastError string) error
}
