package payroll

import "context"

// PayrollService defines the payslip pipeline operations.
type PayrollService interface {
	// GeneratePayslip computes and persists (upserts) the payslip of one cutoff.
	GeneratePayslip(ctx context.Context, req GeneratePayslipRequest) (GeneratePayslipResponse, error)

	// PreviewPayslip computes a draft payslip without persisting or touching loans.
	PreviewPayslip(ctx context.Context, req GeneratePayslipRequest) (GeneratePayslipResponse, error)

	GetPayslip(ctx context.Context, number string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) ([]PayslipResponse, error)

	// PreviewTimesheet returns the classified attendance of a period.
	PreviewTimesheet(ctx context.Context, req TimesheetRequest) (TimesheetResponse, error)

	// GetRegister rolls up all payslips of a period.
	GetRegister(ctx context.Context, req RegisterRequest) (RegisterResponse, error)

	ListPendingSideEffects(ctx context.Context) ([]SideEffectResponse, error)

	// RetryPendingSideEffects re-runs up to limit pending side effects across
	// all companies and returns how many were resolved. Used by the retry job.
	RetryPendingSideEffects(ctx context.Context, limit int) (int, error)
}
