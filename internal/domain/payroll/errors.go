package payroll

import "errors"

var (
	ErrPayslipNotFound    = errors.New("payslip not found")
	ErrMissingRate        = errors.New("employee has no monthly rate or daily rate configured")
	ErrInvalidGrossPay    = errors.New("gross pay is invalid, please recalculate")
	ErrPeriodSpansCutoffs = errors.New("payroll period must fall within a single cutoff")
	ErrSideEffectNotFound = errors.New("side effect not found")
	ErrUnknownSideEffect  = errors.New("unknown side effect step")
)
