package loan

import "errors"

var (
	ErrLoanNotFound            = errors.New("loan not found")
	ErrConcurrentModification  = errors.New("loan was modified concurrently, please retry")
	ErrDeductionAlreadyApplied = errors.New("loan deduction already applied for this payslip")
)
