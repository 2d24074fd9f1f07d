package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company ID is required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrSideEffectNotFound):
		NotFound(w, "Side effect not found")
	case errors.Is(err, payroll.ErrMissingRate):
		Unprocessable(w, "MISSING_RATE", err.Error())
	case errors.Is(err, payroll.ErrInvalidGrossPay):
		Unprocessable(w, "INVALID_GROSS_PAY", err.Error())

	// Loan domain errors
	case errors.Is(err, loan.ErrConcurrentModification):
		Conflict(w, "Loan was modified concurrently, please retry")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
