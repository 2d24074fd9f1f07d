package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PERIOD ==========

// Period is a validated [Start, End] civil-date range inside one cutoff.
type Period struct {
	Start  time.Time
	End    time.Time
	Cutoff Cutoff
}

func validatePeriod(start, end string) (Period, validator.ValidationErrors) {
	var errs validator.ValidationErrors

	startDate, okStart := validator.IsValidDate(start)
	if !okStart {
		errs.Add("period_start", "must be in YYYY-MM-DD format")
	}
	endDate, okEnd := validator.IsValidDate(end)
	if !okEnd {
		errs.Add("period_end", "must be in YYYY-MM-DD format")
	}
	if !okStart || !okEnd {
		return Period{}, errs
	}

	if endDate.Before(startDate) {
		errs.Add("period_end", "must be on or after period_start")
		return Period{}, errs
	}
	if CutoffOf(startDate) != CutoffOf(endDate) {
		errs.Add("period_end", ErrPeriodSpansCutoffs.Error())
		return Period{}, errs
	}

	return Period{Start: startDate, End: endDate, Cutoff: CutoffOf(startDate)}, nil
}

// ========== PAYSLIP DTOs ==========

type GeneratePayslipRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	period Period
}

func (r *GeneratePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}

	period, periodErrs := validatePeriod(r.PeriodStart, r.PeriodEnd)
	errs = append(errs, periodErrs...)

	if len(errs) > 0 {
		return errs
	}
	r.period = period
	return nil
}

// Period returns the parsed period; valid only after Validate succeeds.
func (r *GeneratePayslipRequest) Period() Period {
	return r.period
}

type PayslipResponse struct {
	ID                  string          `json:"id,omitempty"`
	PayslipNumber       string          `json:"payslip_number"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        *string         `json:"employee_name,omitempty"`
	EmployeeCode        *string         `json:"employee_code,omitempty"`
	PeriodStart         string          `json:"period_start"`
	PeriodEnd           string          `json:"period_end"`
	EarningsBreakdown   []EarningDay    `json:"earnings_breakdown"`
	RegularPay          decimal.Decimal `json:"regular_pay"`
	OvertimePay         decimal.Decimal `json:"overtime_pay"`
	NightDiffPay        decimal.Decimal `json:"night_diff_pay"`
	Allowance           decimal.Decimal `json:"allowance"`
	GrossPay            decimal.Decimal `json:"gross_pay"`
	DeductionsBreakdown []DeductionLine `json:"deductions_breakdown"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	SSSAmount           decimal.Decimal `json:"sss_amount"`
	PhilHealthAmount    decimal.Decimal `json:"philhealth_amount"`
	PagIBIGAmount       decimal.Decimal `json:"pagibig_amount"`
	WithholdingTax      decimal.Decimal `json:"withholding_tax"`
	LoanDeductions      decimal.Decimal `json:"loan_deductions"`
	ThirteenthMonthPay  decimal.Decimal `json:"thirteenth_month_pay"`
	NetPay              decimal.Decimal `json:"net_pay"`
	Status              PayslipStatus   `json:"status"`
	CreatedAt           *time.Time      `json:"created_at,omitempty"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

type GeneratePayslipResponse struct {
	Payslip       PayslipResponse `json:"payslip"`
	HasAttendance bool            `json:"has_attendance"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// PayslipFilter narrows ListPayslips; nil fields are ignored.
type PayslipFilter struct {
	EmployeeID  *string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

type ListPayslipsRequest struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
}

func (r *ListPayslipsRequest) ToFilter() (PayslipFilter, error) {
	var errs validator.ValidationErrors
	var filter PayslipFilter

	if r.EmployeeID != nil && *r.EmployeeID != "" {
		if !validator.IsValidUUID(*r.EmployeeID) {
			errs.Add("employee_id", "must be a valid UUID")
		}
		filter.EmployeeID = r.EmployeeID
	}
	if r.PeriodStart != nil && *r.PeriodStart != "" {
		d, ok := validator.IsValidDate(*r.PeriodStart)
		if !ok {
			errs.Add("period_start", "must be in YYYY-MM-DD format")
		}
		filter.PeriodStart = &d
	}
	if r.PeriodEnd != nil && *r.PeriodEnd != "" {
		d, ok := validator.IsValidDate(*r.PeriodEnd)
		if !ok {
			errs.Add("period_end", "must be in YYYY-MM-DD format")
		}
		filter.PeriodEnd = &d
	}

	if len(errs) > 0 {
		return PayslipFilter{}, errs
	}
	return filter, nil
}

// ========== TIMESHEET DTOs ==========

type TimesheetRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	period Period
}

func (r *TimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}

	period, periodErrs := validatePeriod(r.PeriodStart, r.PeriodEnd)
	errs = append(errs, periodErrs...)

	if len(errs) > 0 {
		return errs
	}
	r.period = period
	return nil
}

func (r *TimesheetRequest) Period() Period {
	return r.period
}

type TimesheetResponse struct {
	EmployeeID     string                       `json:"employee_id"`
	PeriodStart    string                       `json:"period_start"`
	PeriodEnd      string                       `json:"period_end"`
	AttendanceData []attendance.DailyAttendance `json:"attendance_data"`
	Totals         attendance.Totals            `json:"totals"`
	HasAttendance  bool                         `json:"has_attendance"`
}

// ========== REGISTER DTOs ==========

type RegisterRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	period Period
}

func (r *RegisterRequest) Validate() error {
	period, errs := validatePeriod(r.PeriodStart, r.PeriodEnd)
	if len(errs) > 0 {
		return errs
	}
	r.period = period
	return nil
}

func (r *RegisterRequest) Period() Period {
	return r.period
}

type RegisterRow struct {
	PayslipNumber   string          `json:"payslip_number"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	EmployeeCode    *string         `json:"employee_code,omitempty"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

type RegisterResponse struct {
	PeriodStart         string          `json:"period_start"`
	PeriodEnd           string          `json:"period_end"`
	EmployeeCount       int             `json:"employee_count"`
	TotalGross          decimal.Decimal `json:"total_gross"`
	TotalSSS            decimal.Decimal `json:"total_sss"`
	TotalPhilHealth     decimal.Decimal `json:"total_philhealth"`
	TotalPagIBIG        decimal.Decimal `json:"total_pagibig"`
	TotalWithholdingTax decimal.Decimal `json:"total_withholding_tax"`
	TotalLoans          decimal.Decimal `json:"total_loans"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	TotalNet            decimal.Decimal `json:"total_net"`
	Rows                []RegisterRow   `json:"rows"`
}

// ========== SIDE EFFECT DTOs ==========

type SideEffectResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	PayslipNumber string           `json:"payslip_number"`
	Step          string           `json:"step"`
	PeriodStart   string           `json:"period_start"`
	Status        SideEffectStatus `json:"status"`
	Attempts      int              `json:"attempts"`
	LastError     string           `json:"last_error,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
