package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Payslips
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	PreviewPayslip(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)

	// Attendance preview
	PreviewTimesheet(w http.ResponseWriter, r *http.Request)

	// Register
	GetRegister(w http.ResponseWriter, r *http.Request)

	// Side effects
	ListPendingSideEffects(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslip generated", result)
}

func (h *payrollHandlerImpl) PreviewPayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewPayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		response.BadRequest(w, "Payslip number is required", nil)
		return
	}

	result, err := h.payrollService.GetPayslip(r.Context(), number)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	var req payroll.ListPayslipsRequest

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}
	if periodStart := r.URL.Query().Get("period_start"); periodStart != "" {
		req.PeriodStart = &periodStart
	}
	if periodEnd := r.URL.Query().Get("period_end"); periodEnd != "" {
		req.PeriodEnd = &periodEnd
	}

	filter, err := req.ToFilter()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListPayslips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

// ========== TIMESHEET ==========

func (h *payrollHandlerImpl) PreviewTimesheet(w http.ResponseWriter, r *http.Request) {
	req := payroll.TimesheetRequest{
		EmployeeID:  r.URL.Query().Get("employee_id"),
		PeriodStart: r.URL.Query().Get("period_start"),
		PeriodEnd:   r.URL.Query().Get("period_end"),
	}

	result, err := h.payrollService.PreviewTimesheet(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== REGISTER ==========

func (h *payrollHandlerImpl) GetRegister(w http.ResponseWriter, r *http.Request) {
	req := payroll.RegisterRequest{
		PeriodStart: r.URL.Query().Get("period_start"),
		PeriodEnd:   r.URL.Query().Get("period_end"),
	}

	result, err := h.payrollService.GetRegister(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SIDE EFFECTS ==========

func (h *payrollHandlerImpl) ListPendingSideEffects(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPendingSideEffects(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
