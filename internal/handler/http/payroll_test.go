package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	handlerTestExp    = "1h"
	testEmployeeID    = "01964a3e-7b2c-7c11-9a4e-3f2b1c0d9e8f"
)

type fakePayrollService struct {
	generateErr error
	getErr      error

	lastGenerate payroll.GeneratePayslipRequest
	lastFilter   payroll.PayslipFilter
	lastCompany  string
}

func (f *fakePayrollService) GeneratePayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.GeneratePayslipResponse, error) {
	f.lastGenerate = req
	if f.generateErr != nil {
		return payroll.GeneratePayslipResponse{}, f.generateErr
	}
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}
	return payroll.GeneratePayslipResponse{
		Payslip: payroll.PayslipResponse{
			PayslipNumber: "PS-2025-06-" + req.EmployeeID,
			EmployeeID:    req.EmployeeID,
			GrossPay:      decimal.NewFromInt(13000),
			NetPay:        decimal.RequireFromString("9623.72"),
			Status:        payroll.PayslipStatusSaved,
		},
		HasAttendance: true,
	}, nil
}

func (f *fakePayrollService) PreviewPayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.GeneratePayslipResponse, error) {
	return payroll.GeneratePayslipResponse{Warnings: []string{"preview"}}, nil
}

func (f *fakePayrollService) GetPayslip(ctx context.Context, number string) (payroll.PayslipResponse, error) {
	if f.getErr != nil {
		return payroll.PayslipResponse{}, f.getErr
	}
	return payroll.PayslipResponse{PayslipNumber: number}, nil
}

func (f *fakePayrollService) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.PayslipResponse, error) {
	f.lastFilter = filter
	return []payroll.PayslipResponse{{PayslipNumber: "PS-2025-06-a"}, {PayslipNumber: "PS-2025-06-b"}}, nil
}

func (f *fakePayrollService) PreviewTimesheet(ctx context.Context, req payroll.TimesheetRequest) (payroll.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TimesheetResponse{}, err
	}
	return payroll.TimesheetResponse{EmployeeID: req.EmployeeID, PeriodStart: req.PeriodStart, PeriodEnd: req.PeriodEnd}, nil
}

func (f *fakePayrollService) GetRegister(ctx context.Context, req payroll.RegisterRequest) (payroll.RegisterResponse, error) {
	return payroll.RegisterResponse{PeriodStart: req.PeriodStart, PeriodEnd: req.PeriodEnd, EmployeeCount: 2}, nil
}

func (f *fakePayrollService) ListPendingSideEffects(ctx context.Context) ([]payroll.SideEffectResponse, error) {
	return []payroll.SideEffectResponse{}, nil
}

func (f *fakePayrollService) RetryPendingSideEffects(ctx context.Context, limit int) (int, error) {
	return 0, nil
}

func newTestRouter(t *testing.T, svc payroll.PayrollService) (http.Handler, jwt.Service) {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestExp)
	router := NewRouter(jwtService, NewPayrollHandler(svc), RouterOptions{AppName: "payroll-test", Env: "test"})
	return router, jwtService
}

func tokenFor(t *testing.T, jwtService jwt.Service, role string) string {
	t.Helper()
	token, _, err := jwtService.GenerateAccessToken("user-1", "company-1", role)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, h http.Handler, method, target, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestPayrollRoutes_RequireToken(t *testing.T) {
	router, _ := newTestRouter(t, &fakePayrollService{})

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGeneratePayslipHandler(t *testing.T) {
	body := map[string]string{
		"employee_id":  testEmployeeID,
		"period_start": "2025-03-16",
		"period_end":   "2025-03-31",
	}

	t.Run("manager generates payslip", func(t *testing.T) {
		svc := &fakePayrollService{}
		router, jwtService := newTestRouter(t, svc)

		rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/payroll/payslips", tokenFor(t, jwtService, "manager"), body)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, testEmployeeID, svc.lastGenerate.EmployeeID)

		data := resp.Data.(map[string]interface{})
		payslip := data["payslip"].(map[string]interface{})
		assert.Equal(t, "PS-2025-06-"+testEmployeeID, payslip["payslip_number"])
		assert.Equal(t, "9623.72", payslip["net_pay"])
		assert.Equal(t, true, data["has_attendance"])
	})

	t.Run("employee role is forbidden", func(t *testing.T) {
		router, jwtService := newTestRouter(t, &fakePayrollService{})

		rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/payroll/payslips", tokenFor(t, jwtService, "employee"), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		router, jwtService := newTestRouter(t, &fakePayrollService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/payslips", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, "owner"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		router, jwtService := newTestRouter(t, &fakePayrollService{})

		rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/payroll/payslips", tokenFor(t, jwtService, "owner"), map[string]string{
			"employee_id":  testEmployeeID,
			"period_start": "2025-03-10",
			"period_end":   "2025-03-20",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "period_end")
	})

	errCases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"missing rate", payroll.ErrMissingRate, http.StatusUnprocessableEntity, "MISSING_RATE"},
		{"invalid gross", payroll.ErrInvalidGrossPay, http.StatusUnprocessableEntity, "INVALID_GROSS_PAY"},
		{"loan conflict", loan.ErrConcurrentModification, http.StatusConflict, "CONFLICT"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			router, jwtService := newTestRouter(t, &fakePayrollService{generateErr: tc.err})

			rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/payroll/payslips", tokenFor(t, jwtService, "owner"), body)
			assert.Equal(t, tc.wantCode, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantErr, resp.Error.Code)
		})
	}
}

func TestGetPayslipHandler(t *testing.T) {
	router, jwtService := newTestRouter(t, &fakePayrollService{})
	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/PS-2025-06-x", tokenFor(t, jwtService, "employee"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PS-2025-06-x", resp.Data.(map[string]interface{})["payslip_number"])

	router, jwtService = newTestRouter(t, &fakePayrollService{getErr: payroll.ErrPayslipNotFound})
	rec, resp = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/PS-2025-06-x", tokenFor(t, jwtService, "employee"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestListPayslipsHandler(t *testing.T) {
	svc := &fakePayrollService{}
	router, jwtService := newTestRouter(t, svc)
	token := tokenFor(t, jwtService, "employee")

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips?employee_id="+testEmployeeID+"&period_start=2025-03-16", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.TotalItems)
	require.NotNil(t, svc.lastFilter.EmployeeID)
	assert.Equal(t, testEmployeeID, *svc.lastFilter.EmployeeID)
	require.NotNil(t, svc.lastFilter.PeriodStart)
	assert.Equal(t, "2025-03-16", svc.lastFilter.PeriodStart.Format("2006-01-02"))
	assert.Nil(t, svc.lastFilter.PeriodEnd)

	rec, _ = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips?period_end=31-03-2025", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreviewTimesheetAndRegisterHandlers(t *testing.T) {
	router, jwtService := newTestRouter(t, &fakePayrollService{})

	rec, resp := doRequest(t, router, http.MethodGet,
		"/api/v1/payroll/timesheet?employee_id="+testEmployeeID+"&period_start=2025-04-01&period_end=2025-04-15",
		tokenFor(t, jwtService, "employee"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-04-01", resp.Data.(map[string]interface{})["period_start"])

	rec, _ = doRequest(t, router, http.MethodGet, "/api/v1/payroll/register?period_start=2025-04-01&period_end=2025-04-15",
		tokenFor(t, jwtService, "employee"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = doRequest(t, router, http.MethodGet, "/api/v1/payroll/register?period_start=2025-04-01&period_end=2025-04-15",
		tokenFor(t, jwtService, "owner"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, resp.Data.(map[string]interface{})["employee_count"])
}

func TestRequireCompany(t *testing.T) {
	router, jwtService := newTestRouter(t, &fakePayrollService{})
	token, _, err := jwtService.GenerateAccessToken("user-1", "", "owner")
	require.NoError(t, err)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/payroll/side-effects", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
