package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/service/timesheet"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

const stepPersistPayslip = "persist_payslip"

// Config holds the payroll policy knobs.
type Config struct {
	Location     *time.Location
	LookbackDays int
	CutoverDate  string
}

// Repositories groups the data sources the payslip pipeline reads and writes.
type Repositories struct {
	Payroll    payroll.PayrollRepository
	SideEffect payroll.SideEffectRepository
	Employee   employee.EmployeeRepository
	ClockEntry attendance.ClockEntryRepository
	Holiday    holiday.HolidayRepository
	Overtime   overtime.OvertimeRepository
	Schedule   schedule.ScheduleRepository
	Leave      leave.LeaveRepository
	Loan       loan.LoanRepository
}

type PayrollServiceImpl struct {
	db             database.Transactor
	payrollRepo    payroll.PayrollRepository
	sideEffectRepo payroll.SideEffectRepository
	employeeRepo   employee.EmployeeRepository
	clockRepo      attendance.ClockEntryRepository
	holidayRepo    holiday.HolidayRepository
	overtimeRepo   overtime.OvertimeRepository
	scheduleRepo   schedule.ScheduleRepository
	leaveRepo      leave.LeaveRepository
	loanRepo       loan.LoanRepository
	statutory      *StatutoryCalculator
	locks          *keylock.Locker
	cfg            Config
}

func NewPayrollService(db database.Transactor, repos Repositories, cfg Config) *PayrollServiceImpl {
	if cfg.Location == nil {
		cfg.Location = timesheet.Manila()
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = timesheet.DefaultLookbackDays
	}
	if cfg.CutoverDate == "" {
		cfg.CutoverDate = timesheet.DefaultCutoverDate
	}

	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    repos.Payroll,
		sideEffectRepo: repos.SideEffect,
		employeeRepo:   repos.Employee,
		clockRepo:      repos.ClockEntry,
		holidayRepo:    repos.Holiday,
		overtimeRepo:   repos.Overtime,
		scheduleRepo:   repos.Schedule,
		leaveRepo:      repos.Leave,
		loanRepo:       repos.Loan,
		statutory:      NewStatutoryCalculator(),
		locks:          keylock.New(),
		cfg:            cfg,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", auth.ErrMissingClaims
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== TIMESHEET ==========

func (s *PayrollServiceImpl) buildTimesheet(ctx context.Context, emp employee.Employee, period payroll.Period) (timesheet.Result, error) {
	loc := s.cfg.Location
	contextStart := period.Start.AddDate(0, 0, -s.cfg.LookbackDays)

	// clock_in is UTC; the window is bounded by Manila midnights
	from := time.Date(contextStart.Year(), contextStart.Month(), contextStart.Day(), 0, 0, 0, 0, loc).UTC()
	to := time.Date(period.End.Year(), period.End.Month(), period.End.Day()+1, 0, 0, 0, 0, loc).UTC()

	entries, err := s.clockRepo.ListByEmployee(ctx, emp.ID, from, to)
	if err != nil {
		return timesheet.Result{}, fmt.Errorf("failed to get clock entries: %w", err)
	}

	holidays, err := s.holidayRepo.ListBetween(ctx, contextStart, period.End)
	if err != nil {
		return timesheet.Result{}, fmt.Errorf("failed to get holidays: %w", err)
	}

	days, err := s.scheduleRepo.ListByEmployee(ctx, emp.ID, contextStart, period.End)
	if err != nil {
		return timesheet.Result{}, fmt.Errorf("failed to get schedule: %w", err)
	}

	requests, err := s.overtimeRepo.ListApproved(ctx, emp.ID, contextStart, period.End)
	if err != nil {
		return timesheet.Result{}, fmt.Errorf("failed to get approved overtime: %w", err)
	}

	var approvedOT, approvedND map[string]float64
	if len(requests) > 0 {
		ot, nd := timesheet.DeriveOvertimeMaps(requests, loc)
		if emp.EligibleForOT {
			approvedOT = ot
		}
		if emp.EligibleForND {
			approvedND = nd
		}
	}

	result := timesheet.Generate(entries, timesheet.Options{
		PeriodStart:                    period.Start,
		PeriodEnd:                      period.End,
		Holidays:                       holidays,
		RestDays:                       schedule.RestDayMap(days),
		EligibleForOT:                  emp.EligibleForOT,
		EligibleForNightDiff:           emp.EligibleForND,
		IsClientBased:                  emp.IsClientBased(),
		IsClientBasedAccountSupervisor: emp.IsClientBased() && emp.IsAccountSupervisor,
		ApprovedOT:                     approvedOT,
		ApprovedND:                     approvedND,
		Location:                       loc,
		LookbackDays:                   s.cfg.LookbackDays,
		CutoverDate:                    s.cfg.CutoverDate,
	})

	leaves, err := s.leaveRepo.ListApproved(ctx, emp.ID, period.Start, period.End)
	if err != nil {
		return timesheet.Result{}, fmt.Errorf("failed to get approved leave: %w", err)
	}
	if len(leaves) > 0 {
		result.AttendanceData = timesheet.ApplyLeave(result.AttendanceData, leave.ByDate(leaves))
		result.Totals = timesheet.Totals(result.AttendanceData)
		result.HasAttendance = result.HasAttendance || result.Totals.DaysPresent > 0
	}

	return result, nil
}

func (s *PayrollServiceImpl) PreviewTimesheet(ctx context.Context, req payroll.TimesheetRequest) (payroll.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TimesheetResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.TimesheetResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.TimesheetResponse{}, err
	}

	period := req.Period()
	result, err := s.buildTimesheet(ctx, emp, period)
	if err != nil {
		return payroll.TimesheetResponse{}, err
	}

	return payroll.TimesheetResponse{
		EmployeeID:     emp.ID,
		PeriodStart:    period.Start.Format(attendance.DateLayout),
		PeriodEnd:      period.End.Format(attendance.DateLayout),
		AttendanceData: result.AttendanceData,
		Totals:         result.Totals,
		HasAttendance:  result.HasAttendance,
	}, nil
}

// ========== ASSEMBLY ==========

type assembly struct {
	employee      employee.Employee
	payslip       payroll.Payslip
	planned       []LoanDeduction
	hasAttendance bool
}

// assemble computes a draft payslip. It reads but never writes.
func (s *PayrollServiceImpl) assemble(ctx context.Context, companyID, employeeID string, period payroll.Period) (assembly, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return assembly{}, err
	}

	sheet, err := s.buildTimesheet(ctx, emp, period)
	if err != nil {
		return assembly{}, err
	}

	pay := SumPeriod(sheet.AttendanceData, emp.HourlyRate())
	allowance := emp.CutoffAllowance().Round(moneyPlaces)
	gross := pay.Total.Add(allowance).Round(moneyPlaces)

	stat := s.statutory.Compute(emp.MonthlyBasicSalary(), period.Cutoff)

	number := payroll.PayslipNumber(emp.ID, period.Cutoff)
	applied, err := s.loanRepo.ListDeductionsByPayslip(ctx, number)
	if err != nil {
		return assembly{}, fmt.Errorf("failed to get loan deductions: %w", err)
	}
	active, err := s.loanRepo.ListActive(ctx, emp.ID, companyID, period.End)
	if err != nil {
		return assembly{}, fmt.Errorf("failed to get active loans: %w", err)
	}
	planned := ResolveLoanDeductions(withoutDeducted(active, applied), period.Cutoff, period.End)

	lines, loanTotal := deductionLines(stat, applied, planned)
	totalDeductions := stat.Total().Add(loanTotal).Round(moneyPlaces)

	name, code := emp.FullName, emp.EmployeeCode
	payslip := payroll.Payslip{
		PayslipNumber:       number,
		CompanyID:           companyID,
		EmployeeID:          emp.ID,
		PeriodStart:         period.Start,
		PeriodEnd:           period.End,
		EarningsBreakdown:   pay.Days,
		RegularPay:          pay.RegularPay,
		OvertimePay:         pay.OvertimePay,
		NightDiffPay:        pay.NightDiffPay,
		Allowance:           allowance,
		GrossPay:            gross,
		DeductionsBreakdown: lines,
		TotalDeductions:     totalDeductions,
		SSSAmount:           stat.SSS.Add(stat.SSSWISP),
		PhilHealthAmount:    stat.PhilHealth,
		PagIBIGAmount:       stat.PagIBIG,
		WithholdingTax:      stat.WithholdingTax,
		LoanDeductions:      loanTotal,
		ThirteenthMonthPay:  decimal.Zero,
		NetPay:              gross.Sub(totalDeductions),
		Status:              payroll.PayslipStatusDraft,
		EmployeeName:        &name,
		EmployeeCode:        &code,
	}

	return assembly{
		employee:      emp,
		payslip:       payslip,
		planned:       planned,
		hasAttendance: sheet.HasAttendance,
	}, nil
}

// withoutDeducted drops loans that already have a ledger row for the payslip.
func withoutDeducted(active []loan.Loan, applied []loan.Deduction) []loan.Loan {
	if len(applied) == 0 {
		return active
	}
	done := make(map[string]bool, len(applied))
	for _, d := range applied {
		done[d.LoanID] = true
	}
	out := make([]loan.Loan, 0, len(active))
	for _, l := range active {
		if !done[l.ID] {
			out = append(out, l)
		}
	}
	return out
}

func deductionLines(stat StatutoryDeductions, applied []loan.Deduction, planned []LoanDeduction) ([]payroll.DeductionLine, decimal.Decimal) {
	lines := make([]payroll.DeductionLine, 0, 5+len(applied)+len(planned))

	if stat.ContributionsDue {
		lines = append(lines, payroll.DeductionLine{Code: payroll.DeductionSSS, Label: "SSS", Amount: stat.SSS})
		if stat.SSSWISP.IsPositive() {
			lines = append(lines, payroll.DeductionLine{Code: payroll.DeductionSSSWISP, Label: "SSS WISP", Amount: stat.SSSWISP})
		}
		lines = append(lines,
			payroll.DeductionLine{Code: payroll.DeductionPhilHealth, Label: "PhilHealth", Amount: stat.PhilHealth},
			payroll.DeductionLine{Code: payroll.DeductionPagIBIG, Label: "Pag-IBIG", Amount: stat.PagIBIG},
		)
	}
	if stat.WithholdingTax.IsPositive() {
		lines = append(lines, payroll.DeductionLine{Code: payroll.DeductionWithholdingTax, Label: "Withholding Tax", Amount: stat.WithholdingTax})
	}

	loanTotal := decimal.Zero
	for _, d := range applied {
		loanID := d.LoanID
		lines = append(lines, payroll.DeductionLine{Code: payroll.DeductionLoan, Label: d.LoanType, Amount: d.Amount, LoanID: &loanID})
		loanTotal = loanTotal.Add(d.Amount)
	}
	for _, d := range planned {
		loanID := d.Loan.ID
		lines = append(lines, payroll.DeductionLine{Code: payroll.DeductionLoan, Label: d.Loan.LoanType, Amount: d.Amount, LoanID: &loanID})
		loanTotal = loanTotal.Add(d.Amount)
	}

	return lines, loanTotal
}

// ========== PAYSLIP ==========

func lockKey(employeeID string, periodStart time.Time) string {
	return employeeID + "|" + periodStart.Format(attendance.DateLayout)
}

func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.GeneratePayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}

	period := req.Period()
	unlock, err := s.locks.Lock(ctx, lockKey(req.EmployeeID, period.Start))
	if err != nil {
		return payroll.GeneratePayslipResponse{}, fmt.Errorf("failed to acquire payroll lock: %w", err)
	}
	defer unlock()

	a, err := s.assemble(ctx, companyID, req.EmployeeID, period)
	if err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}
	if !a.employee.HasRate() {
		return payroll.GeneratePayslipResponse{}, payroll.ErrMissingRate
	}
	if !a.payslip.GrossPay.IsPositive() {
		return payroll.GeneratePayslipResponse{}, payroll.ErrInvalidGrossPay
	}

	payslip := a.payslip
	payslip.Status = payroll.PayslipStatusSaved
	if userID != "" {
		payslip.GeneratedBy = &userID
	}

	var saved payroll.Payslip
	saga := NewSaga(SagaStep{
		Name:     stepPersistPayslip,
		Critical: true,
		Run: func(ctx context.Context) error {
			return s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
				var err error
				saved, err = s.payrollRepo.UpsertPayslip(txCtx, payslip)
				if err != nil {
					return err
				}
				return s.applyLoanDeductions(txCtx, payslip.PayslipNumber, a.planned)
			})
		},
	})
	if AccruesThirteenthMonth(period.Start) {
		saga.Add(SagaStep{
			Name: payroll.SideEffectThirteenthMonth,
			Run: func(ctx context.Context) error {
				amount, err := s.accrueThirteenthMonth(ctx, a.employee, period.Start.Year(), payslip.PayslipNumber, companyID)
				if err != nil {
					return err
				}
				saved.ThirteenthMonthPay = amount
				return nil
			},
		})
	}

	failures, err := saga.Run(ctx)
	if err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}

	saved.EmployeeName = payslip.EmployeeName
	saved.EmployeeCode = payslip.EmployeeCode

	return payroll.GeneratePayslipResponse{
		Payslip:       mapToPayslipResponse(saved),
		HasAttendance: a.hasAttendance,
		Warnings:      s.recordFailures(ctx, saved, failures),
	}, nil
}

func (s *PayrollServiceImpl) applyLoanDeductions(ctx context.Context, payslipNumber string, planned []LoanDeduction) error {
	for _, d := range planned {
		updated := ApplyLoanDeduction(d.Loan, d)
		entry := loan.Deduction{
			LoanID:        d.Loan.ID,
			PayslipNumber: payslipNumber,
			LoanType:      d.Loan.LoanType,
			Amount:        d.Amount,
			TermDecrement: d.TermDecrement,
			BalanceBefore: d.Loan.CurrentBalance,
			BalanceAfter:  updated.CurrentBalance,
		}
		if err := s.loanRepo.ApplyDeduction(ctx, updated, entry); err != nil {
			return fmt.Errorf("failed to apply deduction for loan %s: %w", d.Loan.ID, err)
		}
	}
	return nil
}

func (s *PayrollServiceImpl) thirteenthMonth(ctx context.Context, emp employee.Employee, year int) (decimal.Decimal, error) {
	silDays, err := s.leaveRepo.SumSILDays(ctx, emp.ID, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum SIL days: %w", err)
	}
	return ThirteenthMonthPay(emp.MonthlyBasicSalary(), emp.DailyRate(), MonthsWorked(emp.HireDate, year), silDays), nil
}

func (s *PayrollServiceImpl) accrueThirteenthMonth(ctx context.Context, emp employee.Employee, year int, payslipNumber, companyID string) (decimal.Decimal, error) {
	amount, err := s.thirteenthMonth(ctx, emp, year)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.payrollRepo.UpdateThirteenthMonthPay(ctx, payslipNumber, companyID, amount); err != nil {
		return decimal.Zero, fmt.Errorf("failed to store 13th month pay: %w", err)
	}
	return amount, nil
}

// recordFailures writes failed best-effort steps to the compensation log
// and turns them into user-facing warnings.
func (s *PayrollServiceImpl) recordFailures(ctx context.Context, p payroll.Payslip, failures []StepFailure) []string {
	var warnings []string
	for _, f := range failures {
		effect := payroll.SideEffect{
			CompanyID:     p.CompanyID,
			EmployeeID:    p.EmployeeID,
			PayslipNumber: p.PayslipNumber,
			Step:          f.Step,
			PeriodStart:   p.PeriodStart,
			Status:        payroll.SideEffectStatusPending,
			Attempts:      1,
			LastError:     f.Err.Error(),
		}
		if _, err := s.sideEffectRepo.Record(ctx, effect); err != nil {
			slog.Error("failed to record payroll side effect",
				"payslip_number", p.PayslipNumber,
				"step", f.Step,
				"error", err,
			)
			warnings = append(warnings, fmt.Sprintf("%s failed and could not be queued for retry: %v", f.Step, f.Err))
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s failed and was queued for retry: %v", f.Step, f.Err))
	}
	return warnings
}

func (s *PayrollServiceImpl) PreviewPayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.GeneratePayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}

	period := req.Period()
	a, err := s.assemble(ctx, companyID, req.EmployeeID, period)
	if err != nil {
		return payroll.GeneratePayslipResponse{}, err
	}

	var warnings []string
	if !a.employee.HasRate() {
		warnings = append(warnings, payroll.ErrMissingRate.Error())
	}
	if !a.payslip.GrossPay.IsPositive() {
		warnings = append(warnings, payroll.ErrInvalidGrossPay.Error())
	}

	payslip := a.payslip
	if AccruesThirteenthMonth(period.Start) {
		amount, err := s.thirteenthMonth(ctx, a.employee, period.Start.Year())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", payroll.SideEffectThirteenthMonth, err))
		} else {
			payslip.ThirteenthMonthPay = amount
		}
	}

	return payroll.GeneratePayslipResponse{
		Payslip:       mapToPayslipResponse(payslip),
		HasAttendance: a.hasAttendance,
		Warnings:      warnings,
	}, nil
}

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, number string) (payroll.PayslipResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	p, err := s.payrollRepo.GetPayslipByNumber(ctx, number, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return mapToPayslipResponse(p), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.PayslipResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payslips, err := s.payrollRepo.ListPayslips(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	return mapToPayslipResponses(payslips), nil
}

// ========== REGISTER ==========

func (s *PayrollServiceImpl) GetRegister(ctx context.Context, req payroll.RegisterRequest) (payroll.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RegisterResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RegisterResponse{}, err
	}

	period := req.Period()
	payslips, err := s.payrollRepo.ListPayslips(ctx, companyID, payroll.PayslipFilter{
		PeriodStart: &period.Start,
		PeriodEnd:   &period.End,
	})
	if err != nil {
		return payroll.RegisterResponse{}, err
	}

	return buildRegister(period, payslips), nil
}

func buildRegister(period payroll.Period, payslips []payroll.Payslip) payroll.RegisterResponse {
	out := payroll.RegisterResponse{
		PeriodStart:         period.Start.Format(attendance.DateLayout),
		PeriodEnd:           period.End.Format(attendance.DateLayout),
		TotalGross:          decimal.Zero,
		TotalSSS:            decimal.Zero,
		TotalPhilHealth:     decimal.Zero,
		TotalPagIBIG:        decimal.Zero,
		TotalWithholdingTax: decimal.Zero,
		TotalLoans:          decimal.Zero,
		TotalDeductions:     decimal.Zero,
		TotalNet:            decimal.Zero,
		Rows:                make([]payroll.RegisterRow, 0, len(payslips)),
	}

	employees := make(map[string]bool)
	for _, p := range payslips {
		employees[p.EmployeeID] = true
		out.TotalGross = out.TotalGross.Add(p.GrossPay)
		out.TotalSSS = out.TotalSSS.Add(p.SSSAmount)
		out.TotalPhilHealth = out.TotalPhilHealth.Add(p.PhilHealthAmount)
		out.TotalPagIBIG = out.TotalPagIBIG.Add(p.PagIBIGAmount)
		out.TotalWithholdingTax = out.TotalWithholdingTax.Add(p.WithholdingTax)
		out.TotalLoans = out.TotalLoans.Add(p.LoanDeductions)
		out.TotalDeductions = out.TotalDeductions.Add(p.TotalDeductions)
		out.TotalNet = out.TotalNet.Add(p.NetPay)
		out.Rows = append(out.Rows, payroll.RegisterRow{
			PayslipNumber:   p.PayslipNumber,
			EmployeeID:      p.EmployeeID,
			EmployeeName:    p.EmployeeName,
			EmployeeCode:    p.EmployeeCode,
			GrossPay:        p.GrossPay,
			TotalDeductions: p.TotalDeductions,
			NetPay:          p.NetPay,
		})
	}
	out.EmployeeCount = len(employees)

	return out
}

// ========== SIDE EFFECTS ==========

func (s *PayrollServiceImpl) ListPendingSideEffects(ctx context.Context) ([]payroll.SideEffectResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	effects, err := s.sideEffectRepo.ListPending(ctx, &companyID, 100)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.SideEffectResponse, 0, len(effects))
	for _, e := range effects {
		result = append(result, payroll.SideEffectResponse{
			ID:            e.ID,
			EmployeeID:    e.EmployeeID,
			PayslipNumber: e.PayslipNumber,
			Step:          e.Step,
			PeriodStart:   e.PeriodStart.Format(attendance.DateLayout),
			Status:        e.Status,
			Attempts:      e.Attempts,
			LastError:     e.LastError,
			CreatedAt:     e.CreatedAt,
		})
	}
	return result, nil
}

// RetrySideEffect re-runs one logged side effect. It runs outside a request
// and takes the company from the log entry rather than from claims.
func (s *PayrollServiceImpl) RetrySideEffect(ctx context.Context, effect payroll.SideEffect) error {
	var err error
	switch effect.Step {
	case payroll.SideEffectThirteenthMonth:
		var emp employee.Employee
		emp, err = s.employeeRepo.GetByID(ctx, effect.EmployeeID, effect.CompanyID)
		if err == nil {
			_, err = s.accrueThirteenthMonth(ctx, emp, effect.PeriodStart.Year(), effect.PayslipNumber, effect.CompanyID)
		}
	default:
		err = fmt.Errorf("%w: %s", payroll.ErrUnknownSideEffect, effect.Step)
	}

	if err != nil {
		if markErr := s.sideEffectRepo.MarkAttempt(ctx, effect.ID, err.Error()); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}
	return s.sideEffectRepo.MarkResolved(ctx, effect.ID)
}

func (s *PayrollServiceImpl) RetryPendingSideEffects(ctx context.Context, limit int) (int, error) {
	effects, err := s.sideEffectRepo.ListPending(ctx, nil, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending side effects: %w", err)
	}

	resolved := 0
	for _, e := range effects {
		if err := s.RetrySideEffect(ctx, e); err != nil {
			slog.Warn("payroll side effect retry failed",
				"side_effect_id", e.ID,
				"payslip_number", e.PayslipNumber,
				"step", e.Step,
				"error", err,
			)
			continue
		}
		resolved++
	}
	return resolved, nil
}

// ========== HELPERS ==========

func mapToPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	resp := payroll.PayslipResponse{
		ID:                  p.ID,
		PayslipNumber:       p.PayslipNumber,
		EmployeeID:          p.EmployeeID,
		EmployeeName:        p.EmployeeName,
		EmployeeCode:        p.EmployeeCode,
		PeriodStart:         p.PeriodStart.Format(attendance.DateLayout),
		PeriodEnd:           p.PeriodEnd.Format(attendance.DateLayout),
		EarningsBreakdown:   p.EarningsBreakdown,
		RegularPay:          p.RegularPay,
		OvertimePay:         p.OvertimePay,
		NightDiffPay:        p.NightDiffPay,
		Allowance:           p.Allowance,
		GrossPay:            p.GrossPay,
		DeductionsBreakdown: p.DeductionsBreakdown,
		TotalDeductions:     p.TotalDeductions,
		SSSAmount:           p.SSSAmount,
		PhilHealthAmount:    p.PhilHealthAmount,
		PagIBIGAmount:       p.PagIBIGAmount,
		WithholdingTax:      p.WithholdingTax,
		LoanDeductions:      p.LoanDeductions,
		ThirteenthMonthPay:  p.ThirteenthMonthPay,
		NetPay:              p.NetPay,
		Status:              p.Status,
	}
	if !p.CreatedAt.IsZero() {
		createdAt := p.CreatedAt
		resp.CreatedAt = &createdAt
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func mapToPayslipResponses(payslips []payroll.Payslip) []payroll.PayslipResponse {
	result := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		result = append(result, mapToPayslipResponse(p))
	}
	return result
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)
