package payroll

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/schedule"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore backs every repository interface with in-memory maps.
type fakeStore struct {
	mu sync.Mutex

	employees   map[string]employee.Employee
	entries     []attendance.ClockEntry
	holidays    []holiday.Holiday
	overtime    []overtime.Request
	schedule    []schedule.Day
	leaves      []leave.ApprovedLeave
	loans       map[string]loan.Loan
	deductions  []loan.Deduction
	payslips    map[string]payroll.Payslip
	sideEffects []payroll.SideEffect

	upserts     int
	upsertErr   error
	silErr      error
	silDays     decimal.Decimal
	txCommitted int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: make(map[string]employee.Employee),
		loans:     make(map[string]loan.Loan),
		payslips:  make(map[string]payroll.Payslip),
		silDays:   decimal.Zero,
	}
}

func (f *fakeStore) repositories() Repositories {
	return Repositories{
		Payroll:    fakePayrollRepo{f},
		SideEffect: fakeSideEffectRepo{f},
		Employee:   fakeEmployeeRepo{f},
		ClockEntry: fakeClockRepo{f},
		Holiday:    fakeHolidayRepo{f},
		Overtime:   fakeOvertimeRepo{f},
		Schedule:   fakeScheduleRepo{f},
		Leave:      fakeLeaveRepo{f},
		Loan:       fakeLoanRepo{f},
	}
}

// WithinTransaction snapshots loans, ledger and payslips and restores them
// when fn fails.
func (f *fakeStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	loans := make(map[string]loan.Loan, len(f.loans))
	for k, v := range f.loans {
		loans[k] = v
	}
	deductions := append([]loan.Deduction(nil), f.deductions...)
	payslips := make(map[string]payroll.Payslip, len(f.payslips))
	for k, v := range f.payslips {
		payslips[k] = v
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.loans, f.deductions, f.payslips = loans, deductions, payslips
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.txCommitted++
	f.mu.Unlock()
	return nil
}

type fakeEmployeeRepo struct{ f *fakeStore }

func (r fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	e, ok := r.f.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeClockRepo struct{ f *fakeStore }

func (r fakeClockRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.ClockEntry, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []attendance.ClockEntry
	for _, e := range r.f.entries {
		if e.EmployeeID == employeeID && !e.ClockIn.Before(from) && e.ClockIn.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeHolidayRepo struct{ f *fakeStore }

func (r fakeHolidayRepo) ListBetween(_ context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []holiday.Holiday
	for _, h := range r.f.holidays {
		if h.Date >= start.Format(attendance.DateLayout) && h.Date <= end.Format(attendance.DateLayout) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeOvertimeRepo struct{ f *fakeStore }

func (r fakeOvertimeRepo) ListApproved(_ context.Context, employeeID string, start, end time.Time) ([]overtime.Request, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []overtime.Request
	for _, o := range r.f.overtime {
		if o.EmployeeID == employeeID && !o.Date.Before(start) && !o.Date.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct{ f *fakeStore }

func (r fakeScheduleRepo) ListByEmployee(_ context.Context, employeeID string, start, end time.Time) ([]schedule.Day, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []schedule.Day
	for _, d := range r.f.schedule {
		if d.EmployeeID == employeeID && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct{ f *fakeStore }

func (r fakeLeaveRepo) ListApproved(_ context.Context, employeeID string, start, end time.Time) ([]leave.ApprovedLeave, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []leave.ApprovedLeave
	for _, l := range r.f.leaves {
		if l.EmployeeID != employeeID {
			continue
		}
		var dates []time.Time
		for _, d := range l.Dates {
			if !d.Before(start) && !d.After(end) {
				dates = append(dates, d)
			}
		}
		if len(dates) > 0 {
			l.Dates = dates
			out = append(out, l)
		}
	}
	return out, nil
}

func (r fakeLeaveRepo) SumSILDays(_ context.Context, _ string, _ int) (decimal.Decimal, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.silErr != nil {
		return decimal.Zero, r.f.silErr
	}
	return r.f.silDays, nil
}

type fakeLoanRepo struct{ f *fakeStore }

func (r fakeLoanRepo) ListActive(_ context.Context, employeeID string, companyID string, asOf time.Time) ([]loan.Loan, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []loan.Loan
	for _, l := range r.f.loans {
		if l.EmployeeID == employeeID && l.CompanyID == companyID && l.IsActive && !l.EffectivityDate.After(asOf) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeLoanRepo) ListDeductionsByPayslip(_ context.Context, payslipNumber string) ([]loan.Deduction, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []loan.Deduction
	for _, d := range r.f.deductions {
		if d.PayslipNumber == payslipNumber {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r fakeLoanRepo) ApplyDeduction(_ context.Context, updated loan.Loan, d loan.Deduction) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.deductions {
		if existing.LoanID == d.LoanID && existing.PayslipNumber == d.PayslipNumber {
			return loan.ErrDeductionAlreadyApplied
		}
	}
	current, ok := r.f.loans[updated.ID]
	if !ok {
		return loan.ErrLoanNotFound
	}
	if current.Version != updated.Version {
		return loan.ErrConcurrentModification
	}
	updated.Version++
	r.f.loans[updated.ID] = updated
	d.ID = uuid.NewString()
	r.f.deductions = append(r.f.deductions, d)
	return nil
}

type fakePayrollRepo struct{ f *fakeStore }

func (r fakePayrollRepo) UpsertPayslip(_ context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.upserts++
	if r.f.upsertErr != nil {
		return payroll.Payslip{}, r.f.upsertErr
	}
	now := time.Now()
	if existing, ok := r.f.payslips[p.PayslipNumber]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.f.payslips[p.PayslipNumber] = p
	return p, nil
}

func (r fakePayrollRepo) GetPayslipByNumber(_ context.Context, number string, companyID string) (payroll.Payslip, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.payslips[number]
	if !ok || p.CompanyID != companyID {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (r fakePayrollRepo) ListPayslips(_ context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []payroll.Payslip
	for _, p := range r.f.payslips {
		if p.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.PeriodStart != nil && p.PeriodStart.Before(*filter.PeriodStart) {
			continue
		}
		if filter.PeriodEnd != nil && p.PeriodEnd.After(*filter.PeriodEnd) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayslipNumber < out[j].PayslipNumber })
	return out, nil
}

func (r fakePayrollRepo) UpdateThirteenthMonthPay(_ context.Context, number string, companyID string, amount decimal.Decimal) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.payslips[number]
	if !ok || p.CompanyID != companyID {
		return payroll.ErrPayslipNotFound
	}
	p.ThirteenthMonthPay = amount
	r.f.payslips[number] = p
	return nil
}

type fakeSideEffectRepo struct{ f *fakeStore }

func (r fakeSideEffectRepo) Record(_ context.Context, e payroll.SideEffect) (payroll.SideEffect, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.f.sideEffects = append(r.f.sideEffects, e)
	return e, nil
}

func (r fakeSideEffectRepo) ListPending(_ context.Context, companyID *string, limit int) ([]payroll.SideEffect, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []payroll.SideEffect
	for _, e := range r.f.sideEffects {
		if e.Status != payroll.SideEffectStatusPending {
			continue
		}
		if companyID != nil && e.CompanyID != *companyID {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r fakeSideEffectRepo) MarkResolved(_ context.Context, id string) error {
	return r.update(id, func(e *payroll.SideEffect) { e.Status = payroll.SideEffectStatusResolved })
}

func (r fakeSideEffectRepo) MarkAttempt(_ context.Context, id string, lastError string) error {
	return r.update(id, func(e *payroll.SideEffect) {
		e.Attempts++
		e.LastError = lastError
	})
}

func (r fakeSideEffectRepo) update(id string, fn func(e *payroll.SideEffect)) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.sideEffects {
		if r.f.sideEffects[i].ID == id {
			fn(&r.f.sideEffects[i])
			return nil
		}
	}
	return payroll.ErrSideEffectNotFound
}
