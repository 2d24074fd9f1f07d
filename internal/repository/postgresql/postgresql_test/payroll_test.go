package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "01890a5d-ac96-774b-bcce-000000000001"
	testEmployeeID = "01890a5d-ac96-774b-bcce-b302099a8057"
)

// Helper to insert an office-based employee on a 26,000 monthly rate
func createTestEmployee(t *testing.T, ctx context.Context, setup *TestDatabaseSetup) {
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, employee_code, full_name, employee_type, monthly_rate, hire_date)
		VALUES ($1, $2, 'EMP-001', 'Maria Santos', 'office-based', 26000, '2021-06-01')
	`, testEmployeeID, testCompanyID)
	require.NoError(t, err)
}

func createTestLoan(t *testing.T, ctx context.Context, setup *TestDatabaseSetup) string {
	var id string
	err := setup.DB.QueryRow(ctx, `
		INSERT INTO loans (employee_id, company_id, loan_type, current_balance, monthly_payment,
			total_terms, remaining_terms, cutoff_assignment, effectivity_date)
		VALUES ($1, $2, 'SSS Salary Loan', 5000, 1000, 5, 5, 'second', '2025-01-01')
		RETURNING id
	`, testEmployeeID, testCompanyID).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, setup)

	repo := postgresql.NewEmployeeRepository(setup.DB)
	emp, err := repo.GetByID(ctx, testEmployeeID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", emp.FullName)
	require.NotNil(t, emp.MonthlyRate)
	assert.True(t, emp.MonthlyRate.Equal(decimal.NewFromInt(26000)))
	assert.True(t, emp.HasRate())
}

func TestLoanRepository_ApplyDeductionIsIdempotent(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, setup)
	loanID := createTestLoan(t, ctx, setup)

	repo := postgresql.NewLoanRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	active, err := repo.ListActive(ctx, testEmployeeID, testCompanyID, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, loanID, active[0].ID)

	updated := active[0]
	updated.CurrentBalance = decimal.NewFromInt(4000)
	updated.RemainingTerms = decimal.NewFromInt(4)
	deduction := loan.Deduction{
		LoanID:        loanID,
		PayslipNumber: "PS-2025-06-" + testEmployeeID,
		LoanType:      updated.LoanType,
		Amount:        decimal.NewFromInt(1000),
		TermDecrement: decimal.NewFromInt(1),
		BalanceBefore: decimal.NewFromInt(5000),
		BalanceAfter:  decimal.NewFromInt(4000),
	}

	require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.ApplyDeduction(ctx, updated, deduction)
	}))

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.ApplyDeduction(ctx, updated, deduction)
	})
	assert.ErrorIs(t, err, loan.ErrDeductionAlreadyApplied)

	deduction.PayslipNumber = "PS-2025-08-" + testEmployeeID
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.ApplyDeduction(ctx, updated, deduction)
	})
	assert.ErrorIs(t, err, loan.ErrConcurrentModification)

	ledger, err := repo.ListDeductionsByPayslip(ctx, "PS-2025-06-"+testEmployeeID)
	require.NoError(t, err)
	assert.Len(t, ledger, 1)

	stale, err := repo.ListDeductionsByPayslip(ctx, "PS-2025-08-"+testEmployeeID)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestPayrollRepository_UpsertPayslip(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, setup)

	repo := postgresql.NewPayrollRepository(setup.DB)
	number := payroll.PayslipNumber(testEmployeeID, payroll.Cutoff{Year: 2025, Month: time.March, Half: 2})

	p := payroll.Payslip{
		PayslipNumber:       number,
		CompanyID:           testCompanyID,
		EmployeeID:          testEmployeeID,
		PeriodStart:         time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		PeriodEnd:           time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		EarningsBreakdown:   []payroll.EarningDay{},
		DeductionsBreakdown: []payroll.DeductionLine{},
		GrossPay:            decimal.NewFromInt(13000),
		NetPay:              decimal.RequireFromString("9623.72"),
		Status:              payroll.PayslipStatusSaved,
	}

	first, err := repo.UpsertPayslip(ctx, p)
	require.NoError(t, err)

	p.NetPay = decimal.RequireFromString("9700.00")
	second, err := repo.UpsertPayslip(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.NetPay.Equal(decimal.RequireFromString("9700")))

	got, err := repo.GetPayslipByNumber(ctx, number, testCompanyID)
	require.NoError(t, err)
	require.NotNil(t, got.EmployeeCode)
	assert.Equal(t, "EMP-001", *got.EmployeeCode)

	sideEffects := postgresql.NewSideEffectRepository(setup.DB)
	e, err := sideEffects.Record(ctx, payroll.SideEffect{
		CompanyID:     testCompanyID,
		EmployeeID:    testEmployeeID,
		PayslipNumber: number,
		Step:          payroll.SideEffectThirteenthMonth,
		PeriodStart:   p.PeriodStart,
		Status:        payroll.SideEffectStatusPending,
		Attempts:      1,
		LastError:     "timeout",
	})
	require.NoError(t, err)

	pending, err := sideEffects.ListPending(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, sideEffects.MarkResolved(ctx, e.ID))
	pending, err = sideEffects.ListPending(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
