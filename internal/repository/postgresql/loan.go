package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) ListActive(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, loan_type, current_balance, monthly_payment,
			   total_terms, remaining_terms, cutoff_assignment, effectivity_date,
			   is_active, version, created_at, updated_at
		FROM loans
		WHERE employee_id = $1
		  AND company_id = $2
		  AND is_active = true
		  AND effectivity_date <= $3
		ORDER BY effectivity_date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		var l loan.Loan
		if err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.CompanyID, &l.LoanType, &l.CurrentBalance, &l.MonthlyPayment,
			&l.TotalTerms, &l.RemainingTerms, &l.CutoffAssignment, &l.EffectivityDate,
			&l.IsActive, &l.Version, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}

func (r *loanRepository) ListDeductionsByPayslip(ctx context.Context, payslipNumber string) ([]loan.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, payslip_number, loan_type, amount, term_decrement,
			   balance_before, balance_after, created_at
		FROM loan_deductions
		WHERE payslip_number = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, payslipNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan deductions: %w", err)
	}
	defer rows.Close()

	var deductions []loan.Deduction
	for rows.Next() {
		var d loan.Deduction
		if err := rows.Scan(
			&d.ID, &d.LoanID, &d.PayslipNumber, &d.LoanType, &d.Amount, &d.TermDecrement,
			&d.BalanceBefore, &d.BalanceAfter, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loan deductions: %w", err)
	}

	return deductions, nil
}

// ApplyDeduction writes the ledger row and the new loan state. It must run
// inside a transaction. updated.Version is the version the caller read.
func (r *loanRepository) ApplyDeduction(ctx context.Context, updated loan.Loan, d loan.Deduction) error {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO loan_deductions (
			loan_id, payslip_number, loan_type, amount, term_decrement, balance_before, balance_after
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (loan_id, payslip_number) DO NOTHING
		RETURNING id
	`, d.LoanID, d.PayslipNumber, d.LoanType, d.Amount, d.TermDecrement, d.BalanceBefore, d.BalanceAfter).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.ErrDeductionAlreadyApplied
		}
		return fmt.Errorf("failed to insert loan deduction: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE loans
		SET current_balance = $3, remaining_terms = $4, is_active = $5,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`, updated.ID, updated.Version, updated.CurrentBalance, updated.RemainingTerms, updated.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrConcurrentModification
	}

	return nil
}
