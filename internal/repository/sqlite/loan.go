package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
)

type loanRepository struct {
	s *Store
}

func NewLoanRepository(s *Store) loan.LoanRepository {
	return &loanRepository{s: s}
}

func (r *loanRepository) ListActive(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]loan.Loan, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT id, employee_id, company_id, loan_type, current_balance, monthly_payment,
			   total_terms, remaining_terms, cutoff_assignment, effectivity_date,
			   is_active, version, created_at, updated_at
		FROM loans
		WHERE employee_id = ? AND company_id = ? AND is_active = 1 AND effectivity_date <= ?
		ORDER BY effectivity_date ASC, id ASC
	`, employeeID, companyID, formatDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		var (
			l                                 loan.Loan
			effectivity, createdAt, updatedAt string
		)
		if err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.CompanyID, &l.LoanType, &l.CurrentBalance, &l.MonthlyPayment,
			&l.TotalTerms, &l.RemainingTerms, &l.CutoffAssignment, &effectivity,
			&l.IsActive, &l.Version, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if l.EffectivityDate, err = parseDate(effectivity); err != nil {
			return nil, fmt.Errorf("invalid effectivity_date on loan %s: %w", l.ID, err)
		}
		if l.CreatedAt, l.UpdatedAt, err = parseAuditTimestamps(createdAt, updatedAt); err != nil {
			return nil, fmt.Errorf("loan %s: %w", l.ID, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}

func (r *loanRepository) ListDeductionsByPayslip(ctx context.Context, payslipNumber string) ([]loan.Deduction, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT id, loan_id, payslip_number, loan_type, amount, term_decrement,
			   balance_before, balance_after, created_at
		FROM loan_deductions
		WHERE payslip_number = ?
		ORDER BY created_at ASC
	`, payslipNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan deductions: %w", err)
	}
	defer rows.Close()

	var deductions []loan.Deduction
	for rows.Next() {
		var (
			d         loan.Deduction
			createdAt string
		)
		if err := rows.Scan(
			&d.ID, &d.LoanID, &d.PayslipNumber, &d.LoanType, &d.Amount, &d.TermDecrement,
			&d.BalanceBefore, &d.BalanceAfter, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan deduction: %w", err)
		}
		if d.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at on loan deduction %s: %w", d.ID, err)
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
	q := r.s.q(ctx)
	ts := now()

	res, err := q.ExecContext(ctx, `
		INSERT INTO loan_deductions (
			id, loan_id, payslip_number, loan_type, amount, term_decrement,
			balance_before, balance_after, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (loan_id, payslip_number) DO NOTHING
	`, newID(), d.LoanID, d.PayslipNumber, d.LoanType, d.Amount.String(), d.TermDecrement.String(),
		d.BalanceBefore.String(), d.BalanceAfter.String(), ts)
	if err != nil {
		return fmt.Errorf("failed to insert loan deduction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.ErrDeductionAlreadyApplied
	}

	res, err = q.ExecContext(ctx, `
		UPDATE loans
		SET current_balance = ?, remaining_terms = ?, is_active = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, updated.CurrentBalance.String(), updated.RemainingTerms.String(), updated.IsActive, ts, updated.ID, updated.Version)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.ErrConcurrentModification
	}

	return nil
}

// SaveLoan inserts a loan. Used for seeding the development database.
func (s *Store) SaveLoan(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	if l.ID == "" {
		l.ID = newID()
	}
	ts := now()

	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO loans (
			id, employee_id, company_id, loan_type, current_balance, monthly_payment,
			total_terms, remaining_terms, cutoff_assignment, effectivity_date,
			is_active, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.EmployeeID, l.CompanyID, l.LoanType, l.CurrentBalance.String(), l.MonthlyPayment.String(),
		l.TotalTerms.String(), l.RemainingTerms.String(), l.CutoffAssignment, formatDate(l.EffectivityDate),
		l.IsActive, l.Version, ts, ts,
	)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to save loan: %w", err)
	}
	return l, nil
}

// GetLoan reads one loan regardless of its state.
func (s *Store) GetLoan(ctx context.Context, id string) (loan.Loan, error) {
	var (
		l                                 loan.Loan
		effectivity, createdAt, updatedAt string
	)
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, employee_id, company_id, loan_type, current_balance, monthly_payment,
			   total_terms, remaining_terms, cutoff_assignment, effectivity_date,
			   is_active, version, created_at, updated_at
		FROM loans WHERE id = ?
	`, id).Scan(
		&l.ID, &l.EmployeeID, &l.CompanyID, &l.LoanType, &l.CurrentBalance, &l.MonthlyPayment,
		&l.TotalTerms, &l.RemainingTerms, &l.CutoffAssignment, &effectivity,
		&l.IsActive, &l.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	if l.EffectivityDate, err = parseDate(effectivity); err != nil {
		return loan.Loan{}, fmt.Errorf("invalid effectivity_date on loan %s: %w", l.ID, err)
	}
	if l.CreatedAt, l.UpdatedAt, err = parseAuditTimestamps(createdAt, updatedAt); err != nil {
		return loan.Loan{}, fmt.Errorf("loan %s: %w", l.ID, err)
	}
	return l, nil
}
