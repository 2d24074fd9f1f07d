package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payslipColumns = `
	p.id, p.payslip_number, p.company_id, p.employee_id, p.period_start, p.period_end,
	p.earnings_breakdown, p.regular_pay, p.overtime_pay, p.night_diff_pay, p.allowance, p.gross_pay,
	p.deductions_breakdown, p.total_deductions, p.sss_amount, p.philhealth_amount, p.pagibig_amount,
	p.withholding_tax, p.loan_deductions, p.thirteenth_month_pay, p.net_pay, p.status, p.generated_by,
	p.created_at, p.updated_at`

func scanPayslip(row pgx.Row, withEmployee bool) (payroll.Payslip, error) {
	var p payroll.Payslip
	var earningsBytes, deductionsBytes []byte
	dest := []interface{}{
		&p.ID, &p.PayslipNumber, &p.CompanyID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
		&earningsBytes, &p.RegularPay, &p.OvertimePay, &p.NightDiffPay, &p.Allowance, &p.GrossPay,
		&deductionsBytes, &p.TotalDeductions, &p.SSSAmount, &p.PhilHealthAmount, &p.PagIBIGAmount,
		&p.WithholdingTax, &p.LoanDeductions, &p.ThirteenthMonthPay, &p.NetPay, &p.Status, &p.GeneratedBy,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &p.EmployeeName, &p.EmployeeCode)
	}
	if err := row.Scan(dest...); err != nil {
		return payroll.Payslip{}, err
	}

	if err := json.Unmarshal(earningsBytes, &p.EarningsBreakdown); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode earnings breakdown: %w", err)
	}
	if err := json.Unmarshal(deductionsBytes, &p.DeductionsBreakdown); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode deductions breakdown: %w", err)
	}

	return p, nil
}

// UpsertPayslip stores the payslip keyed by its payslip number. A re-run of
// the same cutoff replaces the figures and keeps id and created_at.
func (r *payrollRepository) UpsertPayslip(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	earningsJSON, err := json.Marshal(p.EarningsBreakdown)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode earnings breakdown: %w", err)
	}
	deductionsJSON, err := json.Marshal(p.DeductionsBreakdown)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode deductions breakdown: %w", err)
	}

	query := `
		INSERT INTO payslips AS p (
			payslip_number, company_id, employee_id, period_start, period_end,
			earnings_breakdown, regular_pay, overtime_pay, night_diff_pay, allowance, gross_pay,
			deductions_breakdown, total_deductions, sss_amount, philhealth_amount, pagibig_amount,
			withholding_tax, loan_deductions, thirteenth_month_pay, net_pay, status, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (payslip_number) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			earnings_breakdown = EXCLUDED.earnings_breakdown,
			regular_pay = EXCLUDED.regular_pay,
			overtime_pay = EXCLUDED.overtime_pay,
			night_diff_pay = EXCLUDED.night_diff_pay,
			allowance = EXCLUDED.allowance,
			gross_pay = EXCLUDED.gross_pay,
			deductions_breakdown = EXCLUDED.deductions_breakdown,
			total_deductions = EXCLUDED.total_deductions,
			sss_amount = EXCLUDED.sss_amount,
			philhealth_amount = EXCLUDED.philhealth_amount,
			pagibig_amount = EXCLUDED.pagibig_amount,
			withholding_tax = EXCLUDED.withholding_tax,
			loan_deductions = EXCLUDED.loan_deductions,
			thirteenth_month_pay = EXCLUDED.thirteenth_month_pay,
			net_pay = EXCLUDED.net_pay,
			status = EXCLUDED.status,
			generated_by = EXCLUDED.generated_by,
			updated_at = NOW()
		WHERE p.company_id = EXCLUDED.company_id
		RETURNING ` + payslipColumns

	saved, err := scanPayslip(q.QueryRow(ctx, query,
		p.PayslipNumber, p.CompanyID, p.EmployeeID, p.PeriodStart, p.PeriodEnd,
		earningsJSON, p.RegularPay, p.OvertimePay, p.NightDiffPay, p.Allowance, p.GrossPay,
		deductionsJSON, p.TotalDeductions, p.SSSAmount, p.PhilHealthAmount, p.PagIBIGAmount,
		p.WithholdingTax, p.LoanDeductions, p.ThirteenthMonthPay, p.NetPay, p.Status, p.GeneratedBy,
	), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			// number taken by another company
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to upsert payslip: %w", err)
	}

	return saved, nil
}

func (r *payrollRepository) GetPayslipByNumber(ctx context.Context, number string, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `, e.full_name, e.employee_code
		FROM payslips p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.payslip_number = $1 AND p.company_id = $2
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, number, companyID), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListPayslips(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.PeriodStart != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_start >= $%d", argIdx))
		args = append(args, *filter.PeriodStart)
		argIdx++
	}
	if filter.PeriodEnd != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_end <= $%d", argIdx))
		args = append(args, *filter.PeriodEnd)
	}

	query := `
		SELECT ` + payslipColumns + `, e.full_name, e.employee_code
		FROM payslips p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY p.period_start DESC, e.full_name ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return payslips, nil
}

func (r *payrollRepository) UpdateThirteenthMonthPay(ctx context.Context, number string, companyID string, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslips
		SET thirteenth_month_pay = $3, updated_at = NOW()
		WHERE payslip_number = $1 AND company_id = $2
	`, number, companyID, amount)
	if err != nil {
		return fmt.Errorf("failed to update 13th month pay: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}

	return nil
}
