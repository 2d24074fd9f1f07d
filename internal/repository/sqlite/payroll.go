package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

const payslipColumns = `
	p.id, p.payslip_number, p.company_id, p.employee_id, p.period_start, p.period_end,
	p.earnings_breakdown, p.regular_pay, p.overtime_pay, p.night_diff_pay, p.allowance, p.gross_pay,
	p.deductions_breakdown, p.total_deductions, p.sss_amount, p.philhealth_amount, p.pagibig_amount,
	p.withholding_tax, p.loan_deductions, p.thirteenth_month_pay, p.net_pay, p.status, p.generated_by,
	p.created_at, p.updated_at, e.full_name, e.employee_code`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayslip(row rowScanner) (payroll.Payslip, error) {
	var (
		p                                            payroll.Payslip
		periodStart, periodEnd, createdAt, updatedAt string
		earnings, deductions                         string
		generatedBy, employeeName, employeeCode      sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.PayslipNumber, &p.CompanyID, &p.EmployeeID, &periodStart, &periodEnd,
		&earnings, &p.RegularPay, &p.OvertimePay, &p.NightDiffPay, &p.Allowance, &p.GrossPay,
		&deductions, &p.TotalDeductions, &p.SSSAmount, &p.PhilHealthAmount, &p.PagIBIGAmount,
		&p.WithholdingTax, &p.LoanDeductions, &p.ThirteenthMonthPay, &p.NetPay, &p.Status, &generatedBy,
		&createdAt, &updatedAt, &employeeName, &employeeCode,
	); err != nil {
		return payroll.Payslip{}, err
	}

	var err error
	if p.PeriodStart, err = parseDate(periodStart); err != nil {
		return payroll.Payslip{}, fmt.Errorf("invalid period_start on payslip %s: %w", p.PayslipNumber, err)
	}
	if p.PeriodEnd, err = parseDate(periodEnd); err != nil {
		return payroll.Payslip{}, fmt.Errorf("invalid period_end on payslip %s: %w", p.PayslipNumber, err)
	}
	if p.CreatedAt, p.UpdatedAt, err = parseAuditTimestamps(createdAt, updatedAt); err != nil {
		return payroll.Payslip{}, fmt.Errorf("payslip %s: %w", p.PayslipNumber, err)
	}
	if generatedBy.Valid {
		p.GeneratedBy = &generatedBy.String
	}
	if employeeName.Valid {
		p.EmployeeName = &employeeName.String
	}
	if employeeCode.Valid {
		p.EmployeeCode = &employeeCode.String
	}

	if err := json.Unmarshal([]byte(earnings), &p.EarningsBreakdown); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode earnings breakdown: %w", err)
	}
	if err := json.Unmarshal([]byte(deductions), &p.DeductionsBreakdown); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode deductions breakdown: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) UpsertPayslip(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	earnings, err := json.Marshal(p.EarningsBreakdown)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode earnings breakdown: %w", err)
	}
	deductions, err := json.Marshal(p.DeductionsBreakdown)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode deductions breakdown: %w", err)
	}
	ts := now()

	res, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO payslips (
			id, payslip_number, company_id, employee_id, period_start, period_end,
			earnings_breakdown, regular_pay, overtime_pay, night_diff_pay, allowance, gross_pay,
			deductions_breakdown, total_deductions, sss_amount, philhealth_amount, pagibig_amount,
			withholding_tax, loan_deductions, thirteenth_month_pay, net_pay, status, generated_by,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (payslip_number) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			earnings_breakdown = excluded.earnings_breakdown,
			regular_pay = excluded.regular_pay,
			overtime_pay = excluded.overtime_pay,
			night_diff_pay = excluded.night_diff_pay,
			allowance = excluded.allowance,
			gross_pay = excluded.gross_pay,
			deductions_breakdown = excluded.deductions_breakdown,
			total_deductions = excluded.total_deductions,
			sss_amount = excluded.sss_amount,
			philhealth_amount = excluded.philhealth_amount,
			pagibig_amount = excluded.pagibig_amount,
			withholding_tax = excluded.withholding_tax,
			loan_deductions = excluded.loan_deductions,
			thirteenth_month_pay = excluded.thirteenth_month_pay,
			net_pay = excluded.net_pay,
			status = excluded.status,
			generated_by = excluded.generated_by,
			updated_at = excluded.updated_at
		WHERE payslips.company_id = excluded.company_id
	`,
		newID(), p.PayslipNumber, p.CompanyID, p.EmployeeID, formatDate(p.PeriodStart), formatDate(p.PeriodEnd),
		string(earnings), p.RegularPay.String(), p.OvertimePay.String(), p.NightDiffPay.String(), p.Allowance.String(), p.GrossPay.String(),
		string(deductions), p.TotalDeductions.String(), p.SSSAmount.String(), p.PhilHealthAmount.String(), p.PagIBIGAmount.String(),
		p.WithholdingTax.String(), p.LoanDeductions.String(), p.ThirteenthMonthPay.String(), p.NetPay.String(), p.Status, p.GeneratedBy,
		ts, ts,
	)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to upsert payslip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// number taken by another company
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}

	return r.GetPayslipByNumber(ctx, p.PayslipNumber, p.CompanyID)
}

func (r *payrollRepository) GetPayslipByNumber(ctx context.Context, number string, companyID string) (payroll.Payslip, error) {
	row := r.s.q(ctx).QueryRowContext(ctx, `
		SELECT `+payslipColumns+`
		FROM payslips p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.payslip_number = ? AND p.company_id = ?
	`, number, companyID)

	p, err := scanPayslip(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListPayslips(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	conditions := []string{"p.company_id = ?"}
	args := []interface{}{companyID}

	if filter.EmployeeID != nil {
		conditions = append(conditions, "p.employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}
	if filter.PeriodStart != nil {
		conditions = append(conditions, "p.period_start >= ?")
		args = append(args, formatDate(*filter.PeriodStart))
	}
	if filter.PeriodEnd != nil {
		conditions = append(conditions, "p.period_end <= ?")
		args = append(args, formatDate(*filter.PeriodEnd))
	}

	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT `+payslipColumns+`
		FROM payslips p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY p.period_start DESC, e.full_name ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
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
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE payslips SET thirteenth_month_pay = ?, updated_at = ?
		WHERE payslip_number = ? AND company_id = ?
	`, amount.String(), now(), number, companyID)
	if err != nil {
		return fmt.Errorf("failed to update 13th month pay: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}
