package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	query := `
		SELECT id, company_id, employee_code, full_name, position, job_level,
			   employee_type, is_account_supervisor, eligible_for_ot, eligible_for_nd,
			   rate_per_day, monthly_rate, allowance, hire_date, employment_status,
			   created_at, updated_at
		FROM employees
		WHERE id = ? AND company_id = ? AND deleted_at IS NULL
	`

	var (
		emp                            employee.Employee
		ratePerDay, monthly, allowance decimal.NullDecimal
		hireDate                       sql.NullString
		createdAt, updatedAt           string
	)
	err := r.s.q(ctx).QueryRowContext(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Position, &emp.JobLevel,
		&emp.EmployeeType, &emp.IsAccountSupervisor, &emp.EligibleForOT, &emp.EligibleForND,
		&ratePerDay, &monthly, &allowance, &hireDate, &emp.EmploymentStatus,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	emp.RatePerDay = nullableDecimal(ratePerDay)
	emp.MonthlyRate = nullableDecimal(monthly)
	emp.Allowance = nullableDecimal(allowance)
	if hireDate.Valid && hireDate.String != "" {
		if emp.HireDate, err = parseDate(hireDate.String); err != nil {
			return employee.Employee{}, fmt.Errorf("invalid hire_date for employee %s: %w", id, err)
		}
	}
	if emp.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid created_at for employee %s: %w", id, err)
	}
	if emp.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid updated_at for employee %s: %w", id, err)
	}

	return emp, nil
}

// SaveEmployee inserts or replaces an employee record. Used for seeding the
// development database.
func (s *Store) SaveEmployee(ctx context.Context, emp employee.Employee) error {
	var hireDate *string
	if !emp.HireDate.IsZero() {
		d := formatDate(emp.HireDate)
		hireDate = &d
	}
	var ratePerDay, monthly, allowance *string
	if emp.RatePerDay != nil {
		v := emp.RatePerDay.String()
		ratePerDay = &v
	}
	if emp.MonthlyRate != nil {
		v := emp.MonthlyRate.String()
		monthly = &v
	}
	if emp.Allowance != nil {
		v := emp.Allowance.String()
		allowance = &v
	}
	status := emp.EmploymentStatus
	if status == "" {
		status = employee.EmploymentStatusActive
	}
	ts := now()

	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO employees (
			id, company_id, employee_code, full_name, position, job_level,
			employee_type, is_account_supervisor, eligible_for_ot, eligible_for_nd,
			rate_per_day, monthly_rate, allowance, hire_date, employment_status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			employee_code = excluded.employee_code,
			full_name = excluded.full_name,
			position = excluded.position,
			job_level = excluded.job_level,
			employee_type = excluded.employee_type,
			is_account_supervisor = excluded.is_account_supervisor,
			eligible_for_ot = excluded.eligible_for_ot,
			eligible_for_nd = excluded.eligible_for_nd,
			rate_per_day = excluded.rate_per_day,
			monthly_rate = excluded.monthly_rate,
			allowance = excluded.allowance,
			hire_date = excluded.hire_date,
			employment_status = excluded.employment_status,
			updated_at = excluded.updated_at
	`,
		emp.ID, emp.CompanyID, emp.EmployeeCode, emp.FullName, emp.Position, emp.JobLevel,
		emp.EmployeeType, emp.IsAccountSupervisor, emp.EligibleForOT, emp.EligibleForND,
		ratePerDay, monthly, allowance, hireDate, status,
		ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}
