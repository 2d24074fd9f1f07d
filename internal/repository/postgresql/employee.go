package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, company_id, employee_code, full_name, position, job_level,
			   employee_type, is_account_supervisor, eligible_for_ot, eligible_for_nd,
			   rate_per_day, monthly_rate, allowance, hire_date, employment_status,
			   created_at, updated_at
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var emp employee.Employee
	var hireDate *time.Time
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Position, &emp.JobLevel,
		&emp.EmployeeType, &emp.IsAccountSupervisor, &emp.EligibleForOT, &emp.EligibleForND,
		&emp.RatePerDay, &emp.MonthlyRate, &emp.Allowance, &hireDate, &emp.EmploymentStatus,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if hireDate != nil {
		emp.HireDate = *hireDate
	}

	return emp, nil
}
