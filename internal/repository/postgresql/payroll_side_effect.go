package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
)

type sideEffectRepository struct {
	db *database.DB
}

func NewSideEffectRepository(db *database.DB) payroll.SideEffectRepository {
	return &sideEffectRepository{db: db}
}

func (r *sideEffectRepository) Record(ctx context.Context, e payroll.SideEffect) (payroll.SideEffect, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_side_effects (
			company_id, employee_id, payslip_number, step, period_start, status, attempts, last_error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.CompanyID, e.EmployeeID, e.PayslipNumber, e.Step, e.PeriodStart, e.Status, e.Attempts, e.LastError,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return payroll.SideEffect{}, fmt.Errorf("failed to record side effect: %w", err)
	}

	return e, nil
}

// ListPending returns pending entries oldest first. A nil companyID lists
// every company.
func (r *sideEffectRepository) ListPending(ctx context.Context, companyID *string, limit int) ([]payroll.SideEffect, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, payslip_number, step, period_start,
			   status, attempts, last_error, created_at, updated_at
		FROM payroll_side_effects
		WHERE status = $1
		  AND ($2::uuid IS NULL OR company_id = $2)
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, payroll.SideEffectStatusPending, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending side effects: %w", err)
	}
	defer rows.Close()

	var effects []payroll.SideEffect
	for rows.Next() {
		var e payroll.SideEffect
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.EmployeeID, &e.PayslipNumber, &e.Step, &e.PeriodStart,
			&e.Status, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan side effect: %w", err)
		}
		effects = append(effects, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate side effects: %w", err)
	}

	return effects, nil
}

func (r *sideEffectRepository) MarkResolved(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_side_effects
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, payroll.SideEffectStatusResolved)
	if err != nil {
		return fmt.Errorf("failed to resolve side effect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSideEffectNotFound
	}
	return nil
}

func (r *sideEffectRepository) MarkAttempt(ctx context.Context, id string, lastError string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_side_effects
		SET attempts = attempts + 1, last_error = $2, updated_at = NOW()
		WHERE id = $1
	`, id, lastError)
	if err != nil {
		return fmt.Errorf("failed to record side effect attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSideEffectNotFound
	}
	return nil
}
