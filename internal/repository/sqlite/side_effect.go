package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
)

type sideEffectRepository struct {
	s *Store
}

func NewSideEffectRepository(s *Store) payroll.SideEffectRepository {
	return &sideEffectRepository{s: s}
}

func (r *sideEffectRepository) Record(ctx context.Context, e payroll.SideEffect) (payroll.SideEffect, error) {
	e.ID = newID()
	createdAt := time.Now().UTC()
	ts := formatTimestamp(createdAt)

	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO payroll_side_effects (
			id, company_id, employee_id, payslip_number, step, period_start,
			status, attempts, last_error, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CompanyID, e.EmployeeID, e.PayslipNumber, e.Step, formatDate(e.PeriodStart),
		e.Status, e.Attempts, e.LastError, ts, ts)
	if err != nil {
		return payroll.SideEffect{}, fmt.Errorf("failed to record side effect: %w", err)
	}

	e.CreatedAt = createdAt
	e.UpdatedAt = createdAt
	return e, nil
}

func (r *sideEffectRepository) ListPending(ctx context.Context, companyID *string, limit int) ([]payroll.SideEffect, error) {
	query := `
		SELECT id, company_id, employee_id, payslip_number, step, period_start,
			   status, attempts, last_error, created_at, updated_at
		FROM payroll_side_effects
		WHERE status = ?
	`
	args := []interface{}{payroll.SideEffectStatusPending}
	if companyID != nil {
		query += " AND company_id = ?"
		args = append(args, *companyID)
	}
	query += " ORDER BY created_at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending side effects: %w", err)
	}
	defer rows.Close()

	var effects []payroll.SideEffect
	for rows.Next() {
		var (
			e                                 payroll.SideEffect
			periodStart, createdAt, updatedAt string
		)
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.EmployeeID, &e.PayslipNumber, &e.Step, &periodStart,
			&e.Status, &e.Attempts, &e.LastError, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan side effect: %w", err)
		}
		if e.PeriodStart, err = parseDate(periodStart); err != nil {
			return nil, fmt.Errorf("invalid period_start on side effect %s: %w", e.ID, err)
		}
		if e.CreatedAt, e.UpdatedAt, err = parseAuditTimestamps(createdAt, updatedAt); err != nil {
			return nil, fmt.Errorf("side effect %s: %w", e.ID, err)
		}
		effects = append(effects, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate side effects: %w", err)
	}

	return effects, nil
}

func (r *sideEffectRepository) MarkResolved(ctx context.Context, id string) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE payroll_side_effects SET status = ?, updated_at = ? WHERE id = ?
	`, payroll.SideEffectStatusResolved, now(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve side effect: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrSideEffectNotFound
	}
	return nil
}

func (r *sideEffectRepository) MarkAttempt(ctx context.Context, id string, lastError string) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE payroll_side_effects SET attempts = attempts + 1, last_error = ?, updated_at = ? WHERE id = ?
	`, lastError, now(), id)
	if err != nil {
		return fmt.Errorf("failed to record side effect attempt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrSideEffectNotFound
	}
	return nil
}
