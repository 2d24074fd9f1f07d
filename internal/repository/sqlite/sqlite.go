// Package sqlite implements the payroll repositories on SQLite. It backs
// local development and repository tests; production runs on PostgreSQL
// with the same table layout.
//
// Money is stored as TEXT and read back through shopspring/decimal so no
// precision is lost. Dates are TEXT in YYYY-MM-DD and timestamps TEXT in a
// fixed-width UTC layout so both compare correctly as strings.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000Z"
)

type txKey struct{}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store owns the connection and the schema. Repositories share it.
type Store struct {
	db *sql.DB
}

// New wraps an open database and migrates the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the handle for seeding and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithinTransaction runs fn with a transaction carried by its context.
// Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_code TEXT NOT NULL,
		full_name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		job_level TEXT NOT NULL DEFAULT '',
		employee_type TEXT NOT NULL DEFAULT 'office-based',
		is_account_supervisor INTEGER NOT NULL DEFAULT 0,
		eligible_for_ot INTEGER NOT NULL DEFAULT 0,
		eligible_for_nd INTEGER NOT NULL DEFAULT 0,
		rate_per_day TEXT,
		monthly_rate TEXT,
		allowance TEXT,
		hire_date TEXT,
		employment_status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT,
		UNIQUE (company_id, employee_code)
	);

	CREATE TABLE IF NOT EXISTS clock_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		regular_hours REAL NOT NULL DEFAULT 0,
		overtime_hours REAL NOT NULL DEFAULT 0,
		night_diff_hours REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_clock_entries_employee_clock_in
		ON clock_entries(employee_id, clock_in);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		is_regular INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	CREATE TABLE IF NOT EXISTS overtime_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		end_date TEXT,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		total_hours REAL NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employee_schedules (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		day_off INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_half_day INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		company_id TEXT NOT NULL,
		loan_type TEXT NOT NULL,
		current_balance TEXT NOT NULL,
		monthly_payment TEXT NOT NULL,
		total_terms TEXT NOT NULL,
		remaining_terms TEXT NOT NULL,
		cutoff_assignment TEXT NOT NULL,
		effectivity_date TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		version INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS loan_deductions (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL REFERENCES loans(id),
		payslip_number TEXT NOT NULL,
		loan_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		term_decrement TEXT NOT NULL,
		balance_before TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (loan_id, payslip_number)
	);

	CREATE TABLE IF NOT EXISTS payslips (
		id TEXT PRIMARY KEY,
		payslip_number TEXT NOT NULL UNIQUE,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		earnings_breakdown TEXT NOT NULL DEFAULT '[]',
		regular_pay TEXT NOT NULL,
		overtime_pay TEXT NOT NULL,
		night_diff_pay TEXT NOT NULL,
		allowance TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		deductions_breakdown TEXT NOT NULL DEFAULT '[]',
		total_deductions TEXT NOT NULL,
		sss_amount TEXT NOT NULL,
		philhealth_amount TEXT NOT NULL,
		pagibig_amount TEXT NOT NULL,
		withholding_tax TEXT NOT NULL,
		loan_deductions TEXT NOT NULL,
		thirteenth_month_pay TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		status TEXT NOT NULL,
		generated_by TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payslips_company_period
		ON payslips(company_id, period_start);

	CREATE TABLE IF NOT EXISTS payroll_side_effects (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		payslip_number TEXT NOT NULL,
		step TEXT NOT NULL,
		period_start TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payroll_side_effects_pending
		ON payroll_side_effects(status, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// parseAuditTimestamps reads the created_at/updated_at pair of a row.
func parseAuditTimestamps(createdAt, updatedAt string) (time.Time, time.Time, error) {
	c, err := parseTimestamp(createdAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid created_at: %w", err)
	}
	u, err := parseTimestamp(updatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid updated_at: %w", err)
	}
	return c, u, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func now() string {
	return formatTimestamp(time.Now())
}
