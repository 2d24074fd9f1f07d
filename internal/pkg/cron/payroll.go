package cron

import (
	"context"
	"log/slog"
	"time"
)

// SideEffectRetrier re-runs payroll side effects that failed during
// payslip generation.
type SideEffectRetrier interface {
	RetryPendingSideEffects(ctx context.Context, limit int) (int, error)
}

type PayrollJobs struct {
	retrier   SideEffectRetrier
	interval  time.Duration
	batchSize int
}

func NewPayrollJobs(retrier SideEffectRetrier, interval time.Duration, batchSize int) *PayrollJobs {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &PayrollJobs{
		retrier:   retrier,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "retry_payroll_side_effects",
		Interval: j.interval,
		Timeout:  j.interval,
		Fn:       j.RetryPendingSideEffects,
	})
}

// RetryPendingSideEffects drains one batch of the compensation log.
func (j *PayrollJobs) RetryPendingSideEffects(ctx context.Context) error {
	resolved, err := j.retrier.RetryPendingSideEffects(ctx, j.batchSize)
	if err != nil {
		return err
	}
	if resolved > 0 {
		slog.Info("Payroll side effects resolved", "count", resolved)
	}
	return nil
}
