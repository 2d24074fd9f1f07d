package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetrier struct {
	mu     sync.Mutex
	calls  int
	limits []int
	err    error
}

func (f *fakeRetrier) RetryPendingSideEffects(_ context.Context, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

func TestPayrollJobs_RunOnce(t *testing.T) {
	retrier := &fakeRetrier{}
	scheduler := NewScheduler()
	NewPayrollJobs(retrier, time.Minute, 0).RegisterJobs(scheduler)

	require.NoError(t, scheduler.RunOnce(context.Background()))
	assert.Equal(t, 1, retrier.calls)
	assert.Equal(t, []int{50}, retrier.limits)
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	retrier := &fakeRetrier{err: errors.New("database is locked")}
	scheduler := NewScheduler()
	NewPayrollJobs(retrier, time.Minute, 10).RegisterJobs(scheduler)
	scheduler.AddJob(Job{Name: "noop", Interval: time.Minute, Fn: func(context.Context) error { return nil }})

	err := scheduler.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, retrier.err)
	assert.Contains(t, err.Error(), "retry_payroll_side_effects")
}

func TestScheduler_TimeoutBoundsRun(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.AddJob(Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	err := scheduler.RunOnce(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_StartStop(t *testing.T) {
	retrier := &fakeRetrier{}
	scheduler := NewScheduler()
	NewPayrollJobs(retrier, time.Hour, 5).RegisterJobs(scheduler)

	scheduler.Start()
	assert.Eventually(t, func() bool {
		retrier.mu.Lock()
		defer retrier.mu.Unlock()
		return retrier.calls == 1
	}, time.Second, 5*time.Millisecond)
	scheduler.Stop()
}
