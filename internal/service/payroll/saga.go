package payroll

import (
	"context"
	"fmt"
	"log/slog"
)

// SagaStep is one side effect of finalizing a payslip. A failing critical
// step aborts the saga and compensates the steps already done; a failing
// best-effort step is reported and the saga carries on.
type SagaStep struct {
	Name       string
	Critical   bool
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepFailure is a best-effort step that did not complete.
type StepFailure struct {
	Step string
	Err  error
}

type Saga struct {
	steps []SagaStep
}

func NewSaga(steps ...SagaStep) *Saga {
	return &Saga{steps: steps}
}

func (s *Saga) Add(step SagaStep) {
	s.steps = append(s.steps, step)
}

// Run executes the steps in order.
func (s *Saga) Run(ctx context.Context) ([]StepFailure, error) {
	var (
		done     []SagaStep
		failures []StepFailure
	)

	for _, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			if !step.Critical {
				slog.Warn("best-effort payroll step failed",
					"step", step.Name,
					"error", err,
				)
				failures = append(failures, StepFailure{Step: step.Name, Err: err})
				continue
			}

			slog.Error("critical payroll step failed, compensating",
				"step", step.Name,
				"error", err,
			)
			s.compensate(ctx, done)
			return failures, fmt.Errorf("%s: %w", step.Name, err)
		}
		done = append(done, step)
	}

	return failures, nil
}

func (s *Saga) compensate(ctx context.Context, done []SagaStep) {
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			slog.Error("payroll compensation failed",
				"step", step.Name,
				"error", err,
			)
		}
	}
}
