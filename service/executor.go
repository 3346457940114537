package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pymigrate/pymigrate/domain"
)

// FSExecutor executes a validated plan with plain filesystem renames. It is
// the simplest PlanExecutor; history-preserving execution (git mv) can be
// swapped in behind the same interface.
//
// The executor never retries and never rolls back: it reports one outcome
// per operation and leaves recovery decisions to the operator, who sees
// exactly which moves succeeded.
type FSExecutor struct {
	root string
}

// NewFSExecutor creates an executor operating relative to the project root
func NewFSExecutor(root string) *FSExecutor {
	return &FSExecutor{root: root}
}

// Execute performs the plan's moves in order. It refuses plans that are not
// in the Validated state.
func (e *FSExecutor) Execute(ctx context.Context, plan *domain.MigrationPlan) ([]domain.OperationOutcome, error) {
	if err := plan.BeginExecution(); err != nil {
		return nil, err
	}

	for _, dir := range plan.CreateDirs {
		if err := os.MkdirAll(filepath.Join(e.root, filepath.FromSlash(dir)), 0o755); err != nil {
			failed := make([]domain.OperationOutcome, 0, len(plan.Operations))
			for _, op := range plan.Operations {
				failed = append(failed, domain.OperationOutcome{
					Operation: op,
					Succeeded: false,
					Message:   fmt.Sprintf("directory creation failed: %s", dir),
				})
			}
			_ = plan.RecordOutcomes(failed)
			return failed, domain.NewExecutionFailureError(dir, err)
		}
	}

	outcomes := make([]domain.OperationOutcome, 0, len(plan.Operations))
	for _, op := range plan.Operations {
		select {
		case <-ctx.Done():
			outcomes = append(outcomes, domain.OperationOutcome{
				Operation: op,
				Succeeded: false,
				Message:   fmt.Sprintf("cancelled: %v", ctx.Err()),
			})
			continue
		default:
		}
		outcomes = append(outcomes, e.move(op))
	}

	if err := plan.RecordOutcomes(outcomes); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (e *FSExecutor) move(op domain.MoveOperation) domain.OperationOutcome {
	source := filepath.Join(e.root, filepath.FromSlash(op.Source))
	target := filepath.Join(e.root, filepath.FromSlash(op.Target))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return domain.OperationOutcome{
			Operation: op,
			Succeeded: false,
			Message:   err.Error(),
		}
	}
	if _, err := os.Stat(target); err == nil {
		return domain.OperationOutcome{
			Operation: op,
			Succeeded: false,
			Message:   "target already exists",
		}
	}
	if err := os.Rename(source, target); err != nil {
		return domain.OperationOutcome{
			Operation: op,
			Succeeded: false,
			Message:   err.Error(),
		}
	}
	return domain.OperationOutcome{Operation: op, Succeeded: true}
}
