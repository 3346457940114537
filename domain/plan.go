package domain

import (
	"context"
	"fmt"
)

// PlanState tracks a plan through its lifecycle. A Draft carrying conflicts
// or validation violations can never transition to Validated.
type PlanState string

const (
	PlanStateDraft           PlanState = "draft"
	PlanStateValidated       PlanState = "validated"
	PlanStateExecuting       PlanState = "executing"
	PlanStateCompleted       PlanState = "completed"
	PlanStatePartiallyFailed PlanState = "partially_failed"
)

// MoveOperation is one planned file move.
type MoveOperation struct {
	Source string
	Target string

	// RulePattern records which rule produced the target, for plan previews.
	RulePattern string
}

// Conflict records two or more source files resolving to the same target.
// Conflicting operations are excluded from the executable sequence until the
// operator edits the rules.
type Conflict struct {
	Target  string
	Sources []string
	Rules   []string
}

// ViolationKind classifies a validation failure.
type ViolationKind string

const (
	ViolationMissingRequiredDir ViolationKind = "missing_required_dir"
	ViolationEmptyDir           ViolationKind = "empty_dir"
	ViolationFileTooLarge       ViolationKind = "file_too_large"
	ViolationUnresolvedTarget   ViolationKind = "unresolved_target"
)

// Violation is one validation failure. Violations block execution but never
// planning; the operator always sees the complete annotated plan.
type Violation struct {
	Kind    ViolationKind
	Subject string
	Detail  string
}

// ValidationResult is the outcome of checking a plan against a ValidationSpec.
type ValidationResult struct {
	Violations []Violation
}

// Passed reports whether validation found no violations.
func (vr ValidationResult) Passed() bool {
	return len(vr.Violations) == 0
}

// OperationOutcome is the executor's verdict on one move.
type OperationOutcome struct {
	Operation MoveOperation
	Succeeded bool
	Message   string
}

// MigrationPlan is an immutable snapshot computed from one scan and one rule
// set. Re-planning with unchanged inputs yields a structurally identical
// plan. Only the state and execution log change after construction.
type MigrationPlan struct {
	// Operations are ordered so that any operation whose target is a strict
	// ancestor directory of another operation's target comes first.
	Operations []MoveOperation

	// CreateDirs lists the directories execution must create, sorted so
	// parents precede children.
	CreateDirs []string

	Conflicts  []Conflict
	Unmapped   []string
	Ignored    []string
	Validation ValidationResult

	state    PlanState
	outcomes []OperationOutcome
}

// NewDraftPlan assembles a plan in the Draft state.
func NewDraftPlan(ops []MoveOperation, createDirs []string, conflicts []Conflict, unmapped, ignored []string, validation ValidationResult) *MigrationPlan {
	return &MigrationPlan{
		Operations: ops,
		CreateDirs: createDirs,
		Conflicts:  conflicts,
		Unmapped:   unmapped,
		Ignored:    ignored,
		Validation: validation,
		state:      PlanStateDraft,
	}
}

// State returns the plan's current lifecycle state.
func (p *MigrationPlan) State() PlanState {
	return p.state
}

// Executable reports whether the plan is free of conflicts and violations.
func (p *MigrationPlan) Executable() bool {
	return len(p.Conflicts) == 0 && p.Validation.Passed()
}

// Validate transitions Draft -> Validated. It fails closed: any conflict or
// violation keeps the plan in Draft.
func (p *MigrationPlan) Validate() error {
	if p.state != PlanStateDraft {
		return NewInvalidInputError(fmt.Sprintf("cannot validate plan in state %q", p.state), nil)
	}
	if len(p.Conflicts) > 0 {
		return NewPlanConflictError(p.Conflicts[0].Target)
	}
	if !p.Validation.Passed() {
		v := p.Validation.Violations[0]
		return NewValidationFailureError(fmt.Sprintf("%s: %s", v.Kind, v.Subject))
	}
	p.state = PlanStateValidated
	return nil
}

// BeginExecution transitions Validated -> Executing.
func (p *MigrationPlan) BeginExecution() error {
	if p.state != PlanStateValidated {
		return NewInvalidInputError(fmt.Sprintf("cannot execute plan in state %q", p.state), nil)
	}
	p.state = PlanStateExecuting
	return nil
}

// RecordOutcomes consumes the executor's per-operation results and moves the
// plan to Completed or PartiallyFailed. On partial failure the outcome log
// states exactly which operations succeeded, so the executor can reverse them.
func (p *MigrationPlan) RecordOutcomes(outcomes []OperationOutcome) error {
	if p.state != PlanStateExecuting {
		return NewInvalidInputError(fmt.Sprintf("cannot record outcomes in state %q", p.state), nil)
	}
	p.outcomes = outcomes
	for _, o := range outcomes {
		if !o.Succeeded {
			p.state = PlanStatePartiallyFailed
			return nil
		}
	}
	p.state = PlanStateCompleted
	return nil
}

// Outcomes returns the recorded execution log.
func (p *MigrationPlan) Outcomes() []OperationOutcome {
	return p.outcomes
}

// SucceededOperations returns the operations the executor completed.
func (p *MigrationPlan) SucceededOperations() []MoveOperation {
	var ops []MoveOperation
	for _, o := range p.outcomes {
		if o.Succeeded {
			ops = append(ops, o.Operation)
		}
	}
	return ops
}

// PlanExecutor performs the side-effecting moves of a validated plan.
// History-preserving execution (git mv) is an external concern; implementors
// only promise an outcome per operation, never automatic retry or rollback.
type PlanExecutor interface {
	Execute(ctx context.Context, plan *MigrationPlan) ([]OperationOutcome, error)
}
