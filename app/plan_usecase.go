package app

import (
	"context"
	"io"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
	"github.com/pymigrate/pymigrate/internal/planner"
	"github.com/pymigrate/pymigrate/service"
)

// PlanRequest carries everything one planning run needs.
type PlanRequest struct {
	Root         string
	MappingPath  string
	ConfigPath   string
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
	ShowProgress bool

	// Workers overrides the configured worker count when positive.
	Workers int

	// Execute runs the filesystem executor after a successful validation.
	// Without it the workflow stops at the preview, mutating nothing.
	Execute bool
}

// PlanUseCase orchestrates scanning, planning, validation, and optionally
// execution of a migration.
type PlanUseCase struct {
	scan      *ScanUseCase
	formatter *service.PlanFormatter
}

// NewPlanUseCase creates a new plan use case
func NewPlanUseCase() *PlanUseCase {
	return &PlanUseCase{
		scan:      NewScanUseCase(),
		formatter: service.NewPlanFormatter(),
	}
}

// Execute runs the complete planning workflow and writes the plan preview.
func (uc *PlanUseCase) Execute(ctx context.Context, req PlanRequest) (*domain.MigrationPlan, error) {
	if req.MappingPath == "" {
		return nil, domain.NewInvalidInputError("mapping file is required", nil)
	}

	ruleSet, err := config.LoadMapping(req.MappingPath)
	if err != nil {
		return nil, err
	}

	// One scan pass feeds both reporting and planning; the mapping's own
	// ignore globs are honored during planning.
	scanResult, err := uc.scan.Execute(ctx, ScanRequest{
		Root:         req.Root,
		ConfigPath:   req.ConfigPath,
		ShowProgress: req.ShowProgress,
		Workers:      req.Workers,
	})
	if err != nil {
		return nil, err
	}

	plan := planner.New(ruleSet).Plan(scanResult)

	// The preview always renders before any filesystem mutation.
	if req.OutputWriter != nil {
		if err := uc.formatter.Write(req.OutputWriter, plan, req.OutputFormat); err != nil {
			return nil, err
		}
	}

	if !req.Execute {
		return plan, nil
	}

	if err := plan.Validate(); err != nil {
		return plan, err
	}

	executor := service.NewFSExecutor(scanResult.Root)
	if _, err := executor.Execute(ctx, plan); err != nil {
		return plan, err
	}
	if plan.State() == domain.PlanStatePartiallyFailed {
		return plan, domain.NewDomainError(domain.ErrCodeExecutionFailure, "plan execution partially failed", nil)
	}
	return plan, nil
}
