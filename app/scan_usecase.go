package app

import (
	"context"
	"io"

	"github.com/pymigrate/pymigrate/domain"
	"github.com/pymigrate/pymigrate/internal/config"
	"github.com/pymigrate/pymigrate/service"
)

// ScanRequest carries everything one scan run needs.
type ScanRequest struct {
	Root         string
	ConfigPath   string
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
	ShowProgress bool

	// SortBy orders per-file rows in text output; empty keeps location order.
	SortBy domain.SortCriteria

	// Workers overrides the configured worker count when positive.
	Workers int
}

// ScanUseCase orchestrates the scan workflow: load configuration, run the
// scanner, render the result.
type ScanUseCase struct {
	formatter *service.ScanFormatter
}

// NewScanUseCase creates a new scan use case
func NewScanUseCase() *ScanUseCase {
	return &ScanUseCase{
		formatter: service.NewScanFormatter(),
	}
}

// Execute performs the complete scan workflow and writes the report.
func (uc *ScanUseCase) Execute(ctx context.Context, req ScanRequest) (*domain.ScanResult, error) {
	if req.Root == "" {
		return nil, domain.NewInvalidInputError("scan root is required", nil)
	}

	cfg, err := config.LoadConfig(req.ConfigPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	scanner := service.NewScanner(cfg)
	if req.ShowProgress {
		scanner = scanner.WithProgress(service.NewProgressReporter())
	}

	workers := cfg.Scan.Workers
	if req.Workers > 0 {
		workers = req.Workers
	}

	result, err := scanner.Scan(ctx, domain.ScanRequest{
		Root:           req.Root,
		IgnorePatterns: cfg.Scan.IgnorePatterns,
		Workers:        workers,
	})
	if err != nil {
		return nil, err
	}

	if req.OutputWriter != nil {
		if req.SortBy != "" {
			uc.formatter.SortBy = req.SortBy
		}
		if err := uc.formatter.Write(req.OutputWriter, result, req.OutputFormat); err != nil {
			return nil, err
		}
	}
	return result, nil
}
