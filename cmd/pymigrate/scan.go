package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pymigrate/pymigrate/app"
	"github.com/pymigrate/pymigrate/domain"
)

// ScanCommand represents the scan command
type ScanCommand struct {
	configFile   string
	outputFormat string
	sortBy       string
	workers      int
	noProgress   bool
}

// NewScanCommand creates a new scan command
func NewScanCommand() *ScanCommand {
	return &ScanCommand{
		outputFormat: "text",
	}
}

// CreateCobraCommand creates the cobra command for project scanning
func (c *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Analyze a Python project tree",
		Long: `Scan a project tree and report class structures, embedded configuration,
and complexity metrics.

Every file is classified by kind; Python files run through all three
analyzers. One unparseable file never aborts the scan; its failure is
reported alongside the results.

Examples:
  # Scan the current directory
  pymigrate scan .

  # JSON report for tooling
  pymigrate scan --format json src/

  # Render class hierarchies as a Mermaid diagram
  pymigrate scan --format mermaid src/`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runScan,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&c.outputFormat, "format", "f", "text", "Output format: text, json, yaml, mermaid")
	cmd.Flags().StringVarP(&c.sortBy, "sort", "s", "location", "Sort report rows by: location, name, complexity, risk, confidence")
	cmd.Flags().IntVar(&c.workers, "workers", 0, "Analysis worker count (0 = one per CPU)")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func (c *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	format, err := parseOutputFormat(c.outputFormat)
	if err != nil {
		return err
	}

	sortBy, err := parseSortCriteria(c.sortBy)
	if err != nil {
		return err
	}

	workers := 0
	if explicitFlags(cmd)["workers"] {
		workers = c.workers
	}

	_, err = app.NewScanUseCase().Execute(cmd.Context(), app.ScanRequest{
		Root:         root,
		ConfigPath:   c.configFile,
		OutputFormat: format,
		OutputWriter: os.Stdout,
		SortBy:       sortBy,
		Workers:      workers,
		ShowProgress: !c.noProgress,
	})
	return err
}

func parseSortCriteria(name string) (domain.SortCriteria, error) {
	switch name {
	case "location":
		return domain.SortByLocation, nil
	case "name":
		return domain.SortByName, nil
	case "complexity":
		return domain.SortByComplexity, nil
	case "risk":
		return domain.SortByRisk, nil
	case "confidence":
		return domain.SortByConfidence, nil
	}
	return "", fmt.Errorf("unsupported sort criteria: %s", name)
}

func parseOutputFormat(name string) (domain.OutputFormat, error) {
	switch name {
	case "text":
		return domain.OutputFormatText, nil
	case "json":
		return domain.OutputFormatJSON, nil
	case "yaml":
		return domain.OutputFormatYAML, nil
	case "mermaid":
		return domain.OutputFormatMermaid, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", name)
}
