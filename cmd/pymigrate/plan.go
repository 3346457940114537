package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pymigrate/pymigrate/app"
)

// PlanCommand represents the plan command
type PlanCommand struct {
	mappingFile  string
	configFile   string
	outputFormat string
	workers      int
	execute      bool
	noProgress   bool
}

// NewPlanCommand creates a new plan command
func NewPlanCommand() *PlanCommand {
	return &PlanCommand{
		outputFormat: "text",
	}
}

// CreateCobraCommand creates the cobra command for migration planning
func (c *PlanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [path]",
		Short: "Compute a migration plan from mapping rules",
		Long: `Scan a project and compute an ordered, validated migration plan from a
mapping file.

The plan preview always renders before any filesystem mutation. A plan with
conflicts or validation failures is never executable; the report annotates
every failure so the rules can be corrected.

Examples:
  # Preview the plan for the current directory
  pymigrate plan --mapping migration_mapping.yaml .

  # Execute a clean plan
  pymigrate plan --mapping migration_mapping.yaml --execute .

  # Machine-readable plan for review tooling
  pymigrate plan --mapping migration_mapping.yaml --format json .`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runPlan,
	}

	cmd.Flags().StringVarP(&c.mappingFile, "mapping", "m", "migration_mapping.yaml", "Migration mapping file path")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&c.outputFormat, "format", "f", "text", "Output format: text, json, yaml")
	cmd.Flags().IntVar(&c.workers, "workers", 0, "Analysis worker count (0 = one per CPU)")
	cmd.Flags().BoolVar(&c.execute, "execute", false, "Execute the plan after validation")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func (c *PlanCommand) runPlan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	format, err := parseOutputFormat(c.outputFormat)
	if err != nil {
		return err
	}

	workers := 0
	if explicitFlags(cmd)["workers"] {
		workers = c.workers
	}

	_, err = app.NewPlanUseCase().Execute(cmd.Context(), app.PlanRequest{
		Root:         root,
		MappingPath:  c.mappingFile,
		ConfigPath:   c.configFile,
		OutputFormat: format,
		OutputWriter: os.Stdout,
		ShowProgress: !c.noProgress,
		Workers:      workers,
		Execute:      c.execute,
	})
	return err
}
