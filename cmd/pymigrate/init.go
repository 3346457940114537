package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// InitCommand represents the init command
type InitCommand struct {
	force       bool
	configPath  string
	mappingPath string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath:  ".pymigrate.yaml",
		mappingPath: "migration_mapping.yaml",
	}
}

// CreateCobraCommand creates the cobra command for configuration scaffolding
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize pymigrate configuration files",
		Long: `Create a starter tool configuration and migration mapping in the current
directory, with comments explaining each setting.

Examples:
  # Create .pymigrate.yaml and migration_mapping.yaml
  pymigrate init

  # Overwrite existing files
  pymigrate init --force`,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing files")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", ".pymigrate.yaml", "Configuration file path")
	cmd.Flags().StringVarP(&i.mappingPath, "mapping", "m", "migration_mapping.yaml", "Mapping file path")

	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	if err := i.writeFile(i.configPath, defaultConfigTemplate); err != nil {
		return err
	}
	if err := i.writeFile(i.mappingPath, defaultMappingTemplate); err != nil {
		return err
	}
	return nil
}

func (i *InitCommand) writeFile(path, content string) error {
	if _, err := os.Stat(path); err == nil && !i.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

const defaultConfigTemplate = `# pymigrate tool configuration

complexity:
  # A function exceeding any of these is flagged high risk.
  max_complexity: 10
  max_nesting_depth: 4
  max_coupling: 7
  # Complexity above this (and under max_complexity) is medium risk.
  low_threshold: 5

config_detection:
  # Minimum confidence for a finding to be reported.
  report_threshold: 0.3

scan:
  ignore_patterns:
    - "**/__pycache__/**"
    - "**/.git/**"
    - "**/.venv/**"
    - "**/venv/**"
    - "**/*.pyc"
    - "**/*.pyo"
  # 0 means one worker per CPU.
  workers: 0
`

const defaultMappingTemplate = `# pymigrate migration mapping
version: "1.0"

patterns:
  python:
    - pattern: "**/*.py"
      target: "app/misc/{name}"
      priority: 0
    - pattern: "functions/base/*.py"
      target: "app/core/{name}"
      priority: 1
  config:
    - pattern: "**/*.{yml,yaml,json,cfg,conf,toml,ini}"
      target: "config/{name}"
      priority: 0
  doc:
    - pattern: "**/*.{md,rst,txt}"
      target: "docs/{name}"
      priority: 0

special:
  ignore:
    - "**/__pycache__/**"
    - "**/*.pyc"
  # Targets under these roots keep the source layout instead of flattening.
  preserve_structure: []

validation:
  required_dirs:
    - app/core
  no_empty_dirs: false
  file_checks:
    - type: python
      max_size: 1048576
`
