package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pymigrate/pymigrate/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pymigrate",
	Short: "Analyze and reorganize Python project layouts",
	Long: `pymigrate analyzes a Python source tree (class hierarchies, embedded
configuration, complexity metrics) and computes a safe reorganization plan
from declarative pattern-to-target rules.

Features:
  - Class structure extraction with inheritance graphs
  - Embedded configuration detection with confidence scoring
  - Cyclomatic complexity, nesting depth, and coupling metrics
  - Validated, conflict-checked migration plans previewed before any move`,
	Version: version.Short(),
}

func init() {
	rootCmd.AddCommand(NewScanCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewPlanCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewMapCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewInitCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewVersionCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
