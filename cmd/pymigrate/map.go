package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pymigrate/pymigrate/service"
)

// MapCommand represents the map command
type MapCommand struct {
	outputFile string
}

// NewMapCommand creates a new map command
func NewMapCommand() *MapCommand {
	return &MapCommand{}
}

// CreateCobraCommand creates the cobra command for directory mapping
func (c *MapCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map [path]",
		Short: "Render a directory tree of the project",
		Long: `Render the project's directory structure as a tree, with caches and
compiled artifacts filtered out. Useful as a before/after companion to a
migration plan.

Examples:
  # Print the tree for the current directory
  pymigrate map .

  # Save the tree to a file
  pymigrate map --output migration_structure.txt .`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runMap,
	}

	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Write the tree to a file instead of stdout")

	return cmd
}

func (c *MapCommand) runMap(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	mapper := service.NewTreeMapper()

	if c.outputFile == "" {
		return mapper.Render(os.Stdout, root)
	}

	f, err := os.Create(c.outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := mapper.Render(f, root); err != nil {
		return err
	}
	fmt.Printf("Structure saved to: %s\n", c.outputFile)
	return nil
}
