package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// explicitFlags reports which flags were set on the command line, so that a
// flag value overrides the configuration file only when the user actually
// passed it.
func explicitFlags(cmd *cobra.Command) map[string]bool {
	set := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			set[f.Name] = true
		})
	}
	return set
}
