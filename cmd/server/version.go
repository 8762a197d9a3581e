package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stateless-auth version %s\n", version)
			fmt.Fprintf(out, "  commit:     %s\n", commit)
			fmt.Fprintf(out, "  built:      %s\n", buildDate)
			fmt.Fprintf(out, "  go version: %s\n", runtime.Version())
		},
	}
}
