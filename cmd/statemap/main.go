// Package main provides the entry point for the statemap CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/statemap/cmd/statemap/commands"
	"github.com/Sumatoshi-tech/statemap/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "statemap",
		Short: "Statemap - tooling for the interned Matrix room state container",
		Long: `Statemap provides tooling around the interned room state container.

Commands:
  bench     Measure memory footprint against a naive representation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewBenchCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "statemap %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
