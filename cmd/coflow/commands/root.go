// Package commands wires the coflow CLI: a serve command exposing the
// orchestrator over HTTP/WebSocket and a demo command that drives every
// workflow in-process.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the root command
func Execute(version, buildTime string) error {
	return newRootCommand(version, buildTime).Execute()
}

func newRootCommand(version, buildTime string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coflow",
		Short: "coflow - structured concurrency demo orchestrator",
		Long: `coflow runs an asynchronous task orchestration core that demonstrates
structured concurrency patterns (sequential and parallel fetch, bounded
retry, timeout, chaining, flow transformation, debouncing) over a mock
data source, surfacing every outcome on three output channels with
distinct delivery semantics.`,
		Version: fmt.Sprintf("%s (built: %s)", version, buildTime),
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newDemoCommand())

	return rootCmd
}
