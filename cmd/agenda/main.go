// Package main implements the agenda CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "agenda",
	Short:        "Agenda - lists, tasks and a day-by-day view",
	SilenceUsage: true,
}

var (
	globalStateDir string
	globalBackend  string
	globalVerbose  bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalStateDir, "state-dir", "", "State directory (default ~/.local/state/agenda)")
	flags.StringVar(&globalBackend, "backend", "", "Storage backend (file, sqlite)")
	flags.BoolVarP(&globalVerbose, "verbose", "v", false, "Log diagnostics to stderr")
}
