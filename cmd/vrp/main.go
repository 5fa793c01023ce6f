// Package main is the entry point for the vrp command-line tool. It
// registers the data-preparation, solving and serving sub-commands and
// executes the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openfleet/vrpkit/cmd/vrp/internal/commands"
	"github.com/openfleet/vrpkit/internal/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local overrides; a missing .env file is not an error.
	_ = godotenv.Load()

	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "vrp",
		Short: "Vehicle-routing toolkit",
		Long: `vrp prepares routing problems from raw delivery workbooks, fetches
road-distance matrices, checks feasibility, solves capacitated
vehicle-routing instances and serves the solver over HTTP.

Problems are stored as JSON files, so every stage can be run, inspected
and re-run independently.`,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.Configure(log.Config{Level: logLevel})
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	commands.InitSolveCommands(rootCmd)
	commands.InitPrepareCommands(rootCmd)
	commands.InitServeCommands(rootCmd)

	return rootCmd.Execute()
}
