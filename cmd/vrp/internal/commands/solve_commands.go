package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfleet/vrpkit/dataset"
	"github.com/openfleet/vrpkit/feasibility"
	"github.com/openfleet/vrpkit/internal/log"
	"github.com/openfleet/vrpkit/solver"
)

// InitSolveCommands registers solve, run and check with the root command.
func InitSolveCommands(rootCmd *cobra.Command) {
	solveCmd := &cobra.Command{
		Use:   "solve <problem.json>",
		Short: "Solve a single routing problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solverFlags(solveCmd)
	solveCmd.Flags().String("output", "", "solution file (default stdout)")

	runCmd := &cobra.Command{
		Use:   "run <dir>",
		Short: "Solve every problem file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	solverFlags(runCmd)
	runCmd.Flags().String("out-dir", "", "directory for solution files (default <dir>)")

	checkCmd := &cobra.Command{
		Use:   "check <problem.json>",
		Short: "Audit a problem for customers no vehicle can serve",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().String("output", "", "report file (default stdout)")

	rootCmd.AddCommand(solveCmd, runCmd, checkCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("solve")

	opts, strategy, err := solverOptions(cmd)
	if err != nil {
		return err
	}

	p, err := dataset.LoadProblem(args[0])
	if err != nil {
		return err
	}

	sol, err := solver.Solve(cmd.Context(), p, opts)
	if err != nil {
		return fmt.Errorf("solve %q: %w", p.Label, err)
	}

	logger.Info().
		Str("label", p.Label).
		Str("strategy", strategy.String()).
		Float64("total_meters", sol.TotalMeters).
		Int("vehicles_used", sol.VehiclesUsed).
		Dur("elapsed", sol.Elapsed).
		Msg("solved")

	output, _ := cmd.Flags().GetString("output")

	return writeOutput(output, renderSolution(p, sol, strategy))
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("run")

	opts, strategy, err := solverOptions(cmd)
	if err != nil {
		return err
	}

	paths, err := dataset.ListProblems(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no problem files in %q", args[0])
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = args[0]
	}

	failed := 0
	for _, path := range paths {
		p, err := dataset.LoadProblem(path)
		if err != nil {
			logger.Error().Str("path", path).Err(err).Msg("load failed")
			failed++
			continue
		}

		sol, err := solver.Solve(cmd.Context(), p, opts)
		if err != nil {
			logger.Error().Str("label", p.Label).Err(err).Msg("solve failed")
			failed++
			continue
		}

		out := solutionPath(outDir, p.Label)
		if err = writeOutput(out, renderSolution(p, sol, strategy)); err != nil {
			return err
		}

		logger.Info().
			Str("label", p.Label).
			Float64("total_meters", sol.TotalMeters).
			Int("vehicles_used", sol.VehiclesUsed).
			Str("output", out).
			Msg("solved")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(paths))
	}

	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("check")

	p, err := dataset.LoadProblem(args[0])
	if err != nil {
		return err
	}

	report, err := feasibility.Check(p)
	if err != nil {
		return err
	}

	logger.Info().
		Str("label", p.Label).
		Int("customers", report.Customers).
		Int("depots", report.Depots).
		Int("findings", len(report.Findings)).
		Msg("audit complete")

	output, _ := cmd.Flags().GetString("output")
	if err = writeOutput(output, report); err != nil {
		return err
	}

	if !report.OK() {
		return fmt.Errorf("%d customers cannot be served", len(report.Findings))
	}

	return nil
}
