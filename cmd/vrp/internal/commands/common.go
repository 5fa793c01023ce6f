// Package commands implements the vrp CLI sub-commands.
package commands

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openfleet/vrpkit/solver"
	"github.com/openfleet/vrpkit/vrp"
)

// solutionFile is the JSON layout solve commands write.
type solutionFile struct {
	Label        string          `json:"label,omitempty"`
	Strategy     string          `json:"strategy"`
	TotalMeters  float64         `json:"total_meters"`
	TotalLoad    int64           `json:"total_load"`
	VehiclesUsed int             `json:"vehicles_used"`
	ElapsedMS    int64           `json:"elapsed_ms"`
	Routes       []solutionRoute `json:"routes"`
}

type solutionRoute struct {
	Vehicle int      `json:"vehicle"`
	Load    int64    `json:"load"`
	Meters  float64  `json:"meters"`
	Minutes float64  `json:"minutes,omitempty"`
	Stops   []int    `json:"stops"`
	Names   []string `json:"names,omitempty"`
}

func renderSolution(p *vrp.Problem, sol vrp.Solution, strategy solver.Strategy) solutionFile {
	named := false
	for _, n := range p.Nodes {
		if n.Name != "" {
			named = true
			break
		}
	}

	out := solutionFile{
		Label:        p.Label,
		Strategy:     strategy.String(),
		TotalMeters:  sol.TotalMeters,
		TotalLoad:    sol.TotalLoad,
		VehiclesUsed: sol.VehiclesUsed,
		ElapsedMS:    sol.Elapsed.Milliseconds(),
	}
	for _, rt := range sol.Routes {
		if rt.Empty() {
			continue
		}
		sr := solutionRoute{
			Vehicle: rt.Vehicle,
			Load:    rt.Load,
			Meters:  rt.Meters,
			Minutes: rt.Minutes,
			Stops:   rt.Nodes,
		}
		if named {
			sr.Names = make([]string, len(rt.Nodes))
			for i, idx := range rt.Nodes {
				sr.Names[i] = p.Nodes[idx].Name
			}
		}
		out.Routes = append(out.Routes, sr)
	}

	return out
}

// writeOutput marshals v to path, or to stdout when path is empty.
func writeOutput(path string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, '\n')

	if path == "" {
		_, err = os.Stdout.Write(buf)
		return err
	}

	return os.WriteFile(path, buf, 0o644)
}

// solutionPath names the solution file for a problem label.
func solutionPath(dir, label string) string {
	if label == "" {
		label = "problem"
	}

	return filepath.Join(dir, label+".solution.json")
}

// solverFlags registers the solver knobs shared by solve and run.
func solverFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "construction strategy (cheapest-arc, savings)")
	cmd.Flags().Duration("time-limit", 0, "local-search time limit (0 = unbounded)")
	cmd.Flags().Int64("seed", 0, "sweep-order shuffle seed (0 = deterministic order)")
	cmd.Flags().Bool("no-local-search", false, "skip local-search improvement")
}

// solverOptions assembles solver options from the shared flags.
func solverOptions(cmd *cobra.Command) (solver.Options, solver.Strategy, error) {
	name, _ := cmd.Flags().GetString("strategy")
	strategy, err := solver.ParseStrategy(name)
	if err != nil {
		return solver.Options{}, 0, err
	}

	opts := []solver.Option{solver.WithStrategy(strategy)}

	if limit, _ := cmd.Flags().GetDuration("time-limit"); limit > 0 {
		opts = append(opts, solver.WithTimeLimit(limit))
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		opts = append(opts, solver.WithSeed(seed))
	}
	if skip, _ := cmd.Flags().GetBool("no-local-search"); skip {
		opts = append(opts, solver.WithoutLocalSearch())
	}

	return solver.NewOptions(opts...), strategy, nil
}
