package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfleet/vrpkit/dataset"
	"github.com/openfleet/vrpkit/internal/log"
	"github.com/openfleet/vrpkit/osrm"
	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

// InitPrepareCommands registers prepare, split and matrix with the root
// command.
func InitPrepareCommands(rootCmd *cobra.Command) {
	prepareCmd := &cobra.Command{
		Use:   "prepare <points.xlsx>",
		Short: "Build one multi-depot problem from a delivery workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrepare,
	}
	prepareCmd.Flags().String("depots", "", "depot registry YAML (required)")
	prepareCmd.Flags().String("fleets", "", "fleet config YAML (required)")
	prepareCmd.Flags().String("output", "global.json", "problem file to write")
	matrixFlags(prepareCmd)
	timeFlags(prepareCmd)
	_ = prepareCmd.MarkFlagRequired("depots")
	_ = prepareCmd.MarkFlagRequired("fleets")

	splitCmd := &cobra.Command{
		Use:   "split <points.xlsx>",
		Short: "Build one single-depot problem per dispatch location",
		Args:  cobra.ExactArgs(1),
		RunE:  runSplit,
	}
	splitCmd.Flags().String("out-dir", "problems", "directory for problem files")
	splitCmd.Flags().Int("vehicles", 3, "vehicles per dispatch")
	splitCmd.Flags().Int64("capacity", 2000, "capacity per vehicle")
	matrixFlags(splitCmd)
	timeFlags(splitCmd)

	matrixCmd := &cobra.Command{
		Use:   "matrix <problem.json>",
		Short: "Refresh a problem's distance matrix from node coordinates",
		Args:  cobra.ExactArgs(1),
		RunE:  runMatrix,
	}
	matrixCmd.Flags().String("output", "", "problem file to write (default in place)")
	matrixFlags(matrixCmd)

	rootCmd.AddCommand(prepareCmd, splitCmd, matrixCmd)
}

// timeFlags registers the route-time knobs shared by prepare and split.
func timeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("max-route-minutes", 0, "cap each route's duration (0 = no time dimension)")
	cmd.Flags().Float64("speed", 30, "average speed in km/h")
	cmd.Flags().Float64("service-minutes", 10, "service time per customer stop")
}

// applyTimeFlags stamps the time dimension onto freshly built problems.
func applyTimeFlags(cmd *cobra.Command, problems ...*vrp.Problem) {
	maxMin, _ := cmd.Flags().GetFloat64("max-route-minutes")
	if maxMin <= 0 {
		return
	}

	speed, _ := cmd.Flags().GetFloat64("speed")
	service, _ := cmd.Flags().GetFloat64("service-minutes")
	for _, p := range problems {
		p.MaxRouteMinutes = maxMin
		p.Profile = &travel.TimeProfile{SpeedKmph: speed, ServiceMinutes: service}
	}
}

// matrixFlags registers the distance-source knobs shared by the
// preparation commands.
func matrixFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("haversine", false, "use great-circle distances instead of OSRM")
	cmd.Flags().String("osrm", osrm.DefaultBaseURL, "OSRM base URL")
	cmd.Flags().Int("chunk-size", 0, "coordinates per OSRM request (0 = default)")
	cmd.Flags().Duration("pause", 500*time.Millisecond, "delay between OSRM requests")
	cmd.Flags().String("cache", "", "badger directory for the OSRM chunk cache")
}

// matrixSource builds the distance source selected by the flags. The
// returned closer is nil when nothing needs closing.
func matrixSource(cmd *cobra.Command) (dataset.MatrixSource, func() error, error) {
	if offline, _ := cmd.Flags().GetBool("haversine"); offline {
		return dataset.HaversineSource{}, nil, nil
	}

	base, _ := cmd.Flags().GetString("osrm")
	opts := []osrm.Option{osrm.WithLogger(log.WithComponent("osrm"))}

	if chunk, _ := cmd.Flags().GetInt("chunk-size"); chunk > 0 {
		opts = append(opts, osrm.WithChunkSize(chunk))
	}
	if pause, _ := cmd.Flags().GetDuration("pause"); pause >= 0 {
		opts = append(opts, osrm.WithPause(pause))
	}

	var closer func() error
	if dir, _ := cmd.Flags().GetString("cache"); dir != "" {
		cache, err := osrm.OpenCache(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		opts = append(opts, osrm.WithCache(cache))
		closer = cache.Close
	}

	return osrm.New(base, opts...), closer, nil
}

func runPrepare(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("prepare")

	depotsPath, _ := cmd.Flags().GetString("depots")
	reg, err := dataset.LoadDepotRegistry(depotsPath)
	if err != nil {
		return err
	}

	fleetsPath, _ := cmd.Flags().GetString("fleets")
	fleet, err := dataset.LoadFleetConfig(fleetsPath)
	if err != nil {
		return err
	}

	rows, skipped, err := dataset.ReadXLSX(args[0], dataset.DefaultColumns())
	if err != nil {
		return err
	}
	for _, s := range skipped {
		logger.Warn().Int("row", s.Index).Str("name", s.Name).Str("reason", s.Reason).Msg("row skipped")
	}

	src, closer, err := matrixSource(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer() }()
	}

	builder := dataset.NewBuilder(dataset.WithLogger(logger))
	p, err := builder.BuildGlobal(cmd.Context(), rows, reg, fleet, src)
	if err != nil {
		return err
	}
	applyTimeFlags(cmd, p)

	output, _ := cmd.Flags().GetString("output")
	if err = dataset.SaveProblem(p, output); err != nil {
		return err
	}

	logger.Info().
		Int("nodes", len(p.Nodes)).
		Int("vehicles", len(p.Fleet)).
		Str("output", output).
		Msg("problem written")

	return nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("split")

	rows, skipped, err := dataset.ReadXLSX(args[0], dataset.DefaultColumns())
	if err != nil {
		return err
	}
	for _, s := range skipped {
		logger.Warn().Int("row", s.Index).Str("name", s.Name).Str("reason", s.Reason).Msg("row skipped")
	}

	src, closer, err := matrixSource(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer() }()
	}

	vehicles, _ := cmd.Flags().GetInt("vehicles")
	capacity, _ := cmd.Flags().GetInt64("capacity")

	builder := dataset.NewBuilder(dataset.WithLogger(logger))
	problems, failures, err := builder.SplitByDispatch(cmd.Context(), rows, src, vehicles, capacity)
	if err != nil {
		return err
	}
	for _, f := range failures {
		logger.Warn().Str("dispatch", f.Dispatch).Err(f.Err).Msg("dispatch skipped")
	}
	applyTimeFlags(cmd, problems...)

	outDir, _ := cmd.Flags().GetString("out-dir")
	for _, p := range problems {
		path := filepath.Join(outDir, p.Label+".json")
		if err = dataset.SaveProblem(p, path); err != nil {
			return err
		}
		logger.Info().Str("label", p.Label).Int("nodes", len(p.Nodes)).Str("output", path).Msg("problem written")
	}

	if len(problems) == 0 {
		return fmt.Errorf("all %d dispatch groups failed", len(failures))
	}

	return nil
}

func runMatrix(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("matrix")

	p, err := dataset.LoadProblem(args[0])
	if err != nil {
		return err
	}

	coords := make([]travel.Coordinate, len(p.Nodes))
	for i, n := range p.Nodes {
		coords[i] = travel.Coordinate{Lat: n.Lat, Lon: n.Lon}
		if !coords[i].Valid() {
			return fmt.Errorf("node %d (%s) has no usable coordinates", i, n.Name)
		}
	}

	src, closer, err := matrixSource(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer() }()
	}

	m, err := src.Table(cmd.Context(), coords)
	if err != nil {
		return err
	}
	p.Matrix = m

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = args[0]
	}
	if err = dataset.SaveProblem(p, output); err != nil {
		return err
	}

	logger.Info().Int("nodes", len(p.Nodes)).Str("output", output).Msg("matrix refreshed")

	return nil
}
