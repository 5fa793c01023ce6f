package dataset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

// MatrixSource produces a pairwise travel matrix for an ordered coordinate
// list. Implemented by the osrm client; HaversineSource is the offline
// fallback.
type MatrixSource interface {
	Table(ctx context.Context, coords []travel.Coordinate) (*travel.Matrix, error)
}

// HaversineSource computes great-circle distances instead of road
// distances. Useful offline and in tests; real runs use osrm.
type HaversineSource struct{}

// Table implements MatrixSource.
func (HaversineSource) Table(_ context.Context, coords []travel.Coordinate) (*travel.Matrix, error) {
	m, err := travel.NewMatrix(len(coords))
	if err != nil {
		return nil, err
	}
	for i := range coords {
		for j := range coords {
			if i == j {
				continue
			}
			if err = m.Set(i, j, travel.Haversine(coords[i], coords[j])); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Builder assembles problems from cleaned rows. The zero value works;
// options add logging and override the depot-name prefix.
type Builder struct {
	log         zerolog.Logger
	depotPrefix string
}

// BuilderOption mutates a Builder.
type BuilderOption func(*Builder)

// WithLogger attaches a zerolog logger for assembly progress.
func WithLogger(l zerolog.Logger) BuilderOption {
	return func(b *Builder) { b.log = l }
}

// NewBuilder constructs a Builder with a disabled logger and the
// conventional "DEPOT-" node-name prefix.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{log: zerolog.Nop(), depotPrefix: "DEPOT-"}
	for _, apply := range opts {
		apply(b)
	}

	return b
}

// BuildGlobal assembles the single multi-depot problem spanning every
// dispatch group:
//
//   - one depot node per dispatch group, coordinates from the registry
//     when the name matches, otherwise proxied from the group's first row;
//   - customer nodes from rows with positive demand, minus rows whose
//     name matches a registered depot (those are depot echoes in the
//     customer list), deduplicated by coordinate;
//   - the travel matrix from src over depots-then-customers order;
//   - per-depot fleets from the fleet config (DEFAULT fallback).
//
// Row cleaning (coordinates, demand parsing) is the intake's job; rows
// here are taken as given.
func (b *Builder) BuildGlobal(
	ctx context.Context,
	rows []Row,
	reg DepotRegistry,
	fleet FleetConfig,
	src MatrixSource,
) (*vrp.Problem, error) {
	order, groups := GroupByDispatch(rows)
	if len(order) == 0 {
		return nil, ErrNoDispatches
	}

	var (
		nodes     []vrp.Node
		coords    []travel.Coordinate
		depotIdx  = make([]int, 0, len(order))
		depotName = make(map[int]string, len(order))
	)

	// Depot nodes first, in dispatch encounter order.
	for _, dispatch := range order {
		coord, known := reg.Lookup(dispatch)
		if !known {
			coord = groups[dispatch][0].Coord
			b.log.Warn().Str("depot", dispatch).Msg("depot not in registry, using first row as proxy")
		}

		idx := len(nodes)
		nodes = append(nodes, vrp.Node{
			Name: b.depotPrefix + dispatch,
			Lat:  coord.Lat,
			Lon:  coord.Lon,
			Kind: vrp.KindDepot,
		})
		coords = append(coords, coord)
		depotIdx = append(depotIdx, idx)
		depotName[idx] = dispatch
	}

	// Customer nodes: positive demand, not a depot echo, deduplicated.
	var customers []Row
	removed := 0
	for _, r := range rows {
		if r.Demand <= 0 {
			continue
		}
		if reg.Known(r.Name) {
			removed++
			b.log.Info().Str("name", r.Name).Msg("depot removed from customer list")
			continue
		}
		customers = append(customers, r)
	}
	customers = Dedupe(customers)
	if len(customers) == 0 {
		return nil, ErrNoValidRows
	}

	for _, r := range customers {
		nodes = append(nodes, vrp.Node{
			Name:   r.Name,
			Lat:    r.Coord.Lat,
			Lon:    r.Coord.Lon,
			Demand: r.Demand,
			Kind:   vrp.KindCustomer,
		})
		coords = append(coords, r.Coord)
	}

	b.log.Info().
		Int("depots", len(depotIdx)).
		Int("customers", len(customers)).
		Int("depot_echoes_removed", removed).
		Msg("assembling global problem")

	matrix, err := src.Table(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("dataset: matrix fetch: %w", err)
	}

	var vehicles vrp.Fleet
	for _, d := range depotIdx {
		caps, ok := fleet.CapacitiesFor(depotName[d])
		if !ok {
			return nil, fmt.Errorf("%w: no fleet for depot %q and no DEFAULT", ErrBadConfig, depotName[d])
		}
		for _, c := range caps {
			vehicles = append(vehicles, vrp.Vehicle{Capacity: c, Depot: d})
		}
	}

	p := &vrp.Problem{
		Label:  "global",
		Matrix: matrix,
		Nodes:  nodes,
		Fleet:  vehicles,
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// SplitFailure records a dispatch group that could not be assembled.
type SplitFailure struct {
	Dispatch string
	Err      error
}

// SplitByDispatch assembles one single-depot problem per dispatch group.
// The group's first row doubles as the depot (demand forced to zero),
// matching the per-dispatch files the original pipeline produced. Groups
// that fail (no rows, matrix fetch error) are reported, not fatal.
func (b *Builder) SplitByDispatch(
	ctx context.Context,
	rows []Row,
	src MatrixSource,
	vehicles int,
	capacity int64,
) ([]*vrp.Problem, []SplitFailure, error) {
	if vehicles <= 0 || capacity <= 0 {
		return nil, nil, fmt.Errorf("%w: vehicles and capacity must be positive", ErrBadConfig)
	}

	order, groups := GroupByDispatch(rows)
	if len(order) == 0 {
		return nil, nil, ErrNoDispatches
	}

	var (
		problems []*vrp.Problem
		failures []SplitFailure
	)

	for _, dispatch := range order {
		p, err := b.buildDispatch(ctx, dispatch, groups[dispatch], src, vehicles, capacity)
		if err != nil {
			b.log.Warn().Str("dispatch", dispatch).Err(err).Msg("dispatch group failed")
			failures = append(failures, SplitFailure{Dispatch: dispatch, Err: err})
			continue
		}
		problems = append(problems, p)
	}

	return problems, failures, nil
}

// buildDispatch assembles one dispatch group.
func (b *Builder) buildDispatch(
	ctx context.Context,
	dispatch string,
	rows []Row,
	src MatrixSource,
	vehicles int,
	capacity int64,
) (*vrp.Problem, error) {
	rows = Dedupe(rows)
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}

	coords := make([]travel.Coordinate, len(rows))
	nodes := make([]vrp.Node, len(rows))
	for i, r := range rows {
		coords[i] = r.Coord
		nodes[i] = vrp.Node{
			Name:   r.Name,
			Lat:    r.Coord.Lat,
			Lon:    r.Coord.Lon,
			Demand: r.Demand,
			Kind:   vrp.KindCustomer,
		}
	}
	// First point anchors the group as its depot.
	nodes[0].Kind = vrp.KindDepot
	nodes[0].Demand = 0

	matrix, err := src.Table(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("dataset: matrix fetch: %w", err)
	}

	fleet := make(vrp.Fleet, vehicles)
	for i := range fleet {
		fleet[i] = vrp.Vehicle{Capacity: capacity, Depot: 0}
	}

	p := &vrp.Problem{
		Label:  dispatch,
		Matrix: matrix,
		Nodes:  nodes,
		Fleet:  fleet,
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
