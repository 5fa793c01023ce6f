// Package vrp defines the routing problem model shared by the solver, the
// feasibility auditor, and the data-preparation pipeline.
//
// A Problem couples a travel.Matrix with the node list (depots and
// customers), the fleet (one Vehicle per route, each anchored to its home
// depot), and the optional time dimension (travel.TimeProfile plus a
// maximum route duration). Solutions are per-vehicle Routes with load,
// meters, and minutes accumulated.
//
// The JSON codec reads and writes the problem-file schema produced by the
// data-preparation tooling: distance_matrix, demands, vehicle_capacities,
// num_vehicles, depot or starts/ends, names, locations. Files written by
// earlier tooling that encode unreachable pairs as 999999 meters are
// normalized to +Inf on load and written back as 999999 on save.
package vrp
