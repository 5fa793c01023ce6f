// Package vrpkit turns raw delivery workbooks into solved vehicle routes.
//
// 🚚 What is vrpkit?
//
//	A toolkit covering the whole routing pipeline:
//		• Travel costs: validated distance matrices, haversine, time profiles
//		• Problems: multi-depot instances with demands, fleets & a JSON codec
//		• Solving: cheapest-arc & parallel-savings construction plus
//		  2-opt / relocate / swap local search under capacity & time limits
//		• Feasibility: audit customers no vehicle could ever serve
//		• Data prep: xlsx intake, depot & fleet configs, problem files
//		• Distances: chunked OSRM table fetching with a persistent cache
//
// Under the hood, everything is organized per concern:
//
//	travel/      — distance matrices, coordinates, time profiles
//	vrp/         — problem & solution types, validation, JSON codec
//	solver/      — construction strategies and local-search improvement
//	feasibility/ — pre-solve serviceability audits
//	dataset/     — workbook intake, configs, problem assembly & files
//	osrm/        — road-distance matrices from an OSRM table endpoint
//	cmd/vrp      — the CLI: prepare, split, matrix, check, solve, run, serve
//
// Start with vrp.DecodeProblem or the dataset builder, then hand the
// problem to solver.Solve.
package vrpkit
