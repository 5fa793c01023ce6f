// Package solver provides heuristic solvers for capacitated vehicle
// routing problems, with optional route-time limits and multi-depot
// fleets.
//
// The entry point is Solve: it validates the problem and options, builds a
// first solution with the configured strategy, then (optionally) runs a
// deterministic local-search improvement loop under a wall-clock budget.
//
// Strategies:
//
//   - CheapestArc — sequential greedy: each vehicle repeatedly extends its
//     route with the nearest feasible unassigned customer. Fast, decent
//     first solutions; the counterpart of classic cheapest-arc seeding.
//   - ParallelSavings — Clarke–Wright savings, multi-depot aware: every
//     customer starts as its own round trip from its nearest depot, then
//     route pairs are merged in descending-savings order while capacity
//     and time stay feasible.
//
// Local search interleaves intra-route 2-opt with inter-route relocate and
// swap moves, accepting a move only when it shortens the total by more
// than Eps. First-improvement is the default; BestImprovement scans whole
// neighborhoods before committing.
//
// Invariants on every returned Solution:
//   - each customer appears on exactly one route, exactly once;
//   - route load never exceeds the vehicle capacity;
//   - route minutes never exceed Problem.MaxRouteMinutes when the time
//     dimension is active;
//   - every route starts and ends at its vehicle's home depot; unused
//     vehicles yield empty depot-to-depot routes;
//   - total meters are rounded to 1e-9 for platform-stable results.
//
// Determinism: identical problem, options, and seed produce identical
// solutions. The time limit and context only truncate the improvement
// loop at sweep boundaries; they never introduce nondeterminism into an
// uninterrupted run.
package solver
