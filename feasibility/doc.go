// Package feasibility audits a routing problem before solving, so that a
// "no feasible solution" outcome can be explained per customer instead of
// leaving the operator to guess.
//
// Two audits run:
//
//   - Capacity: a customer whose demand exceeds the largest vehicle can
//     never be served, full stop.
//   - Reachability/time: a customer whose round trip to its nearest depot
//     is disconnected, or takes longer than the route-time cap even with
//     an empty truck, can never appear on any feasible route.
//
// A clean report does not guarantee solvability (fleet size can still be
// the bottleneck); a dirty one guarantees unsolvability under the stated
// constraints.
package feasibility
