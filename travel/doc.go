// Package travel provides the travel-cost primitives shared by every
// routing component: a dense road-distance matrix and a time profile that
// turns meters into route minutes.
//
// Conventions:
//   - Distances are float64 meters. The diagonal is zero; an off-diagonal
//     +Inf entry means the pair is not connected by the road network.
//   - Matrices may be asymmetric (one-way streets, turn restrictions);
//     callers that require symmetry opt in via WithSymmetric.
//   - A TimeProfile holds the average fleet speed and the per-stop service
//     time; Minutes converts a leg distance into driving minutes.
//
// Validation is staged and side-effect free, returning sentinel errors
// only: shape first, then diagonal, then value sanity (NaN, negativity,
// infinity policy), then optional symmetry within tolerance.
package travel
