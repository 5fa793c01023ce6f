// Package osrm fetches road-distance matrices from an OSRM "table"
// service endpoint.
//
// The public demo server caps the number of coordinates per request, so
// Client tiles the full NxN matrix into chunked sub-requests and stitches
// the responses together. Unroutable pairs (JSON null in the response)
// become +Inf, matching the travel package's unreachable convention.
//
// An optional badger-backed Cache keyed by the exact chunk request makes
// repeated preparation runs cheap and keeps load off the shared server.
package osrm
