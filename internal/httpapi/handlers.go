package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/openfleet/vrpkit/feasibility"
	"github.com/openfleet/vrpkit/internal/log"
	"github.com/openfleet/vrpkit/solver"
	"github.com/openfleet/vrpkit/vrp"
)

// Request bodies carry the problem in the on-disk JSON schema, wrapped
// with per-request solver knobs.

type solveRequest struct {
	Problem     json.RawMessage `json:"problem"`
	Strategy    string          `json:"strategy,omitempty"`
	LocalSearch *bool           `json:"local_search,omitempty"`
	TimeLimitMS int64           `json:"time_limit_ms,omitempty"`
	Seed        int64           `json:"seed,omitempty"`
}

type routePayload struct {
	Vehicle int      `json:"vehicle"`
	Load    int64    `json:"load"`
	Meters  float64  `json:"meters"`
	Minutes float64  `json:"minutes,omitempty"`
	Stops   []int    `json:"stops"`
	Names   []string `json:"names,omitempty"`
}

type solveResponse struct {
	JobID        string         `json:"job_id"`
	Label        string         `json:"label,omitempty"`
	Strategy     string         `json:"strategy"`
	TotalMeters  float64        `json:"total_meters"`
	TotalLoad    int64          `json:"total_load"`
	VehiclesUsed int            `json:"vehicles_used"`
	ElapsedMS    int64          `json:"elapsed_ms"`
	Routes       []routePayload `json:"routes"`
}

type feasibilityRequest struct {
	Problem json.RawMessage `json:"problem"`
}

type findingPayload struct {
	Kind            string  `json:"kind"`
	Node            int     `json:"node"`
	Name            string  `json:"name,omitempty"`
	Demand          int64   `json:"demand,omitempty"`
	MaxCapacity     int64   `json:"max_capacity,omitempty"`
	NearestDepot    int     `json:"nearest_depot,omitempty"`
	RoundTripMeters float64 `json:"round_trip_meters,omitempty"`
	MinutesNeeded   float64 `json:"minutes_needed,omitempty"`
	MinutesAllowed  float64 `json:"minutes_allowed,omitempty"`
}

type feasibilityResponse struct {
	JobID     string           `json:"job_id"`
	OK        bool             `json:"ok"`
	Customers int              `json:"customers"`
	Depots    int              `json:"depots"`
	Findings  []findingPayload `json:"findings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	jobID := log.JobIDFromContext(r.Context())

	var req solveRequest
	p, ok := s.decodeProblem(w, r, &req, func() json.RawMessage { return req.Problem })
	if !ok {
		return
	}

	strategy, err := solver.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := []solver.Option{
		solver.WithStrategy(strategy),
		solver.WithSeed(req.Seed),
	}
	if req.LocalSearch != nil && !*req.LocalSearch {
		opts = append(opts, solver.WithoutLocalSearch())
	}
	if req.TimeLimitMS > 0 {
		opts = append(opts, solver.WithTimeLimit(time.Duration(req.TimeLimitMS)*time.Millisecond))
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.solveTimeout)
	defer cancel()

	sol, err := solver.Solve(ctx, p, solver.NewOptions(opts...))
	if err != nil {
		outcome, status := classifySolveError(err)
		s.metrics.solveTotal.WithLabelValues(strategy.String(), outcome).Inc()
		logger := log.WithContext(r.Context(), s.log)
		logger.Warn().Err(err).Str("label", p.Label).Msg("solve failed")
		writeError(w, status, err)
		return
	}

	s.metrics.solveTotal.WithLabelValues(strategy.String(), "ok").Inc()
	logger := log.WithContext(r.Context(), s.log)
	logger.Info().
		Str("label", p.Label).
		Str("strategy", strategy.String()).
		Float64("total_meters", sol.TotalMeters).
		Int("vehicles_used", sol.VehiclesUsed).
		Dur("elapsed", sol.Elapsed).
		Msg("solved")

	writeJSON(w, http.StatusOK, solveResponse{
		JobID:        jobID,
		Label:        p.Label,
		Strategy:     strategy.String(),
		TotalMeters:  sol.TotalMeters,
		TotalLoad:    sol.TotalLoad,
		VehiclesUsed: sol.VehiclesUsed,
		ElapsedMS:    sol.Elapsed.Milliseconds(),
		Routes:       routePayloads(p, sol),
	})
}

func (s *Server) handleFeasibility(w http.ResponseWriter, r *http.Request) {
	jobID := log.JobIDFromContext(r.Context())

	var req feasibilityRequest
	p, ok := s.decodeProblem(w, r, &req, func() json.RawMessage { return req.Problem })
	if !ok {
		return
	}

	report, err := feasibility.Check(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	findings := make([]findingPayload, 0, len(report.Findings))
	for _, f := range report.Findings {
		findings = append(findings, findingPayload{
			Kind:            f.Kind.String(),
			Node:            f.Node,
			Name:            f.Name,
			Demand:          f.Demand,
			MaxCapacity:     f.MaxCapacity,
			NearestDepot:    f.NearestDepot,
			RoundTripMeters: f.RoundTripMeters,
			MinutesNeeded:   f.MinutesNeeded,
			MinutesAllowed:  f.MinutesAllowed,
		})
	}

	writeJSON(w, http.StatusOK, feasibilityResponse{
		JobID:     jobID,
		OK:        report.OK(),
		Customers: report.Customers,
		Depots:    report.Depots,
		Findings:  findings,
	})
}

// decodeProblem reads the request body into dst and decodes the wrapped
// problem. On failure it writes the error response and returns false.
func (s *Server) decodeProblem(w http.ResponseWriter, r *http.Request, dst any, raw func() json.RawMessage) (*vrp.Problem, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}
	if err = json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	payload := raw()
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("httpapi: missing problem"))
		return nil, false
	}

	p, err := vrp.DecodeProblem(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	return p, true
}

// routePayloads renders non-empty routes with both node indices and,
// when the problem carries names, stop names.
func routePayloads(p *vrp.Problem, sol vrp.Solution) []routePayload {
	named := false
	for _, n := range p.Nodes {
		if n.Name != "" {
			named = true
			break
		}
	}

	out := make([]routePayload, 0, len(sol.Routes))
	for _, rt := range sol.Routes {
		if rt.Empty() {
			continue
		}
		pl := routePayload{
			Vehicle: rt.Vehicle,
			Load:    rt.Load,
			Meters:  rt.Meters,
			Minutes: rt.Minutes,
			Stops:   rt.Nodes,
		}
		if named {
			pl.Names = make([]string, len(rt.Nodes))
			for i, idx := range rt.Nodes {
				pl.Names[i] = p.Nodes[idx].Name
			}
		}
		out = append(out, pl)
	}

	return out
}

// classifySolveError maps solver failures onto HTTP statuses. The
// solver treats deadlines as "stop improving", not as failures, so the
// only outcomes are infeasible instances and bad input.
func classifySolveError(err error) (outcome string, status int) {
	if errors.Is(err, solver.ErrNoSolution) {
		return "infeasible", http.StatusUnprocessableEntity
	}

	return "invalid", http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
