package solver

import (
	"context"
	"math/rand"
	"time"
)

// improve runs the local-search loop: sweeps of intra-route 2-opt followed
// by inter-route relocate and swap, until a full sweep yields no accepted
// move, the sweep cap is hit, the wall-clock budget expires, or the
// context is canceled. Limits and cancellation are only observed at sweep
// boundaries, which keeps uninterrupted runs deterministic.
//
// When opts.Seed is non-zero the per-sweep scan order of routes is
// shuffled with a seeded generator; zero keeps canonical fleet order.
func (s *state) improve(ctx context.Context, opts Options) {
	var deadline time.Time
	if opts.TimeLimit > 0 {
		deadline = time.Now().Add(opts.TimeLimit)
	}

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	order := make([]int, len(s.routes))
	for i := range order {
		order[i] = i
	}

	sweep := 0
	for {
		if opts.MaxSweeps > 0 && sweep >= opts.MaxSweeps {
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return
		}
		if ctx.Err() != nil {
			return
		}

		if rng != nil {
			rng.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
		}

		improved := false
		for _, v := range order {
			if s.twoOptRoute(v, opts) {
				improved = true
			}
		}
		if s.relocateSweep(order, opts) {
			improved = true
		}
		if s.swapSweep(order, opts) {
			improved = true
		}

		if !improved {
			return
		}
		sweep++
	}
}

// twoOptRoute applies 2-opt to one route: reverse seq[i..j] whenever the
// reversed route is shorter by more than Eps. Works on asymmetric
// matrices because the candidate is fully re-costed. Route time can only
// shrink with meters under a fixed stop count, so feasibility is
// preserved by construction; load never changes.
//
// Returns true when at least one reversal was accepted.
//
// Complexity: O(passes · k³) for a k-stop route (full re-cost per
// candidate); routes are short in practice.
func (s *state) twoOptRoute(v int, opts Options) bool {
	seq := s.routes[v]
	if len(seq) < 3 {
		return false
	}

	accepted := false
	base := s.routeMeters(v, seq)
	cand := make([]int, len(seq))

	for again := true; again; {
		again = false

		var (
			bestGain = opts.Eps
			bestI    = -1
			bestJ    = -1
		)
		for i := 0; i < len(seq)-1; i++ {
			for j := i + 1; j < len(seq); j++ {
				copy(cand, seq)
				reverse(cand[i : j+1])
				gain := base - s.routeMeters(v, cand)
				if gain <= bestGain {
					continue
				}
				if !opts.BestImprovement {
					// First improvement: commit immediately.
					reverse(seq[i : j+1])
					base -= gain
					accepted = true
					again = true
					i = len(seq) // break both loops
					break
				}
				bestGain = gain
				bestI, bestJ = i, j
			}
		}

		if opts.BestImprovement && bestI >= 0 {
			reverse(seq[bestI : bestJ+1])
			base -= bestGain
			accepted = true
			again = true
		}
	}

	return accepted
}

// relocateSweep tries to move one customer from route a to any position of
// route b (a ≠ b), accepting the first (or best) move that cuts the summed
// meters of both routes by more than Eps while keeping route b feasible.
//
// Returns true when a move was accepted.
func (s *state) relocateSweep(order []int, opts Options) bool {
	accepted := false

	for _, a := range order {
		pos := 0
		for pos < len(s.routes[a]) {
			if s.relocateCustomer(a, pos, order, opts) {
				accepted = true
				// The customer at pos moved away; re-examine the same slot.
				continue
			}
			pos++
		}
	}

	return accepted
}

// relocateCustomer attempts to move s.routes[a][pos] somewhere better.
func (s *state) relocateCustomer(a, pos int, order []int, opts Options) bool {
	seqA := s.routes[a]
	c := seqA[pos]
	demand := s.p.Nodes[c].Demand

	removed := make([]int, 0, len(seqA)-1)
	removed = append(removed, seqA[:pos]...)
	removed = append(removed, seqA[pos+1:]...)

	// Removing c must leave route a feasible (a bridged leg may be
	// unreachable without the intermediate stop).
	if len(removed) > 0 && !s.routeFeasible(a, removed, s.loads[a]-demand) {
		return false
	}

	baseA := s.routeMeters(a, seqA)
	newA := s.routeMeters(a, removed)

	var (
		bestGain = opts.Eps
		bestB    = -1
		bestSeqB []int
		baseB    float64
	)

	for _, b := range order {
		if b == a {
			continue
		}
		if s.loads[b]+demand > s.p.Fleet[b].Capacity {
			continue
		}
		seqB := s.routes[b]
		baseB = s.routeMeters(b, seqB)

		for at := 0; at <= len(seqB); at++ {
			cand := make([]int, 0, len(seqB)+1)
			cand = append(cand, seqB[:at]...)
			cand = append(cand, c)
			cand = append(cand, seqB[at:]...)

			gain := (baseA + baseB) - (newA + s.routeMeters(b, cand))
			if gain <= bestGain {
				continue
			}
			if !s.routeFeasible(b, cand, s.loads[b]+demand) {
				continue
			}

			if !opts.BestImprovement {
				s.commitRelocate(a, b, c, removed, cand)
				return true
			}
			bestGain = gain
			bestB = b
			bestSeqB = cand
		}
	}

	if bestB >= 0 {
		s.commitRelocate(a, bestB, c, removed, bestSeqB)
		return true
	}

	return false
}

// commitRelocate applies a relocate move to the state.
func (s *state) commitRelocate(a, b, c int, newA, newB []int) {
	demand := s.p.Nodes[c].Demand
	s.routes[a] = newA
	s.routes[b] = newB
	s.loads[a] -= demand
	s.loads[b] += demand
}

// swapSweep exchanges customer pairs across routes when both routes stay
// feasible and total meters shrink by more than Eps. First-improvement
// only; swap is the coarse escape hatch after relocate, and a best-scan
// here buys little.
//
// Returns true when a swap was accepted.
func (s *state) swapSweep(order []int, opts Options) bool {
	accepted := false

	for ai := 0; ai < len(order); ai++ {
		for bi := ai + 1; bi < len(order); bi++ {
			a, b := order[ai], order[bi]
			if s.swapBetween(a, b, opts) {
				accepted = true
			}
		}
	}

	return accepted
}

// swapBetween tries all single-customer exchanges between routes a and b.
func (s *state) swapBetween(a, b int, opts Options) bool {
	seqA, seqB := s.routes[a], s.routes[b]
	if len(seqA) == 0 || len(seqB) == 0 {
		return false
	}

	baseA := s.routeMeters(a, seqA)
	baseB := s.routeMeters(b, seqB)

	for i := 0; i < len(seqA); i++ {
		for j := 0; j < len(seqB); j++ {
			ca, cb := seqA[i], seqB[j]
			dA := s.p.Nodes[ca].Demand
			dB := s.p.Nodes[cb].Demand

			loadA := s.loads[a] - dA + dB
			loadB := s.loads[b] - dB + dA
			if loadA > s.p.Fleet[a].Capacity || loadB > s.p.Fleet[b].Capacity {
				continue
			}

			candA := make([]int, len(seqA))
			candB := make([]int, len(seqB))
			copy(candA, seqA)
			copy(candB, seqB)
			candA[i] = cb
			candB[j] = ca

			gain := (baseA + baseB) - (s.routeMeters(a, candA) + s.routeMeters(b, candB))
			if gain <= opts.Eps {
				continue
			}
			if !s.routeFeasible(a, candA, loadA) || !s.routeFeasible(b, candB, loadB) {
				continue
			}

			s.routes[a] = candA
			s.routes[b] = candB
			s.loads[a] = loadA
			s.loads[b] = loadB

			return true
		}
	}

	return false
}

// reverse flips a slice segment in place.
func reverse(seg []int) {
	for l, r := 0, len(seg)-1; l < r; l, r = l+1, r-1 {
		seg[l], seg[r] = seg[r], seg[l]
	}
}
