package solver

import "math"

// constructCheapestArc builds the first solution greedily: vehicles are
// processed in fleet order, and each repeatedly extends its route from its
// current position to the nearest unassigned customer that keeps the route
// feasible (capacity, reachability, route time). Ties break on the lowest
// customer index, keeping the construction fully deterministic.
//
// Returns ErrNoSolution when customers remain unassigned after every
// vehicle is exhausted.
//
// Complexity: O(F·C²) distance lookups in the worst case, plus a
// O(len(route)) feasibility recheck per accepted extension when the time
// dimension is active.
func (s *state) constructCheapestArc() error {
	unassigned := make(map[int]bool)
	customers := s.p.Customers()
	for _, c := range customers {
		unassigned[c] = true
	}

	var (
		v, c    int
		remain  = len(customers)
		nodes   = s.p.Nodes
		fleet   = s.p.Fleet
		best    int
		bestArc float64
	)

	for v = 0; v < len(fleet) && remain > 0; v++ {
		cur := fleet[v].Depot

		for remain > 0 {
			best = -1
			bestArc = math.Inf(1)

			// Scan customers in index order for the deterministic tie-break.
			for _, c = range customers {
				if !unassigned[c] {
					continue
				}
				arc := s.dist(cur, c)
				if arc >= bestArc {
					continue
				}
				if s.loads[v]+nodes[c].Demand > fleet[v].Capacity {
					continue
				}

				// Tentative extension; routeFeasible covers time and the
				// return leg to the depot.
				cand := append(s.routes[v], c)
				if !s.routeFeasible(v, cand, s.loads[v]+nodes[c].Demand) {
					s.routes[v] = cand[:len(cand)-1]
					continue
				}
				s.routes[v] = cand[:len(cand)-1]

				best = c
				bestArc = arc
			}

			if best == -1 {
				break // vehicle exhausted; move on
			}

			s.routes[v] = append(s.routes[v], best)
			s.loads[v] += nodes[best].Demand
			delete(unassigned, best)
			remain--
			cur = best
		}
	}

	if remain > 0 {
		return ErrNoSolution
	}

	return nil
}
