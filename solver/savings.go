package solver

import (
	"math"
	"sort"
)

// saving is one Clarke–Wright merge candidate: appending the route that
// starts with j to the route that ends with i saves
// d(i,depot) + d(depot,j) − d(i,j) meters.
type saving struct {
	i, j  int
	value float64
}

// constructSavings runs multi-depot parallel savings:
//
//  1. Each customer is assigned to its nearest depot that owns vehicles
//     (round-trip distance; unreachable-from-every-depot → ErrNoSolution).
//  2. Within a depot, every customer starts as its own round trip; route
//     pairs merge end-to-start in descending-savings order while the
//     merged load and route time stay feasible for the depot's largest
//     vehicle. The directed savings formula keeps asymmetric matrices
//     correct.
//  3. Merged routes are matched to the depot's vehicles, largest load to
//     largest capacity. More routes than vehicles, or a route that fits
//     no vehicle, → ErrNoSolution.
//
// Deterministic: savings ties break on (i, j) index order.
//
// Complexity: O(C² log C) per depot group for the savings list sort.
func (s *state) constructSavings() error {
	groups, err := s.groupByNearestDepot()
	if err != nil {
		return err
	}

	// Vehicles per depot, in fleet order.
	vehiclesByDepot := make(map[int][]int)
	for v := range s.p.Fleet {
		d := s.p.Fleet[v].Depot
		vehiclesByDepot[d] = append(vehiclesByDepot[d], v)
	}

	// Depots in ascending node order for determinism.
	depots := make([]int, 0, len(groups))
	for d := range groups {
		depots = append(depots, d)
	}
	sort.Ints(depots)

	for _, d := range depots {
		if err = s.savingsForDepot(d, groups[d], vehiclesByDepot[d]); err != nil {
			return err
		}
	}

	return nil
}

// groupByNearestDepot assigns every customer to the depot with the
// smallest round trip among depots that own at least one vehicle.
func (s *state) groupByNearestDepot() (map[int][]int, error) {
	hasFleet := make(map[int]bool)
	for v := range s.p.Fleet {
		hasFleet[s.p.Fleet[v].Depot] = true
	}

	groups := make(map[int][]int)

	var (
		c, d, bestD int
		roundTrip   float64
		bestDist    float64
	)
	for _, c = range s.p.Customers() {
		bestD = -1
		bestDist = math.Inf(1)
		for _, d = range s.p.Depots() {
			if !hasFleet[d] {
				continue
			}
			roundTrip = s.dist(d, c) + s.dist(c, d)
			if roundTrip < bestDist {
				bestDist = roundTrip
				bestD = d
			}
		}
		if bestD == -1 || math.IsInf(bestDist, 1) {
			return nil, ErrNoSolution
		}
		groups[bestD] = append(groups[bestD], c)
	}

	return groups, nil
}

// savingsForDepot merges the depot's customer group and maps the result
// onto the depot's vehicles.
func (s *state) savingsForDepot(depot int, customers []int, vehicles []int) error {
	if len(customers) == 0 {
		return nil
	}
	if len(vehicles) == 0 {
		return ErrNoSolution
	}

	maxCap := int64(0)
	for _, v := range vehicles {
		if s.p.Fleet[v].Capacity > maxCap {
			maxCap = s.p.Fleet[v].Capacity
		}
	}

	// Singleton routes; track each customer's route by id.
	routes := make([][]int, len(customers))
	loads := make([]int64, len(customers))
	routeOf := make(map[int]int, len(customers))
	for i, c := range customers {
		routes[i] = []int{c}
		loads[i] = s.p.Nodes[c].Demand
		routeOf[c] = i
		if loads[i] > maxCap {
			return ErrNoSolution // customer fits no vehicle at this depot
		}
	}

	// Directed savings list.
	savings := make([]saving, 0, len(customers)*(len(customers)-1))
	for _, i := range customers {
		for _, j := range customers {
			if i == j {
				continue
			}
			v := s.dist(i, depot) + s.dist(depot, j) - s.dist(i, j)
			if math.IsNaN(v) || math.IsInf(v, -1) {
				continue // i→j unreachable; merging would break the route
			}
			savings = append(savings, saving{i: i, j: j, value: v})
		}
	}
	sort.Slice(savings, func(a, b int) bool {
		if savings[a].value != savings[b].value {
			return savings[a].value > savings[b].value
		}
		if savings[a].i != savings[b].i {
			return savings[a].i < savings[b].i
		}

		return savings[a].j < savings[b].j
	})

	// Representative vehicle for feasibility checks during merging: the
	// depot's largest. Final assignment re-checks per vehicle.
	reprVehicle := vehicles[0]
	for _, v := range vehicles {
		if s.p.Fleet[v].Capacity == maxCap {
			reprVehicle = v
			break
		}
	}

	for _, sv := range savings {
		ri, okI := routeOf[sv.i]
		rj, okJ := routeOf[sv.j]
		if !okI || !okJ || ri == rj {
			continue
		}
		// Merge only route-end i with route-start j.
		if routes[ri][len(routes[ri])-1] != sv.i || routes[rj][0] != sv.j {
			continue
		}
		if loads[ri]+loads[rj] > maxCap {
			continue
		}

		merged := make([]int, 0, len(routes[ri])+len(routes[rj]))
		merged = append(merged, routes[ri]...)
		merged = append(merged, routes[rj]...)
		if !s.routeFeasible(reprVehicle, merged, loads[ri]+loads[rj]) {
			continue
		}

		routes[ri] = merged
		loads[ri] += loads[rj]
		for _, c := range routes[rj] {
			routeOf[c] = ri
		}
		routes[rj] = nil
		loads[rj] = 0
	}

	// Collect surviving routes, largest load first.
	type built struct {
		seq  []int
		load int64
	}
	var final []built
	for i := range routes {
		if routes[i] != nil {
			final = append(final, built{seq: routes[i], load: loads[i]})
		}
	}
	sort.Slice(final, func(a, b int) bool {
		if final[a].load != final[b].load {
			return final[a].load > final[b].load
		}

		return final[a].seq[0] < final[b].seq[0]
	})
	if len(final) > len(vehicles) {
		return ErrNoSolution
	}

	// Vehicles by capacity descending (fleet order breaks ties).
	byCap := make([]int, len(vehicles))
	copy(byCap, vehicles)
	sort.SliceStable(byCap, func(a, b int) bool {
		return s.p.Fleet[byCap[a]].Capacity > s.p.Fleet[byCap[b]].Capacity
	})

	for i, b := range final {
		v := byCap[i]
		if !s.routeFeasible(v, b.seq, b.load) {
			return ErrNoSolution
		}
		s.routes[v] = b.seq
		s.loads[v] = b.load
	}

	return nil
}
